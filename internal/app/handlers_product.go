package app

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thelocalstore/store-api/internal/middleware"
	"github.com/thelocalstore/store-api/internal/storage"
)

// HandleListProducts is the public catalog listing. Query parameters:
// filterField/filterValue, sortField, sortDesc, skip, limit. Unknown
// fields are ignored by the storage whitelist.
func (a *App) HandleListProducts(c *gin.Context) {
	skip, _ := strconv.Atoi(c.Query("skip"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := a.store.ListProducts(c.Request.Context(), storage.ListFilter{
		Field:     c.Query("filterField"),
		Value:     c.Query("filterValue"),
		SortField: c.Query("sortField"),
		SortDesc:  c.Query("sortDesc") == "true",
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"products": products})
}

func (a *App) HandleGetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed product id")
		return
	}

	product, err := a.store.FindProduct(c.Request.Context(), id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"product": product})
}

func (a *App) HandleListOwnProducts(c *gin.Context) {
	user := middleware.CurrentUser(c)
	products, err := a.store.ListSellerProducts(c.Request.Context(), user.ID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"products": products})
}

type createProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Brand        string          `json:"brand" binding:"required"`
	Category     string          `json:"category" binding:"required"`
	SubCategory  string          `json:"subCategory" binding:"required"`
	Expiry       *time.Time      `json:"expiry"`
	Currency     string          `json:"currency"`
	MarkedPrice  decimal.Decimal `json:"markedPrice" binding:"required"`
	SellingPrice decimal.Decimal `json:"sellingPrice" binding:"required"`
	IsAvailable  *bool           `json:"isAvailable"`
}

func (a *App) HandleCreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "missing required product fields")
		return
	}
	if !slices.Contains(storage.ProductCategories, req.Category) {
		respondFail(c, http.StatusBadRequest, "unknown product category")
		return
	}
	if !req.MarkedPrice.IsPositive() || !req.SellingPrice.IsPositive() {
		respondFail(c, http.StatusBadRequest, "prices must be positive")
		return
	}
	if req.SellingPrice.GreaterThan(req.MarkedPrice) {
		respondFail(c, http.StatusBadRequest, "selling price cannot exceed marked price")
		return
	}

	if req.Currency == "" {
		req.Currency = "INR"
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	user := middleware.CurrentUser(c)
	product, err := a.store.CreateProduct(c.Request.Context(), storage.NewProduct{
		OwnerID:      user.ID,
		Seller:       user.Name,
		Name:         req.Name,
		Description:  req.Description,
		Brand:        req.Brand,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Expiry:       req.Expiry,
		Currency:     req.Currency,
		MarkedPrice:  req.MarkedPrice,
		SellingPrice: req.SellingPrice,
		IsAvailable:  available,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"product": product})
}

type updateProductRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Brand        *string          `json:"brand"`
	Category     *string          `json:"category"`
	SubCategory  *string          `json:"subCategory"`
	Expiry       *time.Time       `json:"expiry"`
	Currency     *string          `json:"currency"`
	MarkedPrice  *decimal.Decimal `json:"markedPrice"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	IsAvailable  *bool            `json:"isAvailable"`
}

func (a *App) HandleUpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed product id")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Category != nil && !slices.Contains(storage.ProductCategories, *req.Category) {
		respondFail(c, http.StatusBadRequest, "unknown product category")
		return
	}
	if req.MarkedPrice != nil && !req.MarkedPrice.IsPositive() {
		respondFail(c, http.StatusBadRequest, "prices must be positive")
		return
	}
	if req.SellingPrice != nil && !req.SellingPrice.IsPositive() {
		respondFail(c, http.StatusBadRequest, "prices must be positive")
		return
	}

	user := middleware.CurrentUser(c)
	product, err := a.store.UpdateProduct(c.Request.Context(), user.ID, id, storage.ProductUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Brand:        req.Brand,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Expiry:       req.Expiry,
		Currency:     req.Currency,
		MarkedPrice:  req.MarkedPrice,
		SellingPrice: req.SellingPrice,
		IsAvailable:  req.IsAvailable,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"product": product})
}

func (a *App) HandleDeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed product id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := a.store.DeleteProduct(c.Request.Context(), user.ID, id); err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
