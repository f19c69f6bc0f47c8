package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thelocalstore/store-api/internal/middleware"
	"github.com/thelocalstore/store-api/internal/storage"
)

func (a *App) HandleListCart(c *gin.Context) {
	user := middleware.CurrentUser(c)
	items, err := a.store.ListCartItems(c.Request.Context(), user.ID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"cart": items})
}

type addCartItemRequest struct {
	ProductID   uuid.UUID  `json:"productId" binding:"required"`
	VariationID *uuid.UUID `json:"variationId"`
	Quantity    int        `json:"quantity"`
}

// HandleAddCartItem adds a product to the cart. A product that defines
// variations requires one to be chosen; a product already in the cart is
// a conflict.
func (a *App) HandleAddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "productId is required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product, err := a.store.FindProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		a.respondError(c, err)
		return
	}

	if len(product.Variations) > 0 {
		if req.VariationID == nil {
			respondFail(c, http.StatusBadRequest, "this product requires a variation")
			return
		}
		if !variationBelongs(product.Variations, *req.VariationID) {
			respondFail(c, http.StatusBadRequest, "variation does not belong to this product")
			return
		}
	}

	user := middleware.CurrentUser(c)
	item, err := a.store.AddCartItem(c.Request.Context(), storage.CartItem{
		OwnerID:     user.ID,
		ProductID:   req.ProductID,
		VariationID: req.VariationID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"cartItem": item})
}

type updateCartItemRequest struct {
	Quantity    *int       `json:"quantity"`
	VariationID *uuid.UUID `json:"variationId"`
}

func (a *App) HandleUpdateCartItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed cart item id")
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Quantity == nil && req.VariationID == nil {
		respondFail(c, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		respondFail(c, http.StatusBadRequest, "quantity must be positive")
		return
	}

	user := middleware.CurrentUser(c)

	if req.VariationID != nil {
		item, err := a.store.FindCartItem(c.Request.Context(), user.ID, id)
		if err != nil {
			a.respondError(c, err)
			return
		}
		product, err := a.store.FindProduct(c.Request.Context(), item.ProductID)
		if err != nil {
			a.respondError(c, err)
			return
		}
		if !variationBelongs(product.Variations, *req.VariationID) {
			respondFail(c, http.StatusBadRequest, "variation does not belong to this product")
			return
		}
	}

	item, err := a.store.UpdateCartItem(c.Request.Context(), user.ID, id, req.Quantity, req.VariationID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"cartItem": item})
}

func (a *App) HandleDeleteCartItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed cart item id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := a.store.DeleteCartItem(c.Request.Context(), user.ID, id); err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

func variationBelongs(variations []storage.Variation, id uuid.UUID) bool {
	for _, v := range variations {
		if v.ID == id {
			return true
		}
	}
	return false
}
