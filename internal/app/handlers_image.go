package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thelocalstore/store-api/internal/imaging"
	"github.com/thelocalstore/store-api/internal/middleware"
)

func (a *App) HandleUploadProductImage(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed product id")
		return
	}

	raw, err := readUpload(c)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	resized, err := a.resizer.Resize(c.Request.Context(), raw, imaging.ProductImageWidth)
	if err != nil {
		a.respondError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	image, err := a.store.CreateProductImage(c.Request.Context(), user.ID, productID, resized)
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"image": image})
}

// HandleGetProductImage serves the stored JPEG. Public, like the catalog.
func (a *App) HandleGetProductImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed image id")
		return
	}

	image, err := a.store.GetProductImage(c.Request.Context(), id)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/jpeg", image)
}

func (a *App) HandleDeleteProductImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed image id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := a.store.DeleteProductImage(c.Request.Context(), user.ID, id); err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
