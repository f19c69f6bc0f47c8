package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thelocalstore/store-api/internal/middleware"
	"github.com/thelocalstore/store-api/internal/storage"
)

type createVariationRequest struct {
	VariationType string   `json:"variationType" binding:"required"`
	Variants      []string `json:"variants" binding:"required"`
}

func (a *App) HandleCreateVariation(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed product id")
		return
	}

	var req createVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "variationType and variants are required")
		return
	}
	if len(req.Variants) == 0 {
		respondFail(c, http.StatusBadRequest, "variants cannot be empty")
		return
	}

	user := middleware.CurrentUser(c)
	variation, err := a.store.CreateVariation(c.Request.Context(), user.ID, storage.Variation{
		ProductID:     productID,
		VariationType: req.VariationType,
		Variants:      req.Variants,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"variation": variation})
}

type updateVariationRequest struct {
	AddVariants []string `json:"addVariants"`
	DelVariants []string `json:"delVariants"`
}

// HandleUpdateVariation appends and removes variants in one call.
func (a *App) HandleUpdateVariation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed variation id")
		return
	}

	var req updateVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.AddVariants) == 0 && len(req.DelVariants) == 0 {
		respondFail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	user := middleware.CurrentUser(c)
	variation, err := a.store.AmendVariation(c.Request.Context(), user.ID, id, req.AddVariants, req.DelVariants)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"variation": variation})
}

func (a *App) HandleDeleteVariation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed variation id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := a.store.DeleteVariation(c.Request.Context(), user.ID, id); err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
