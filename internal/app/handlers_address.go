package app

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thelocalstore/store-api/internal/middleware"
	"github.com/thelocalstore/store-api/internal/storage"
)

// HandlePostalLookup resolves a pincode to its serving post offices so
// the address form can prefill district/state/country.
func (a *App) HandlePostalLookup(c *gin.Context) {
	offices, err := a.postal.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"postOffices": offices})
}

type createAddressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	PostalCode int    `json:"postalCode" binding:"required"`
	PostOffice string `json:"postOffice" binding:"required"`
	District   string `json:"district" binding:"required"`
	State      string `json:"state" binding:"required"`
	Country    string `json:"country" binding:"required"`
	AddressOf  string `json:"addressOf" binding:"required"`
}

func (a *App) HandleCreateAddress(c *gin.Context) {
	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "missing required address fields")
		return
	}
	if !slices.Contains(storage.AddressKinds, req.AddressOf) {
		respondFail(c, http.StatusBadRequest, "addressOf must be one of home, work, other")
		return
	}

	user := middleware.CurrentUser(c)
	address, err := a.store.CreateAddress(c.Request.Context(), storage.Address{
		OwnerID:    user.ID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		PostalCode: req.PostalCode,
		PostOffice: req.PostOffice,
		District:   req.District,
		State:      req.State,
		Country:    req.Country,
		AddressOf:  req.AddressOf,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"address": address})
}

func (a *App) HandleListAddresses(c *gin.Context) {
	user := middleware.CurrentUser(c)
	addresses, err := a.store.ListAddresses(c.Request.Context(), user.ID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"addresses": addresses})
}

func (a *App) HandleGetAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed address id")
		return
	}

	user := middleware.CurrentUser(c)
	address, err := a.store.FindAddress(c.Request.Context(), user.ID, id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"address": address})
}

type updateAddressRequest struct {
	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	PostalCode *int    `json:"postalCode"`
	PostOffice *string `json:"postOffice"`
	District   *string `json:"district"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	AddressOf  *string `json:"addressOf"`
}

func (a *App) HandleUpdateAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed address id")
		return
	}

	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.AddressOf != nil && !slices.Contains(storage.AddressKinds, *req.AddressOf) {
		respondFail(c, http.StatusBadRequest, "addressOf must be one of home, work, other")
		return
	}

	user := middleware.CurrentUser(c)
	address, err := a.store.UpdateAddress(c.Request.Context(), user.ID, id, storage.AddressUpdate{
		Line1:      req.Line1,
		Line2:      req.Line2,
		PostalCode: req.PostalCode,
		PostOffice: req.PostOffice,
		District:   req.District,
		State:      req.State,
		Country:    req.Country,
		AddressOf:  req.AddressOf,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"address": address})
}

func (a *App) HandleDeleteAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed address id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := a.store.DeleteAddress(c.Request.Context(), user.ID, id); err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
