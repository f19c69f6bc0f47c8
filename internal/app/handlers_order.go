package app

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thelocalstore/store-api/internal/events"
	"github.com/thelocalstore/store-api/internal/metrics"
	"github.com/thelocalstore/store-api/internal/middleware"
	"github.com/thelocalstore/store-api/internal/storage"
)

type placeOrdersRequest struct {
	AddressID   uuid.UUID `json:"addressId" binding:"required"`
	PaymentMode string    `json:"paymentMode" binding:"required"`
	PaymentID   string    `json:"paymentId"`
}

// HandlePlaceOrders checks out the whole cart: one order per cart line,
// each priced at the current selling price. Everything is validated
// before the first order is placed so a bad line does not leave a
// half-placed checkout.
func (a *App) HandlePlaceOrders(c *gin.Context) {
	var req placeOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "addressId and paymentMode are required")
		return
	}
	if req.PaymentMode != storage.PaymentOnline && req.PaymentMode != storage.PaymentCOD {
		respondFail(c, http.StatusBadRequest, "paymentMode must be online or cod")
		return
	}
	if req.PaymentMode == storage.PaymentOnline && req.PaymentID == "" {
		respondFail(c, http.StatusBadRequest, "paymentId is required for online payment")
		return
	}
	if req.PaymentID == "" {
		req.PaymentID = "not available"
	}

	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	if _, err := a.store.FindAddress(ctx, user.ID, req.AddressID); err != nil {
		a.respondError(c, err)
		return
	}

	items, err := a.store.ListCartItems(ctx, user.ID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	if len(items) == 0 {
		respondFail(c, http.StatusBadRequest, "cart is empty")
		return
	}

	products := make(map[uuid.UUID]*storage.Product, len(items))
	for _, item := range items {
		product, err := a.store.FindProduct(ctx, item.ProductID)
		if err != nil {
			a.respondError(c, err)
			return
		}
		if !product.IsAvailable {
			respondFail(c, http.StatusBadRequest, "product "+product.Name+" is no longer available")
			return
		}
		products[item.ProductID] = product
	}

	orders := make([]storage.Order, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID]
		total := product.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		order, err := a.store.PlaceOrder(ctx, storage.NewOrder{
			ClientID:    user.ID,
			SellerID:    product.OwnerID,
			AddressID:   req.AddressID,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Quantity:    item.Quantity,
			Total:       total,
			PaymentMode: req.PaymentMode,
			PaymentID:   req.PaymentID,
		}, item.ID)
		if err != nil {
			a.respondError(c, err)
			return
		}

		metrics.OrdersPlaced.Inc()
		a.events.PublishOrderPlaced(ctx, events.OrderPlaced{
			OrderID:     order.ID,
			ClientID:    order.ClientID,
			SellerID:    order.SellerID,
			ProductID:   order.ProductID,
			Quantity:    order.Quantity,
			Total:       order.Total,
			PaymentMode: order.PaymentMode,
			PlacedAt:    time.Now().UTC(),
		})
		orders = append(orders, *order)
	}

	respondData(c, http.StatusCreated, gin.H{"orders": orders})
}

func (a *App) HandleListMyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orders, err := a.store.ListClientOrders(c.Request.Context(), user.ID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"orders": orders})
}

func (a *App) HandleGetMyOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed order id")
		return
	}

	user := middleware.CurrentUser(c)
	order, err := a.store.FindClientOrder(c.Request.Context(), user.ID, id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"order": order})
}

func (a *App) HandleListSellerOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orders, err := a.store.ListSellerOrders(c.Request.Context(), user.ID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"orders": orders})
}

type updateOrderRequest struct {
	TrackingID  *string `json:"trackingId"`
	OrderStatus *string `json:"orderStatus"`
}

// HandleUpdateSellerOrder lets the fulfilling seller set the tracking id
// and move the order through its status lifecycle. Nothing else on an
// order is editable.
func (a *App) HandleUpdateSellerOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed order id")
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.TrackingID == nil && req.OrderStatus == nil {
		respondFail(c, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.OrderStatus != nil && !slices.Contains(storage.OrderStatuses, *req.OrderStatus) {
		respondFail(c, http.StatusBadRequest, "unknown order status")
		return
	}

	user := middleware.CurrentUser(c)
	order, err := a.store.UpdateSellerOrder(c.Request.Context(), user.ID, id, storage.OrderUpdate{
		TrackingID:  req.TrackingID,
		OrderStatus: req.OrderStatus,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"order": order})
}

func (a *App) HandleDeleteSellerOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed order id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := a.store.DeleteSellerOrder(c.Request.Context(), user.ID, id); err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
