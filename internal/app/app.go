// Package app provides the HTTP handlers for the store API.
package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/thelocalstore/store-api/internal/auth"
	"github.com/thelocalstore/store-api/internal/config"
	"github.com/thelocalstore/store-api/internal/events"
	"github.com/thelocalstore/store-api/internal/monitoring"
	"github.com/thelocalstore/store-api/internal/postal"
	"github.com/thelocalstore/store-api/internal/storage"
	"github.com/thelocalstore/store-api/internal/token"
)

// Store is the slice of the storage layer the handlers reach. Satisfied
// by *storage.Store; tests substitute fakes per handler group.
type Store interface {
	Ping(ctx context.Context) error

	FindUserByID(ctx context.Context, id uuid.UUID) (*storage.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd storage.UserUpdate) (*storage.User, error)
	GetUserAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)
	SetUserAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	CreateAddress(ctx context.Context, a storage.Address) (*storage.Address, error)
	ListAddresses(ctx context.Context, ownerID uuid.UUID) ([]storage.Address, error)
	FindAddress(ctx context.Context, ownerID, id uuid.UUID) (*storage.Address, error)
	UpdateAddress(ctx context.Context, ownerID, id uuid.UUID, upd storage.AddressUpdate) (*storage.Address, error)
	DeleteAddress(ctx context.Context, ownerID, id uuid.UUID) error

	AddCartItem(ctx context.Context, item storage.CartItem) (*storage.CartItem, error)
	ListCartItems(ctx context.Context, ownerID uuid.UUID) ([]storage.CartItem, error)
	FindCartItem(ctx context.Context, ownerID, id uuid.UUID) (*storage.CartItem, error)
	UpdateCartItem(ctx context.Context, ownerID, id uuid.UUID, quantity *int, variationID *uuid.UUID) (*storage.CartItem, error)
	DeleteCartItem(ctx context.Context, ownerID, id uuid.UUID) error

	CreateProduct(ctx context.Context, in storage.NewProduct) (*storage.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*storage.Product, error)
	ListProducts(ctx context.Context, f storage.ListFilter) ([]storage.Product, error)
	ListSellerProducts(ctx context.Context, ownerID uuid.UUID) ([]storage.Product, error)
	UpdateProduct(ctx context.Context, ownerID, id uuid.UUID, upd storage.ProductUpdate) (*storage.Product, error)
	DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error

	CreateVariation(ctx context.Context, ownerID uuid.UUID, v storage.Variation) (*storage.Variation, error)
	FindVariation(ctx context.Context, id uuid.UUID) (*storage.Variation, error)
	AmendVariation(ctx context.Context, ownerID, id uuid.UUID, addVariants, delVariants []string) (*storage.Variation, error)
	DeleteVariation(ctx context.Context, ownerID, id uuid.UUID) error

	CreateProductImage(ctx context.Context, ownerID, productID uuid.UUID, image []byte) (*storage.ProductImage, error)
	GetProductImage(ctx context.Context, id uuid.UUID) ([]byte, error)
	DeleteProductImage(ctx context.Context, ownerID, id uuid.UUID) error

	PlaceOrder(ctx context.Context, in storage.NewOrder, cartItemID uuid.UUID) (*storage.Order, error)
	ListClientOrders(ctx context.Context, clientID uuid.UUID) ([]storage.Order, error)
	ListSellerOrders(ctx context.Context, sellerID uuid.UUID) ([]storage.Order, error)
	FindClientOrder(ctx context.Context, clientID, id uuid.UUID) (*storage.Order, error)
	UpdateSellerOrder(ctx context.Context, sellerID, id uuid.UUID, upd storage.OrderUpdate) (*storage.Order, error)
	DeleteSellerOrder(ctx context.Context, sellerID, id uuid.UUID) error
}

// Resizer shrinks uploaded images before they hit the database.
type Resizer interface {
	Resize(ctx context.Context, image []byte, width int) ([]byte, error)
}

// PostalLookup resolves pincodes for the address form.
type PostalLookup interface {
	Lookup(ctx context.Context, code string) ([]postal.Office, error)
}

type App struct {
	config  *config.Config
	logger  *slog.Logger
	auth    *auth.Service
	tokens  *token.Service
	store   Store
	resizer Resizer
	postal  PostalLookup
	events  *events.Producer
	sentry  *monitoring.Sentry
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	authService *auth.Service,
	tokens *token.Service,
	store Store,
	resizer Resizer,
	postalClient PostalLookup,
	producer *events.Producer,
	sentry *monitoring.Sentry,
) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if sentry == nil {
		sentry, _ = monitoring.NewSentry(monitoring.Config{})
	}
	return &App{
		config:  cfg,
		logger:  logger,
		auth:    authService,
		tokens:  tokens,
		store:   store,
		resizer: resizer,
		postal:  postalClient,
		events:  producer,
		sentry:  sentry,
	}
}
