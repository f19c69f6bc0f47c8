package storage

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User account statuses.
const (
	StatusActive = "active"
	StatusHold   = "hold"
	StatusBlock  = "block"
)

// User roles. Roles is a multi-valued set; seller is appended through an
// explicit promotion, never granted at registration.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Payment modes and order statuses.
const (
	PaymentOnline = "online"
	PaymentCOD    = "cod"
)

var OrderStatuses = []string{"confirmed", "rejected", "canceled", "shipped", "delivered"}

var ProductCategories = []string{"grocery", "health", "appliance", "electronic", "stationary", "beauty"}

var AddressKinds = []string{"home", "work", "other"}

// User is the credential-store record. The password hash, status, and
// avatar never appear in client-facing views.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// NewUser is the input for Store.CreateUser. PasswordHash must already be
// hashed; cleartext never reaches the storage layer.
type NewUser struct {
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash string
}

// UserUpdate holds the permitted profile updates. Nil fields are left
// unchanged.
type UserUpdate struct {
	Name         *string
	Email        *string
	PhoneNumber  *string
	PasswordHash *string
}

type Address struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"ownerId"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2"`
	PostalCode int       `json:"postalCode"`
	PostOffice string    `json:"postOffice"`
	District   string    `json:"district"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	AddressOf  string    `json:"addressOf"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AddressUpdate mirrors the patchable address fields; nil means unchanged.
type AddressUpdate struct {
	Line1      *string
	Line2      *string
	PostalCode *int
	PostOffice *string
	District   *string
	State      *string
	Country    *string
	AddressOf  *string
}

type Product struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"ownerId"`
	Seller       string          `json:"seller"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	SubCategory  string          `json:"subCategory"`
	Expiry       *time.Time      `json:"expiry,omitempty"`
	Currency     string          `json:"currency"`
	MarkedPrice  decimal.Decimal `json:"markedPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	IsAvailable  bool            `json:"isAvailable"`
	Variations   []Variation     `json:"variations,omitempty"`
	ImageIDs     []uuid.UUID     `json:"images,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type NewProduct struct {
	OwnerID      uuid.UUID
	Seller       string
	Name         string
	Description  string
	Brand        string
	Category     string
	SubCategory  string
	Expiry       *time.Time
	Currency     string
	MarkedPrice  decimal.Decimal
	SellingPrice decimal.Decimal
	IsAvailable  bool
}

type ProductUpdate struct {
	Name         *string
	Description  *string
	Brand        *string
	Category     *string
	SubCategory  *string
	Expiry       *time.Time
	Currency     *string
	MarkedPrice  *decimal.Decimal
	SellingPrice *decimal.Decimal
	IsAvailable  *bool
}

type Variation struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"productId"`
	VariationType string    `json:"variationType"`
	Variants      []string  `json:"variants"`
}

type ProductImage struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Image     []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type CartItem struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	ProductID   uuid.UUID  `json:"productId"`
	VariationID *uuid.UUID `json:"variationId,omitempty"`
	Quantity    int        `json:"quantity"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"clientId"`
	SellerID    uuid.UUID       `json:"sellerId"`
	AddressID   uuid.UUID       `json:"addressId"`
	ProductID   uuid.UUID       `json:"productId"`
	VariationID *uuid.UUID      `json:"variationId,omitempty"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	PaymentMode string          `json:"paymentMode"`
	PaymentID   string          `json:"paymentId"`
	TrackingID  string          `json:"trackingId"`
	OrderStatus string          `json:"orderStatus"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type NewOrder struct {
	ClientID    uuid.UUID
	SellerID    uuid.UUID
	AddressID   uuid.UUID
	ProductID   uuid.UUID
	VariationID *uuid.UUID
	Quantity    int
	Total       decimal.Decimal
	PaymentMode string
	PaymentID   string
}

// OrderUpdate covers the seller-editable fields.
type OrderUpdate struct {
	TrackingID  *string
	OrderStatus *string
}

// ListFilter carries the optional match/sort/pagination parameters for
// product and order listings. Field and SortField are validated against
// a per-query whitelist before reaching SQL.
type ListFilter struct {
	Field     string
	Value     string
	SortField string
	SortDesc  bool
	Skip      int
	Limit     int
}
