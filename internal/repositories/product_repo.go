package repositories

import (
	"time"

	"github.com/shopspring/decimal"

	"bazar/internal/models"
)

// PageSize is the fixed number of products per page.
const PageSize = 8

// Ordering keys accepted by ListQuery. A leading '-' on the wire maps
// to Descending; the key itself is validated at the boundary.
const (
	OrderByName     = "name"
	OrderByPrice    = "price"
	OrderByCreated  = "created"
	OrderByProvince = "province"
)

// ListQuery narrows, orders and paginates the product collection. All
// filters combine with AND; bounds are strict (exclusive). A nil bound
// imposes no constraint. Page is 1-indexed; zero means page 1.
type ListQuery struct {
	AuthorID     *uint // scope to a single author ("my products")
	CategoryName string
	PriceGT      *decimal.Decimal
	PriceLT      *decimal.Decimal
	CreatedGT    *time.Time
	CreatedLT    *time.Time
	Search       string // case-insensitive substring over name OR description
	OrderBy      string // one of the OrderBy* keys; empty means name
	Descending   bool
	Page         int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List applies the query pipeline and returns the requested page of
	// products plus the total match count. A page past the end yields an
	// empty slice, not an error.
	List(query ListQuery) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
