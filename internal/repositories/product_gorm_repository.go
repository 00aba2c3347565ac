package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bazar/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// orderColumns maps ordering keys to their columns. Keys are validated
// at the boundary; anything unknown falls back to name.
var orderColumns = map[string]string{
	OrderByName:     "name",
	OrderByPrice:    "price",
	OrderByCreated:  "created",
	OrderByProvince: "province",
}

// List applies filter, search, ordering and pagination stages in that
// order against a single query, then fetches the requested page.
func (r *GORMProductRepository) List(query ListQuery) ([]models.Product, int64, error) {
	tx := r.db.Model(&models.Product{})

	// Filter stage: conjunctive, strict bounds.
	if query.AuthorID != nil {
		tx = tx.Where("author_id = ?", *query.AuthorID)
	}
	if query.CategoryName != "" {
		tx = tx.Where("category_name = ?", query.CategoryName)
	}
	if query.PriceGT != nil {
		tx = tx.Where("price > ?", *query.PriceGT)
	}
	if query.PriceLT != nil {
		tx = tx.Where("price < ?", *query.PriceLT)
	}
	if query.CreatedGT != nil {
		tx = tx.Where("created > ?", *query.CreatedGT)
	}
	if query.CreatedLT != nil {
		tx = tx.Where("created < ?", *query.CreatedLT)
	}

	// Search stage: case-insensitive substring over name OR description.
	if query.Search != "" {
		term := "%" + strings.ToLower(query.Search) + "%"
		tx = tx.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", term, term)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Ordering stage: requested key, then id ascending so pagination
	// stays deterministic across tied rows.
	column, ok := orderColumns[query.OrderBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if query.Descending {
		direction = "DESC"
	}
	tx = tx.Order(column + " " + direction).Order("id ASC")

	// Pagination stage: fixed page size, 1-indexed.
	page := query.Page
	if page < 1 {
		page = 1
	}
	tx = tx.Limit(PageSize).Offset((page - 1) * PageSize)

	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, count, nil
}

// GetByID retrieves a single product with its author preloaded.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Author").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	// Save updates all product fields, including zero values; the
	// association structs stay untouched.
	res := r.db.Omit("Author", "Category").Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
