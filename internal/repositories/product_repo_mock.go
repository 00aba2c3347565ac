package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"bazar/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. It applies the same query pipeline semantics as
// the GORM implementation, so tests can exercise filtering, search,
// ordering and pagination without a database.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

func matches(p *models.Product, query ListQuery) bool {
	if query.AuthorID != nil && p.AuthorID != *query.AuthorID {
		return false
	}
	if query.CategoryName != "" && p.CategoryName != query.CategoryName {
		return false
	}
	if query.PriceGT != nil && !p.Price.GreaterThan(*query.PriceGT) {
		return false
	}
	if query.PriceLT != nil && !p.Price.LessThan(*query.PriceLT) {
		return false
	}
	if query.CreatedGT != nil && !p.Created.After(*query.CreatedGT) {
		return false
	}
	if query.CreatedLT != nil && !p.Created.Before(*query.CreatedLT) {
		return false
	}
	if query.Search != "" {
		term := strings.ToLower(query.Search)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	return true
}

// less compares two products under the ordering key; equal keys fall
// back to ascending id regardless of direction.
func less(a, b *models.Product, orderBy string, descending bool) bool {
	var cmp int
	switch orderBy {
	case OrderByPrice:
		cmp = a.Price.Cmp(b.Price)
	case OrderByCreated:
		switch {
		case a.Created.Before(b.Created):
			cmp = -1
		case a.Created.After(b.Created):
			cmp = 1
		}
	case OrderByProvince:
		cmp = strings.Compare(string(a.Province), string(b.Province))
	default:
		cmp = strings.Compare(a.Name, b.Name)
	}
	if cmp == 0 {
		return a.ID < b.ID
	}
	if descending {
		return cmp > 0
	}
	return cmp < 0
}

// List applies the query pipeline over the in-memory collection.
func (r *MockProductRepository) List(query ListQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(&p, query) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return less(&matched[i], &matched[j], query.OrderBy, query.Descending)
	})

	count := int64(len(matched))
	page := query.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(matched) {
		return []models.Product{}, count, nil
	}
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], count, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return &product, nil
}

// Create adds a new product, assigning the next monotonic ID.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", product.ID, gorm.ErrRecordNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	delete(r.products, id)
	return nil
}
