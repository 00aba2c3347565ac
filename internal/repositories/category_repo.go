package repositories

import "bazar/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	// ListAll returns every category ordered by name.
	ListAll() ([]models.Category, error)
	GetByName(name string) (*models.Category, error)
	Create(category *models.Category) error
	// Delete removes a category together with every product that
	// references it, in a single transaction.
	Delete(name string) error
}
