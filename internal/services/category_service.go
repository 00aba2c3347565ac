package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bazar/internal/models"
	"bazar/internal/repositories"
)

// CategoryService handles the category collection. Categories are
// created administratively and immutable thereafter; deleting one
// removes its products.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// List returns every category ordered by name. The collection is not
// paginated.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categoryRepo.ListAll()
}

// Create adds a new category. Names are globally unique.
func (s *CategoryService) Create(name string) (*models.Category, error) {
	if name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return nil, NewValidationError("name", "must be at most 200 characters")
	}
	if existing, err := s.categoryRepo.GetByName(name); err == nil && existing != nil {
		return nil, fmt.Errorf("category '%s' already exists: %w", name, ErrConflict)
	}

	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category and, by explicit policy, every product
// listed under it.
func (s *CategoryService) Delete(name string) error {
	if err := s.categoryRepo.Delete(name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %s: %w", name, ErrNotFound)
		}
		return err
	}
	return nil
}
