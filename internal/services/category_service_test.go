package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bazar/internal/models"
	"bazar/internal/services"
)

func TestCategoryCreate(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	service := services.NewCategoryService(categoryRepo)

	categoryRepo.On("GetByName", "books").Return(nil, gorm.ErrRecordNotFound).Once()
	categoryRepo.On("Create", mock.AnythingOfType("*models.Category")).Return(nil).Once()

	category, err := service.Create("books")
	assert.NoError(t, err)
	assert.Equal(t, "books", category.Name)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryCreate_Duplicate(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	service := services.NewCategoryService(categoryRepo)

	categoryRepo.On("GetByName", "books").Return(&models.Category{Name: "books"}, nil).Once()

	_, err := service.Create("books")
	assert.ErrorIs(t, err, services.ErrConflict)
	categoryRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCategoryCreate_InvalidName(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	service := services.NewCategoryService(categoryRepo)

	_, err := service.Create("")
	ve, ok := services.AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "name", ve.Field)

	_, err = service.Create(strings.Repeat("x", 201))
	ve, ok = services.AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "name", ve.Field)

	categoryRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCategoryDelete_NotFound(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	service := services.NewCategoryService(categoryRepo)

	categoryRepo.On("Delete", "missing").Return(gorm.ErrRecordNotFound).Once()

	err := service.Delete("missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
