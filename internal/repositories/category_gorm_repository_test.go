package repositories_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bazar/internal/models"
	"bazar/internal/repositories"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}))
	return db
}

func seedCategoryProduct(t *testing.T, db *gorm.DB, name, category string, authorID uint) {
	t.Helper()
	err := db.Create(&models.Product{
		Name:         name,
		Price:        decimal.RequireFromString("10.00"),
		Description:  "seeded",
		Province:     models.ProvinceLublin,
		PhoneNumber:  "123456789",
		CategoryName: category,
		AuthorID:     authorID,
	}).Error
	assert.NoError(t, err)
}

func TestCategoryListAllOrderedByName(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMCategoryRepository(db)

	for _, name := range []string{"clothes", "automotive", "books"} {
		assert.NoError(t, repo.Create(&models.Category{Name: name}))
	}

	categories, err := repo.ListAll()
	assert.NoError(t, err)

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"automotive", "books", "clothes"}, names)
}

func TestCategoryDeleteCascadesToProducts(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMCategoryRepository(db)

	user := models.User{Username: "janek", Email: "janek@example.com", Password: "x"}
	assert.NoError(t, db.Create(&user).Error)
	assert.NoError(t, repo.Create(&models.Category{Name: "books"}))
	assert.NoError(t, repo.Create(&models.Category{Name: "clothes"}))
	seedCategoryProduct(t, db, "novel", "books", user.ID)
	seedCategoryProduct(t, db, "atlas", "books", user.ID)
	seedCategoryProduct(t, db, "jacket", "clothes", user.ID)

	assert.NoError(t, repo.Delete("books"))

	var count int64
	assert.NoError(t, db.Model(&models.Product{}).Where("category_name = ?", "books").Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Products in other categories survive
	assert.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err := repo.GetByName("books")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryDeleteUnknown(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMCategoryRepository(db)

	err := repo.Delete("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
