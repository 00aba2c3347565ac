package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bazar/internal/models"
	"bazar/internal/repositories"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func seedRepo(t *testing.T, products ...models.Product) *repositories.MockProductRepository {
	t.Helper()
	repo := repositories.NewMockProductRepository()
	for i := range products {
		assert.NoError(t, repo.Create(&products[i]))
	}
	return repo
}

func sampleProduct(id uint, name, price string) models.Product {
	return models.Product{
		ID:           id,
		Name:         name,
		Price:        dec(price),
		Description:  "Sample description",
		Created:      time.Date(2023, 1, int(id), 12, 0, 0, 0, time.UTC),
		Province:     models.ProvinceLublin,
		PhoneNumber:  "123456789",
		CategoryName: "electronics",
		AuthorID:     1,
	}
}

func ids(products []models.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestList_PriceBoundsAreStrict(t *testing.T) {
	repo := seedRepo(t,
		sampleProduct(1, "a", "2.00"),
		sampleProduct(2, "b", "3.00"),
		sampleProduct(3, "c", "4.00"),
	)

	products, count, err := repo.List(repositories.ListQuery{
		PriceGT: decPtr("2"),
		PriceLT: decPtr("4"),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	// Products priced exactly at a bound are excluded by that bound
	assert.Equal(t, []uint{2}, ids(products))
}

func TestList_FiltersAreConjunctive(t *testing.T) {
	p1 := sampleProduct(1, "a", "1.25")
	p2 := sampleProduct(2, "b", "2.25")
	p3 := sampleProduct(3, "c", "3.25")
	p2.CategoryName = "electronics"
	p3.CategoryName = "furniture"
	repo := seedRepo(t, p1, p2, p3)

	products, count, err := repo.List(repositories.ListQuery{
		CategoryName: "electronics",
		PriceGT:      decPtr("2"),
		PriceLT:      decPtr("4"),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []uint{2}, ids(products))
}

func TestList_CreatedBoundsAreStrict(t *testing.T) {
	repo := seedRepo(t,
		sampleProduct(1, "a", "1.00"),
		sampleProduct(2, "b", "1.00"),
		sampleProduct(3, "c", "1.00"),
	)

	after := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)  // exactly p1.Created
	before := time.Date(2023, 1, 3, 12, 0, 0, 0, time.UTC) // exactly p3.Created
	products, count, err := repo.List(repositories.ListQuery{
		CreatedGT: &after,
		CreatedLT: &before,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []uint{2}, ids(products))
}

func TestList_SearchMatchesNameOrDescription(t *testing.T) {
	p1 := sampleProduct(1, "A test", "1.00")
	p2 := sampleProduct(2, "B sample", "1.00")
	p3 := sampleProduct(3, "C thing", "1.00")
	p3.Description = "Test sample"
	repo := seedRepo(t, p1, p2, p3)

	products, count, err := repo.List(repositories.ListQuery{Search: "test"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.ElementsMatch(t, []uint{1, 3}, ids(products))

	// Case-insensitive
	products, count, err = repo.List(repositories.ListQuery{Search: "TEST"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.ElementsMatch(t, []uint{1, 3}, ids(products))

	// Empty term is a no-op
	_, count, err = repo.List(repositories.ListQuery{})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestList_OrderingDescendingPriceWithIDTiebreak(t *testing.T) {
	repo := seedRepo(t,
		sampleProduct(1, "a", "2.00"),
		sampleProduct(2, "b", "3.00"),
		sampleProduct(3, "c", "2.00"), // tie with product 1
		sampleProduct(4, "d", "1.00"),
	)

	products, _, err := repo.List(repositories.ListQuery{
		OrderBy:    repositories.OrderByPrice,
		Descending: true,
	})
	assert.NoError(t, err)
	// Non-increasing price; ties broken by ascending id
	assert.Equal(t, []uint{2, 1, 3, 4}, ids(products))
}

func TestList_DefaultOrderingIsNameAscending(t *testing.T) {
	repo := seedRepo(t,
		sampleProduct(1, "cherry", "1.00"),
		sampleProduct(2, "apple", "1.00"),
		sampleProduct(3, "banana", "1.00"),
	)

	products, _, err := repo.List(repositories.ListQuery{})
	assert.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 1}, ids(products))
}

func TestList_Pagination(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	for i := 1; i <= 9; i++ {
		p := sampleProduct(uint(i), fmt.Sprintf("product-%02d", i), "1.00")
		assert.NoError(t, repo.Create(&p))
	}

	page1, count, err := repo.List(repositories.ListQuery{Page: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), count)
	assert.Len(t, page1, 8)

	page2, count, err := repo.List(repositories.ListQuery{Page: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), count)
	assert.Len(t, page2, 1)
	assert.Equal(t, []uint{9}, ids(page2))

	// A page past the end is empty, not an error
	page3, count, err := repo.List(repositories.ListQuery{Page: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), count)
	assert.Empty(t, page3)

	// Page zero means page one
	pageDefault, _, err := repo.List(repositories.ListQuery{})
	assert.NoError(t, err)
	assert.Equal(t, ids(page1), ids(pageDefault))
}

func TestList_AuthorScope(t *testing.T) {
	p1 := sampleProduct(1, "a", "1.00")
	p2 := sampleProduct(2, "b", "1.00")
	p2.AuthorID = 2
	repo := seedRepo(t, p1, p2)

	author := uint(2)
	products, count, err := repo.List(repositories.ListQuery{AuthorID: &author})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []uint{2}, ids(products))
}
