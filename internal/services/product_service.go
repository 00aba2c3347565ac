package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for upload validation
	_ "image/jpeg" //
	_ "image/png"  //
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bazar/internal/models"
	"bazar/internal/repositories"
	"bazar/pkg/events"
)

// Page is the envelope returned by list operations. Next and Previous
// are page numbers, nil when no such page exists.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Next     *int  `json:"next"`
	Previous *int  `json:"previous"`
	Results  []T   `json:"results"`
}

// ProductSummary is the list projection: it omits author, description
// and phone number.
type ProductSummary struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Created  time.Time       `json:"created"`
	Province models.Province `json:"province"`
	Image    *string         `json:"image"`
	Category string          `json:"category"`
}

// ProductDetail is the full projection, including the author's public
// identity.
type ProductDetail struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Price       decimal.Decimal   `json:"price"`
	Description string            `json:"description"`
	Created     time.Time         `json:"created"`
	Province    models.Province   `json:"province"`
	PhoneNumber string            `json:"phone_number"`
	Image       *string           `json:"image"`
	Category    string            `json:"category"`
	Author      models.PublicUser `json:"author"`
}

// ProductInput carries the creatable fields of a product. The author is
// never part of the input; it is assigned from the principal.
type ProductInput struct {
	Category    string
	Name        string
	Price       decimal.Decimal
	Description string
	Province    string
	PhoneNumber string
}

// ProductPatch carries a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Category    *string
	Name        *string
	Price       *decimal.Decimal
	Description *string
	Province    *string
	PhoneNumber *string
}

// EventPublisher publishes product lifecycle events.
type EventPublisher interface {
	PublishProductEvent(event events.ProductEvent) error
}

// ImageStore persists uploaded product images.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(path string) error
}

// ProductService orchestrates product reads and owner-gated mutations.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	images       ImageStore
	publisher    EventPublisher // may be nil; events are best-effort
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, images ImageStore, publisher EventPublisher) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		publisher:    publisher,
	}
}

// List returns one page of the public product collection.
func (s *ProductService) List(query repositories.ListQuery) (*Page[ProductSummary], error) {
	query.AuthorID = nil
	return s.list(query)
}

// ListMine returns one page of the products authored by the principal.
func (s *ProductService) ListMine(authorID uint, query repositories.ListQuery) (*Page[ProductSummary], error) {
	query.AuthorID = &authorID
	return s.list(query)
}

func (s *ProductService) list(query repositories.ListQuery) (*Page[ProductSummary], error) {
	products, count, err := s.productRepo.List(query)
	if err != nil {
		return nil, err
	}

	results := make([]ProductSummary, 0, len(products))
	for i := range products {
		results = append(results, summaryOf(&products[i]))
	}
	return newPage(count, query.Page, results), nil
}

func newPage[T any](count int64, page int, results []T) *Page[T] {
	if page < 1 {
		page = 1
	}
	p := &Page[T]{Count: count, Results: results}
	if page > 1 {
		prev := page - 1
		p.Previous = &prev
	}
	if int64(page*repositories.PageSize) < count {
		next := page + 1
		p.Next = &next
	}
	return p
}

// Get returns the full detail of a single product.
func (s *ProductService) Get(id uint) (*ProductDetail, error) {
	product, err := s.getProduct(id)
	if err != nil {
		return nil, err
	}
	return detailOf(product), nil
}

// Create validates the input and persists a new product authored by the
// principal.
func (s *ProductService) Create(authorID uint, input ProductInput) (*ProductDetail, error) {
	province, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         input.Name,
		Price:        input.Price,
		Description:  input.Description,
		Province:     province,
		PhoneNumber:  input.PhoneNumber,
		CategoryName: input.Category,
		AuthorID:     authorID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.publish(events.ActionCreated, product)

	// Re-fetch so the detail projection carries the author identity.
	return s.Get(product.ID)
}

// Update replaces every mutable field of a product. Only the author may
// do this.
func (s *ProductService) Update(principalID, id uint, input ProductInput) (*ProductDetail, error) {
	product, err := s.getProduct(id)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(principalID) {
		return nil, fmt.Errorf("product %d: %w", id, ErrForbidden)
	}

	province, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Description = input.Description
	product.Province = province
	product.PhoneNumber = input.PhoneNumber
	product.CategoryName = input.Category

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.publish(events.ActionUpdated, product)
	return detailOf(product), nil
}

// Patch applies a partial update. Only the author may do this.
func (s *ProductService) Patch(principalID, id uint, patch ProductPatch) (*ProductDetail, error) {
	product, err := s.getProduct(id)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(principalID) {
		return nil, fmt.Errorf("product %d: %w", id, ErrForbidden)
	}

	if patch.Category != nil {
		if err := s.validateCategory(*patch.Category); err != nil {
			return nil, err
		}
		product.CategoryName = *patch.Category
	}
	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Province != nil {
		province, ok := models.ParseProvince(*patch.Province)
		if !ok {
			return nil, NewValidationError("province", "must be one of the 13 provinces")
		}
		product.Province = province
	}
	if patch.PhoneNumber != nil {
		if err := models.ValidatePhoneNumber(*patch.PhoneNumber); err != nil {
			return nil, NewValidationError("phone_number", err.Error())
		}
		product.PhoneNumber = *patch.PhoneNumber
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.publish(events.ActionUpdated, product)
	return detailOf(product), nil
}

// Delete removes a product. Only the author may do this.
func (s *ProductService) Delete(principalID, id uint) error {
	product, err := s.getProduct(id)
	if err != nil {
		return err
	}
	if !product.OwnedBy(principalID) {
		return fmt.Errorf("product %d: %w", id, ErrForbidden)
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	if product.Image != nil {
		if err := s.images.Remove(*product.Image); err != nil {
			log.Printf("Failed to remove image of deleted product %d: %v", id, err)
		}
	}
	s.publish(events.ActionDeleted, product)
	return nil
}

// UploadImage validates that the payload decodes as an image, stores
// it, and attaches it to the product, releasing any previous asset.
// Only the author may do this. On an invalid payload the existing image
// is untouched.
func (s *ProductService) UploadImage(principalID, id uint, filename string, r io.Reader) (*ProductDetail, error) {
	product, err := s.getProduct(id)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(principalID) {
		return nil, fmt.Errorf("product %d: %w", id, ErrForbidden)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	path, err := s.images.Save(filename, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	previous := product.Image
	product.Image = &path
	if err := s.productRepo.Update(product); err != nil {
		// Keep the store consistent with the record we failed to update.
		if removeErr := s.images.Remove(path); removeErr != nil {
			log.Printf("Failed to remove orphaned image %s: %v", path, removeErr)
		}
		return nil, err
	}
	if previous != nil {
		if err := s.images.Remove(*previous); err != nil {
			log.Printf("Failed to remove replaced image %s: %v", *previous, err)
		}
	}
	s.publish(events.ActionUpdated, product)
	return detailOf(product), nil
}

func (s *ProductService) getProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) validateInput(input ProductInput) (models.Province, error) {
	if err := validateName(input.Name); err != nil {
		return "", err
	}
	if err := s.validateCategory(input.Category); err != nil {
		return "", err
	}
	if err := validatePrice(input.Price); err != nil {
		return "", err
	}
	province, ok := models.ParseProvince(input.Province)
	if !ok {
		return "", NewValidationError("province", "must be one of the 13 provinces")
	}
	if err := models.ValidatePhoneNumber(input.PhoneNumber); err != nil {
		return "", NewValidationError("phone_number", err.Error())
	}
	return province, nil
}

func (s *ProductService) validateCategory(name string) error {
	if name == "" {
		return NewValidationError("category", "is required")
	}
	if _, err := s.categoryRepo.GetByName(name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("category", "unknown category")
		}
		return err
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return NewValidationError("name", "is required")
	}
	if len(name) > 50 {
		return NewValidationError("name", "must be at most 50 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return NewValidationError("price", "must not be negative")
	}
	return nil
}

func (s *ProductService) publish(action string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := events.ProductEvent{
		Action:    action,
		ProductID: product.ID,
		AuthorID:  product.AuthorID,
		Occurred:  time.Now(),
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		log.Printf("Failed to publish product %s event for %d: %v", action, product.ID, err)
	}
}

// mediaURLPrefix is the route stored images are served from.
const mediaURLPrefix = "/media/"

func imageURL(p *models.Product) *string {
	if p.Image == nil {
		return nil
	}
	url := mediaURLPrefix + *p.Image
	return &url
}

func summaryOf(p *models.Product) ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Created:  p.Created,
		Province: p.Province,
		Image:    imageURL(p),
		Category: p.CategoryName,
	}
}

func detailOf(p *models.Product) *ProductDetail {
	return &ProductDetail{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Created:     p.Created,
		Province:    p.Province,
		PhoneNumber: p.PhoneNumber,
		Image:       imageURL(p),
		Category:    p.CategoryName,
		Author:      p.Author.Public(),
	}
}
