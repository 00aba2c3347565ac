package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"bazar/internal/middleware"
	"bazar/internal/models"
	"bazar/internal/repositories"
	"bazar/internal/services"
)

// authLevel is the authorization state an operation requires before its
// handler runs. Ownership itself is decided by the service against the
// target record; the route table only decides whether a principal must
// exist at all.
type authLevel int

const (
	authNone     authLevel = iota // public; principal resolved when present
	authRequired                  // any authenticated principal
	authOwner                     // authenticated; service enforces ownership
)

// operation maps one route to its handler and required authorization
// state. Registration walks this table in order, so literal paths must
// precede parameter paths.
type operation struct {
	method string
	path   string
	auth   authLevel
	handle fiber.Handler
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	validate := validator.New()
	// "province" restricts a field to the closed province enumeration.
	_ = validate.RegisterValidation("province", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseProvince(fl.Field().String())
		return ok
	})
	return &ProductHandler{
		service:  service,
		validate: validate,
	}
}

func (h *ProductHandler) operations() []operation {
	return []operation{
		{fiber.MethodGet, "/my-products", authRequired, h.HandleListMine},
		{fiber.MethodGet, "/", authNone, h.HandleList},
		{fiber.MethodGet, "/:id", authNone, h.HandleGet},
		{fiber.MethodPost, "/", authRequired, h.HandleCreate},
		{fiber.MethodPut, "/:id", authOwner, h.HandleUpdate},
		{fiber.MethodPatch, "/:id", authOwner, h.HandlePatch},
		{fiber.MethodDelete, "/:id", authOwner, h.HandleDelete},
		{fiber.MethodPost, "/:id/upload-image", authOwner, h.HandleUploadImage},
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	productRoutes := router.Group("/products")
	for _, op := range h.operations() {
		var chain []fiber.Handler
		switch op.auth {
		case authNone:
			chain = append(chain, middleware.OptionalAuth(authService))
		case authRequired, authOwner:
			chain = append(chain, middleware.AuthRequired(authService))
		}
		chain = append(chain, op.handle)
		productRoutes.Add(op.method, op.path, chain...)
	}
}

// parseListQuery reads the filter, search, ordering and page parameters
// from the request. Malformed values are rejected at the boundary.
func parseListQuery(c *fiber.Ctx) (repositories.ListQuery, error) {
	var query repositories.ListQuery

	query.CategoryName = c.Query("category__name")
	query.Search = c.Query("search")

	for param, dest := range map[string]**decimal.Decimal{
		"price__gt": &query.PriceGT,
		"price__lt": &query.PriceLT,
	} {
		if raw := c.Query(param); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				return query, services.NewValidationError(param, "must be a decimal number")
			}
			*dest = &value
		}
	}

	for param, dest := range map[string]**time.Time{
		"created__gt": &query.CreatedGT,
		"created__lt": &query.CreatedLT,
	} {
		if raw := c.Query(param); raw != "" {
			value, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return query, services.NewValidationError(param, "must be an RFC 3339 timestamp")
			}
			*dest = &value
		}
	}

	if ordering := c.Query("ordering"); ordering != "" {
		key := ordering
		if strings.HasPrefix(key, "-") {
			query.Descending = true
			key = key[1:]
		}
		switch key {
		case repositories.OrderByName, repositories.OrderByPrice,
			repositories.OrderByCreated, repositories.OrderByProvince:
			query.OrderBy = key
		default:
			return query, services.NewValidationError("ordering", fmt.Sprintf("unknown ordering key '%s'", key))
		}
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query, services.NewValidationError("page", "must be a positive integer")
		}
		query.Page = page
	}

	return query, nil
}

func parseProductID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("product id '%s': %w", c.Params("id"), services.ErrNotFound)
	}
	return uint(id), nil
}

// HandleList returns one page of the public product collection in the
// summary projection.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	query, err := parseListQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.service.List(query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleListMine returns one page of the caller's own products, under
// the same query contract as the public listing.
func (h *ProductHandler) HandleListMine(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	query, err := parseListQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.service.ListMine(principal, query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleGet returns the full detail of a single product.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// ProductRequest is the body for creating or fully replacing a product.
// The author never comes from the caller.
type ProductRequest struct {
	Category    string          `json:"category" validate:"required,max=200"`
	Name        string          `json:"name" validate:"required,max=50"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"required"`
	Province    string          `json:"province" validate:"required,province"`
	PhoneNumber string          `json:"phone_number" validate:"required"`
}

func (r *ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Category:    r.Category,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Province:    r.Province,
		PhoneNumber: r.PhoneNumber,
	}
}

func (h *ProductHandler) bindProductRequest(c *fiber.Ctx) (*ProductRequest, error) {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return nil, services.NewValidationError("body", "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		first := validationErrors[0]
		return nil, services.NewValidationError(strings.ToLower(first.Field()),
			fmt.Sprintf("failed on the '%s' rule", first.Tag()))
	}
	return &req, nil
}

// HandleCreate creates a product authored by the principal.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	req, err := h.bindProductRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.service.Create(principal, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(detail)
}

// HandleUpdate replaces every mutable field of an owned product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	id, err := parseProductID(c)
	if err != nil {
		return respondError(c, err)
	}

	req, err := h.bindProductRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.service.Update(principal, id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// ProductPatchRequest is the body for a partial update; absent fields
// keep their values.
type ProductPatchRequest struct {
	Category    *string          `json:"category"`
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Province    *string          `json:"province"`
	PhoneNumber *string          `json:"phone_number"`
}

// HandlePatch partially updates an owned product.
func (h *ProductHandler) HandlePatch(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	id, err := parseProductID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ProductPatchRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product patch body: %v", err)
		return respondError(c, services.NewValidationError("body", "invalid request body"))
	}

	detail, err := h.service.Patch(principal, id, services.ProductPatch{
		Category:    req.Category,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Province:    req.Province,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// HandleDelete removes an owned product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	id, err := parseProductID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.Delete(principal, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage attaches a multipart image to an owned product,
// replacing any previous one.
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	id, err := parseProductID(c)
	if err != nil {
		return respondError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return respondError(c, services.NewValidationError("image", "multipart field 'image' is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("failed to open upload: %w", err))
	}
	defer file.Close()

	detail, err := h.service.UploadImage(principal, id, fileHeader.Filename, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}
