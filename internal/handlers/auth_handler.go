package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bazar/internal/middleware"
	"bazar/internal/models"
	"bazar/internal/services"
)

// AuthHandler handles registration, login and self-service account
// management.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)

	me := userRoutes.Group("/me", middleware.AuthRequired(h.authService))
	me.Get("/", h.HandleGetMe)
	me.Put("/", h.HandleUpdateMe)
	me.Patch("/", h.HandleUpdateMe)
	me.Delete("/", h.HandleDeleteMe)
}

func (h *AuthHandler) validationResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[strings.ToLower(e.Field())] = fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// RegisterRequest is the body for creating a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationResponse(c, err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationResponse(c, err)
	}

	token, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

// HandleGetMe returns the authenticated user's own record.
func (h *AuthHandler) HandleGetMe(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	user, err := h.authService.GetUser(principal)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMeRequest carries the self-service mutable fields; username is
// read-only.
type UpdateMeRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

// HandleUpdateMe updates the authenticated user's email or password.
func (h *AuthHandler) HandleUpdateMe(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	var req UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationResponse(c, err)
	}

	user, err := h.authService.UpdateUser(principal, services.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleDeleteMe removes the authenticated user's own account.
func (h *AuthHandler) HandleDeleteMe(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	if err := h.authService.DeleteUser(principal); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
