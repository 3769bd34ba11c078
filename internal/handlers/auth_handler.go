package handlers

import (
	"fmt"

	"mall/internal/models"
	"mall/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication and user accounts.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the auth and user routes. authRequired guards the
// profile and admin endpoints.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	auth := router.Group("/auth")
	auth.Post("/send-code", h.HandleSendCode)
	auth.Post("/register", h.HandleRegister)
	auth.Post("/login", h.HandleLogin)

	users := router.Group("/users", authRequired)
	users.Get("/profile", h.HandleGetProfile)
	users.Put("/profile", h.HandleUpdateProfile)

	admin := router.Group("/admin/users", authRequired)
	admin.Get("/", h.HandleListUsers)
	admin.Delete("/:id", h.HandleDeleteUser)
}

// SendCodeRequest is the request body for requesting a verification code.
type SendCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=5,max=20"`
}

// HandleSendCode issues a verification code for the phone. The code comes
// back in the response body; SMS delivery is out of scope.
func (h *AuthHandler) HandleSendCode(c *fiber.Ctx) error {
	var req SendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailed(c, err)
	}

	code, err := h.authService.SendCode(c.Context(), req.Phone)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Verification code sent successfully",
		"code":    code,
	})
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Phone    string `json:"phone" validate:"required,min=5,max=20"`
	Code     string `json:"code" validate:"required,len=6"`
	UserType int    `json:"user_type" validate:"omitempty,oneof=1 2"`
	Nickname string `json:"nickname" validate:"omitempty,max=100"`
	Avatar   string `json:"avatar" validate:"omitempty,max=255"`
}

// HandleRegister verifies the code and creates a new account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailed(c, err)
	}

	user, err := h.authService.Register(c.Context(), req.Phone, req.Code, req.UserType, req.Nickname, req.Avatar)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Phone string `json:"phone" validate:"required,min=5,max=20"`
	Code  string `json:"code" validate:"required,len=6"`
}

// HandleLogin verifies the code and returns a JWT plus the user, registering
// unknown phones on the fly.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailed(c, err)
	}

	token, user, err := h.authService.Login(c.Context(), req.Phone, req.Code)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleGetProfile returns the authenticated user's account.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	user, err := h.authService.GetProfile(actor.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	Nickname string `json:"nickname" validate:"omitempty,max=100"`
	Avatar   string `json:"avatar" validate:"omitempty,max=255"`
	Status   *int   `json:"status" validate:"omitempty,oneof=0 1"`
}

// HandleUpdateProfile updates the authenticated user's profile.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailed(c, err)
	}

	actor := actorFromCtx(c)
	user, err := h.authService.UpdateProfile(actor.UserID, req.Nickname, req.Avatar, req.Status)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// HandleListUsers returns a page of users. Admin only.
func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	page, limit := paginationParams(c)
	users, total, err := h.authService.ListUsers(actorFromCtx(c), page, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"data":       users,
		"pagination": pagination(total, page, limit),
	})
}

// HandleDeleteUser removes a user account. Admin only.
func (h *AuthHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}
	if err := h.authService.DeleteUser(actorFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *AuthHandler) validationFailed(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed"})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
