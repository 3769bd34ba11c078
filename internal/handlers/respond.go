package handlers

import (
	"errors"
	"strconv"

	"mall/internal/apperrors"
	"mall/internal/authz"
	"mall/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps a service error onto an HTTP response. Validation and
// conflict errors both map to 400 (a stock conflict is a client-visible
// precondition failure on this API); unclassified errors return an opaque
// 500 with the detail logged server-side only.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
		forbiddenErr  *apperrors.ForbiddenError
		conflictErr   *apperrors.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": validationErr.Msg})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFoundErr.Error()})
	case errors.As(err, &forbiddenErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": forbiddenErr.Msg})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": conflictErr.Msg})
	}
	logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}

// actorFromCtx builds the authenticated actor from the locals the JWT
// middleware populated.
func actorFromCtx(c *fiber.Ctx) authz.Actor {
	userID, _ := c.Locals("user_id").(models.ID)
	userType, _ := c.Locals("user_type").(int)
	return authz.Actor{UserID: userID, UserType: userType}
}

// paginationParams reads page/limit query parameters with the listing
// defaults.
func paginationParams(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

// pagination is the envelope returned by listing endpoints.
func pagination(total int64, page, limit int) fiber.Map {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return fiber.Map{
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages,
	}
}
