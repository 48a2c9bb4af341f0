// Package handlers contains the fiber HTTP handlers. Handlers translate
// between the HTTP surface and the service layer; business rules live in
// the services.
package handlers

import (
	"strconv"

	"splitbuy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// extractUserClaims pulls the authenticated claims stored by the auth
// middleware.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// paramUint parses a numeric path parameter.
func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// pagination reads limit/offset query params with sane bounds.
func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
