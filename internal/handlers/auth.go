package handlers

import (
	"log"
	"strings"
	"time"

	"splitbuy/internal/config"
	"splitbuy/internal/models"
	"splitbuy/internal/services/auth"
	"splitbuy/internal/utils"
	"splitbuy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterUser creates a new account and returns a token pair.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var input auth.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	user, accessToken, refreshToken, err := h.authService.Register(input)
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			return utils.Conflict(c, "Email already registered")
		}
		log.Printf("Registration failed: %v", err)
		return utils.InternalError(c, "Registration failed")
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return utils.Created(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          userView(user),
	})
}

// LoginUser authenticates and returns a token pair.
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          userView(user),
	})
}

// RefreshToken exchanges a refresh token for a new pair.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		return utils.Unauthorized(c, "Refresh token not provided")
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshTokens(refreshToken)
	if err != nil {
		log.Printf("Token refresh failed: %v", err)
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	h.setAuthCookies(c, newAccessToken, newRefreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutUser invalidates every outstanding token for the caller.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.Logout(claims.UserID); err != nil {
		return utils.InternalError(c, "Failed to logout")
	}

	h.clearAuthCookies(c)

	return utils.Success(c, fiber.Map{"message": "Logged out"})
}

// ChangePassword verifies the old password, sets the new one, and bumps the
// token version so existing sessions die.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if len(input.NewPassword) < 8 {
		return utils.BadRequest(c, "New password must be at least 8 characters")
	}

	if err := h.authService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return utils.BadRequest(c, "Failed to change password")
	}

	return utils.Success(c, fiber.Map{"message": "Password changed"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	user, err := h.authService.GetUserByID(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.Map{"user": user})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(15 * time.Minute),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   config.IsProduction(),
			Path:     "/",
		})
	}
}

func userView(user *models.User) fiber.Map {
	return fiber.Map{
		"id":          user.ID,
		"email":       user.Email,
		"role":        user.Role,
		"permissions": models.GetDefaultPermissions(user.Role),
	}
}
