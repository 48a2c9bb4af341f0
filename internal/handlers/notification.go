package handlers

import (
	"splitbuy/internal/repositories"
	"splitbuy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationHandler(notificationRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit, offset := pagination(c)

	notifications, err := h.notificationRepo.ListByUser(claims.UserID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list notifications")
	}

	return utils.Success(c, fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	notificationID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid notification id")
	}

	rows, err := h.notificationRepo.MarkRead(notificationID, claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to mark notification read")
	}
	if rows == 0 {
		return utils.NotFound(c, "Notification not found")
	}

	return utils.Success(c, fiber.Map{"message": "Notification marked read"})
}
