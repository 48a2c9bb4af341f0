package handlers

import (
	"errors"

	"splitbuy/internal/models"
	"splitbuy/internal/services/card"
	"splitbuy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	cardService *card.Service
}

func NewCardHandler(cardService *card.Service) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// LinkCard tokenizes and stores a payout card for the caller.
func (h *CardHandler) LinkCard(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input models.CreateCardInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	saved, err := h.cardService.LinkCard(claims.UserID, input)
	if err != nil {
		if errors.Is(err, card.ErrInvalidCard) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to link card")
	}

	return utils.Created(c, fiber.Map{"card": saved})
}

func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	cards, err := h.cardService.GetUserCards(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list cards")
	}

	return utils.Success(c, fiber.Map{"cards": cards})
}

func (h *CardHandler) DeleteCard(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	cardID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid card id")
	}

	if err := h.cardService.DeleteCard(cardID, claims.UserID); err != nil {
		if errors.Is(err, card.ErrCardNotFound) {
			return utils.NotFound(c, "Card not found")
		}
		return utils.InternalError(c, "Failed to delete card")
	}

	return utils.Success(c, fiber.Map{"message": "Card deleted"})
}
