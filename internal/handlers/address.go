package handlers

import (
	"errors"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/utils"
	"splitbuy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// addressInput carries the editable fields of an address book entry.
type addressInput struct {
	Label        string `json:"label"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country" validate:"required"`
	PhoneNumber  string `json:"phone_number" validate:"required"`
	IsDefault    bool   `json:"is_default"`
}

type AddressHandler struct {
	addressRepo repositories.AddressRepository
}

func NewAddressHandler(addressRepo repositories.AddressRepository) *AddressHandler {
	return &AddressHandler{addressRepo: addressRepo}
}

func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	addresses, err := h.addressRepo.ListByUser(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list addresses")
	}

	return utils.Success(c, fiber.Map{"addresses": addresses})
}

func (h *AddressHandler) CreateAddress(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input addressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	address := &models.UserProfileAddress{
		UserID:       claims.UserID,
		Label:        input.Label,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
		PhoneNumber:  input.PhoneNumber,
		IsDefault:    input.IsDefault,
	}
	if err := h.addressRepo.Create(address); err != nil {
		return utils.InternalError(c, "Failed to create address")
	}

	return utils.Created(c, fiber.Map{"address": address})
}

func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	addressID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid address id")
	}

	address, err := h.addressRepo.GetByID(addressID, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAddressNotFound) {
			return utils.NotFound(c, "Address not found")
		}
		return utils.InternalError(c, "Failed to get address")
	}

	var input addressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	address.Label = input.Label
	address.FirstName = input.FirstName
	address.LastName = input.LastName
	address.AddressLine1 = input.AddressLine1
	address.AddressLine2 = input.AddressLine2
	address.City = input.City
	address.State = input.State
	address.PostalCode = input.PostalCode
	address.Country = input.Country
	address.PhoneNumber = input.PhoneNumber

	if err := h.addressRepo.Update(address); err != nil {
		return utils.InternalError(c, "Failed to update address")
	}

	if input.IsDefault && !address.IsDefault {
		if err := h.addressRepo.SetDefault(claims.UserID, address.ID); err != nil {
			return utils.InternalError(c, "Failed to set default address")
		}
		address.IsDefault = true
	}

	return utils.Success(c, fiber.Map{"address": address})
}

func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	addressID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid address id")
	}

	rows, err := h.addressRepo.Delete(addressID, claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to delete address")
	}
	if rows == 0 {
		return utils.NotFound(c, "Address not found")
	}

	return utils.Success(c, fiber.Map{"message": "Address deleted"})
}

func (h *AddressHandler) SetDefaultAddress(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	addressID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid address id")
	}

	if err := h.addressRepo.SetDefault(claims.UserID, addressID); err != nil {
		if errors.Is(err, repositories.ErrAddressNotFound) {
			return utils.NotFound(c, "Address not found")
		}
		return utils.InternalError(c, "Failed to set default address")
	}

	return utils.Success(c, fiber.Map{"message": "Default address updated"})
}
