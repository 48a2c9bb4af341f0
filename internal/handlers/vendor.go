package handlers

import (
	"errors"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/utils"
	"splitbuy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type vendorInput struct {
	Name         string `json:"name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	PhoneNumber  string `json:"phone_number"`
	Website      string `json:"website"`
	Notes        string `json:"notes"`
}

// VendorHandler manages user-managed supply vendors.
type VendorHandler struct {
	vendorRepo  repositories.VendorRepository
	productRepo repositories.ProductRepository
}

func NewVendorHandler(vendorRepo repositories.VendorRepository, productRepo repositories.ProductRepository) *VendorHandler {
	return &VendorHandler{vendorRepo: vendorRepo, productRepo: productRepo}
}

func (h *VendorHandler) ListVendors(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	vendors, err := h.vendorRepo.ListByUser(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list vendors")
	}

	return utils.Success(c, fiber.Map{"vendors": vendors})
}

func (h *VendorHandler) GetVendor(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	vendorID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid vendor id")
	}

	vendor, err := h.vendorRepo.GetByID(vendorID, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return utils.NotFound(c, "Vendor not found")
		}
		return utils.InternalError(c, "Failed to get vendor")
	}

	return utils.Success(c, fiber.Map{"vendor": vendor})
}

func (h *VendorHandler) CreateVendor(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input vendorInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	vendor := &models.UserVendor{
		UserID:       claims.UserID,
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		PhoneNumber:  input.PhoneNumber,
		Website:      input.Website,
		Notes:        input.Notes,
	}
	if err := h.vendorRepo.Create(vendor); err != nil {
		return utils.InternalError(c, "Failed to create vendor")
	}

	return utils.Created(c, fiber.Map{"vendor": vendor})
}

func (h *VendorHandler) UpdateVendor(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	vendorID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid vendor id")
	}

	vendor, err := h.vendorRepo.GetByID(vendorID, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return utils.NotFound(c, "Vendor not found")
		}
		return utils.InternalError(c, "Failed to get vendor")
	}

	var input vendorInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	vendor.Name = input.Name
	vendor.ContactEmail = input.ContactEmail
	vendor.PhoneNumber = input.PhoneNumber
	vendor.Website = input.Website
	vendor.Notes = input.Notes

	if err := h.vendorRepo.Update(vendor); err != nil {
		return utils.InternalError(c, "Failed to update vendor")
	}

	return utils.Success(c, fiber.Map{"vendor": vendor})
}

// DeleteVendor refuses to remove a vendor that products still reference as
// their supply source.
func (h *VendorHandler) DeleteVendor(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	vendorID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid vendor id")
	}

	inUse, err := h.productRepo.CountBySupplyVendor(vendorID)
	if err != nil {
		return utils.InternalError(c, "Failed to check vendor usage")
	}
	if inUse > 0 {
		return utils.Conflict(c, "Vendor is referenced by existing products")
	}

	rows, err := h.vendorRepo.Delete(vendorID, claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to delete vendor")
	}
	if rows == 0 {
		return utils.NotFound(c, "Vendor not found")
	}

	return utils.Success(c, fiber.Map{"message": "Vendor deleted"})
}
