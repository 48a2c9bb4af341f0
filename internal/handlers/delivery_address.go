package handlers

import (
	"errors"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/utils"
	"splitbuy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// deliveryAddressInput carries the fields a participant submits for
// fulfilment of a physical product.
type deliveryAddressInput struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country" validate:"required"`
	PhoneNumber  string `json:"phone_number" validate:"required"`
}

// DeliveryAddressHandler covers per-member delivery address submission and
// the fulfiller's view of all addresses in a group.
type DeliveryAddressHandler struct {
	addressRepo repositories.AddressRepository
	groupRepo   repositories.GroupRepository
	productRepo repositories.ProductRepository
}

func NewDeliveryAddressHandler(
	addressRepo repositories.AddressRepository,
	groupRepo repositories.GroupRepository,
	productRepo repositories.ProductRepository,
) *DeliveryAddressHandler {
	return &DeliveryAddressHandler{
		addressRepo: addressRepo,
		groupRepo:   groupRepo,
		productRepo: productRepo,
	}
}

// memberForCaller resolves the caller's membership and checks it against
// the member id in the path.
func (h *DeliveryAddressHandler) memberForCaller(c *fiber.Ctx, groupID, memberID, userID uint) (*models.GroupMember, error) {
	member, err := h.groupRepo.GetMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if member.ID != memberID {
		return nil, repositories.ErrMemberNotFound
	}
	return member, nil
}

// SubmitDeliveryAddress upserts the caller's delivery address for a group
// membership. Resubmitting replaces the previous address.
func (h *DeliveryAddressHandler) SubmitDeliveryAddress(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}
	memberID, err := paramUint(c, "memberId")
	if err != nil {
		return utils.BadRequest(c, "Invalid member id")
	}

	member, err := h.memberForCaller(c, groupID, memberID, claims.UserID)
	if err != nil {
		return utils.Forbidden(c, "Not your group membership")
	}

	var input deliveryAddressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	address := &models.ParticipantDeliveryAddress{
		GroupMemberID: member.ID,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		AddressLine1:  input.AddressLine1,
		AddressLine2:  input.AddressLine2,
		City:          input.City,
		State:         input.State,
		PostalCode:    input.PostalCode,
		Country:       input.Country,
		PhoneNumber:   input.PhoneNumber,
	}
	if err := h.addressRepo.UpsertDeliveryAddress(address); err != nil {
		return utils.InternalError(c, "Failed to save delivery address")
	}

	return utils.Created(c, fiber.Map{"delivery_address": address})
}

// GetDeliveryAddress returns the caller's own submitted address.
func (h *DeliveryAddressHandler) GetDeliveryAddress(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}
	memberID, err := paramUint(c, "memberId")
	if err != nil {
		return utils.BadRequest(c, "Invalid member id")
	}

	member, err := h.memberForCaller(c, groupID, memberID, claims.UserID)
	if err != nil {
		return utils.Forbidden(c, "Not your group membership")
	}

	address, err := h.addressRepo.GetDeliveryAddress(member.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrAddressNotFound) {
			return utils.NotFound(c, "Delivery address not submitted")
		}
		return utils.InternalError(c, "Failed to get delivery address")
	}

	return utils.Success(c, fiber.Map{"delivery_address": address})
}

// ListGroupDeliveryAddresses gives the fulfilling vendor every submitted
// address for a group. Only the owner of the group's product may call it.
func (h *DeliveryAddressHandler) ListGroupDeliveryAddresses(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	grp, err := h.groupRepo.GetByID(groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return utils.NotFound(c, "Group not found")
		}
		return utils.InternalError(c, "Failed to get group")
	}

	product, err := h.productRepo.GetByID(grp.ProductID)
	if err != nil {
		return utils.InternalError(c, "Failed to get product")
	}
	if product.VendorID != claims.UserID && claims.Role != models.RoleAdmin {
		return utils.Forbidden(c, "Only the fulfilling vendor can view delivery addresses")
	}

	addresses, err := h.addressRepo.ListDeliveryAddressesForGroup(groupID)
	if err != nil {
		return utils.InternalError(c, "Failed to list delivery addresses")
	}

	return utils.Success(c, fiber.Map{"delivery_addresses": addresses})
}
