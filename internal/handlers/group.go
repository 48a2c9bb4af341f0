package handlers

import (
	"errors"
	"log"

	domainerrors "splitbuy/internal/errors"
	"splitbuy/internal/repositories"
	"splitbuy/internal/services/group"
	"splitbuy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groupService group.Service
}

func NewGroupHandler(groupService group.Service) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// GetGroup returns a single group projection.
func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	projection, err := h.groupService.GetGroup(c.Context(), groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return utils.NotFound(c, "Group not found")
		}
		return utils.InternalError(c, "Failed to get group")
	}

	return utils.Success(c, fiber.Map{"group": projection})
}

// GetGroupsByProduct lists all groups opened for a product.
func (h *GroupHandler) GetGroupsByProduct(c *fiber.Ctx) error {
	productID, err := paramUint(c, "productId")
	if err != nil {
		return utils.BadRequest(c, "Invalid product id")
	}

	projections, err := h.groupService.GetGroupsByProduct(c.Context(), productID)
	if err != nil {
		return utils.InternalError(c, "Failed to list groups")
	}

	return utils.Success(c, fiber.Map{"groups": projections})
}

// GetMyGroups lists the groups the caller belongs to.
func (h *GroupHandler) GetMyGroups(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	projections, err := h.groupService.GetGroupsByUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list groups")
	}

	return utils.Success(c, fiber.Map{"groups": projections})
}

// GetGroupsAwaitingVotes lists groups in their voting phase.
func (h *GroupHandler) GetGroupsAwaitingVotes(c *fiber.Ctx) error {
	projections, err := h.groupService.GetGroupsAwaitingVotes(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to list groups")
	}

	return utils.Success(c, fiber.Map{"groups": projections})
}

// GetStatusLog returns the audit trail of status transitions for a group.
func (h *GroupHandler) GetStatusLog(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	entries, err := h.groupService.GetStatusLog(c.Context(), groupID)
	if err != nil {
		return utils.InternalError(c, "Failed to get status log")
	}

	return utils.Success(c, fiber.Map{"status_log": entries})
}

// CreateGroup opens an additional group for a product.
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var req group.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	created, err := h.groupService.CreateGroup(c.Context(), req)
	if err != nil {
		if errors.Is(err, group.ErrInvalidGroupRequest) {
			return utils.BadRequest(c, err.Error())
		}
		log.Printf("Group creation failed: %v", err)
		return utils.InternalError(c, "Failed to create group")
	}

	return utils.Created(c, fiber.Map{"group": created})
}

// JoinGroup adds the caller to an open group. The response flags whether a
// delivery address still has to be collected and whether the join filled
// the group.
func (h *GroupHandler) JoinGroup(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	result, err := h.groupService.JoinGroup(c.Context(), groupID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrGroupNotFound):
			return utils.NotFound(c, "Group not found")
		case errors.Is(err, domainerrors.ErrAlreadyMember):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, domainerrors.ErrMissingShippingInfo),
			errors.Is(err, domainerrors.ErrGroupFull),
			errors.Is(err, domainerrors.ErrGroupExpired),
			errors.Is(err, domainerrors.ErrGroupNotOpen):
			return utils.BadRequest(c, err.Error())
		}
		log.Printf("Join failed for user %d group %d: %v", claims.UserID, groupID, err)
		return utils.InternalError(c, "Failed to join group")
	}

	return utils.Success(c, result)
}

// LeaveGroup removes the caller from a group before it fills.
func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	if err := h.groupService.LeaveGroup(c.Context(), groupID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGroupNotFound):
			return utils.NotFound(c, "Group not found")
		case errors.Is(err, domainerrors.ErrNotAMember):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, domainerrors.ErrGroupNotOpen):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to leave group")
	}

	return utils.Success(c, fiber.Map{"message": "Left group"})
}

// CastVote records the caller's approval or rejection during the voting
// phase and returns the updated tally.
func (h *GroupHandler) CastVote(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	groupID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	var input struct {
		Vote string `json:"vote"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	result, err := h.groupService.CastVote(c.Context(), groupID, claims.UserID, input.Vote)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrGroupNotFound):
			return utils.NotFound(c, "Group not found")
		case errors.Is(err, group.ErrInvalidVote),
			errors.Is(err, domainerrors.ErrVotingClosed),
			errors.Is(err, domainerrors.ErrNotAMember):
			return utils.BadRequest(c, err.Error())
		}
		log.Printf("Vote failed for user %d group %d: %v", claims.UserID, groupID, err)
		return utils.InternalError(c, "Failed to record vote")
	}

	return utils.Success(c, result)
}
