package group

import (
	"time"

	"splitbuy/internal/models"
)

// CreateGroupRequest carries the fields the caller (usually the product
// catalog) supplies when opening a group.
type CreateGroupRequest struct {
	ProductID                 uint       `json:"product_id" validate:"required"`
	EscrowAmount              float64    `json:"escrow_amount" validate:"gte=0"`
	TargetCount               int        `json:"target_count" validate:"required,gt=0"`
	GroupType                 string     `json:"group_type"`
	ExpiresAt                 *time.Time `json:"expires_at"`
	VoteDeadline              *time.Time `json:"vote_deadline"`
	UnanimousApprovalRequired bool       `json:"unanimous_approval_required"`
}

// JoinResult is the membership record annotated with what the client needs
// to follow up on.
type JoinResult struct {
	Member                    *models.GroupMember `json:"member"`
	ProductID                 uint                `json:"product_id"`
	RequiresAddressCollection bool                `json:"requires_address_collection"`
	GroupFilled               bool                `json:"group_filled"`
}

// VoteResult reports the tally after a vote is recorded.
type VoteResult struct {
	Vote          string `json:"vote"`
	ApprovedCount int    `json:"approved_count"`
	RejectedCount int    `json:"rejected_count"`
	MemberCount   int    `json:"member_count"`
	VotesRequired int    `json:"votes_required"`
	Settled       bool   `json:"settled"`
}

// Projection is the read model joining a group with its product for display.
type Projection struct {
	Group         *models.Group `json:"group"`
	ProductTitle  string        `json:"product_title"`
	ProductPrice  float64       `json:"product_price"`
	VotesRequired int           `json:"votes_required"`
	ApprovedCount int           `json:"approved_count"`
	RejectedCount int           `json:"rejected_count"`
}
