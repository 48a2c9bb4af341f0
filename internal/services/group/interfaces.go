package group

import (
	"context"
	"time"

	"splitbuy/internal/models"
)

// Service is the group lifecycle engine interface.
type Service interface {
	// Lifecycle operations
	CreateGroup(ctx context.Context, req CreateGroupRequest) (*models.Group, error)
	OpenInitialGroup(ctx context.Context, product *models.Product, groupType string, expiresAt *time.Time) (*models.Group, error)
	JoinGroup(ctx context.Context, groupID, userID uint) (*JoinResult, error)
	LeaveGroup(ctx context.Context, groupID, userID uint) error
	CastVote(ctx context.Context, groupID, userID uint, vote string) (*VoteResult, error)

	// Projections
	GetGroup(ctx context.Context, groupID uint) (*Projection, error)
	GetGroupsByProduct(ctx context.Context, productID uint) ([]Projection, error)
	GetGroupsByUser(ctx context.Context, userID uint) ([]Projection, error)
	GetGroupsAwaitingVotes(ctx context.Context) ([]Projection, error)
	GetStatusLog(ctx context.Context, groupID uint) ([]models.GroupStatusLog, error)
}

// ProfileDirectory supplies the joining user's profile for the shipping
// completeness check.
type ProfileDirectory interface {
	GetByID(id uint) (*models.User, error)
}

// ProductCatalog supplies physicality, credentials and vendor naming for
// settlement and address collection decisions.
type ProductCatalog interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
	IsPhysical(p *models.Product) bool
	VendorName(ctx context.Context, p *models.Product) string
}

// GroupCache invalidates cached group projections on mutation.
type GroupCache interface {
	InvalidateGroup(ctx context.Context, groupID uint) error
}
