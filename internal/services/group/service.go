package group

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domainerrors "splitbuy/internal/errors"
	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/services/notification"
)

type service struct {
	repo     repositories.GroupRepository
	profiles ProfileDirectory
	catalog  ProductCatalog
	events   notification.Publisher
	cache    GroupCache
}

// NewService creates the group lifecycle engine.
func NewService(
	repo repositories.GroupRepository,
	profiles ProfileDirectory,
	catalog ProductCatalog,
	events notification.Publisher,
	cache GroupCache,
) Service {
	if repo == nil {
		panic("group repo is required")
	}
	if profiles == nil {
		panic("profile directory is required")
	}
	if catalog == nil {
		panic("product catalog is required")
	}
	if events == nil {
		panic("event publisher is required")
	}

	return &service{
		repo:     repo,
		profiles: profiles,
		catalog:  catalog,
		events:   events,
		cache:    cache,
	}
}

func (s *service) CreateGroup(ctx context.Context, req CreateGroupRequest) (*models.Group, error) {
	if req.ProductID == 0 || req.TargetCount <= 0 {
		return nil, ErrInvalidGroupRequest
	}

	groupType := req.GroupType
	if groupType == "" {
		groupType = models.GroupTypeUntimed
	}

	group := &models.Group{
		ProductID:                 req.ProductID,
		Status:                    models.GroupStatusOpen,
		MemberCount:               0,
		TargetCount:               req.TargetCount,
		GroupType:                 groupType,
		ExpiresAt:                 req.ExpiresAt,
		VoteDeadline:              req.VoteDeadline,
		UnanimousApprovalRequired: req.UnanimousApprovalRequired,
		EscrowAmount:              req.EscrowAmount,
	}
	if err := s.repo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

// OpenInitialGroup opens the group created alongside every product listing.
func (s *service) OpenInitialGroup(ctx context.Context, product *models.Product, groupType string, expiresAt *time.Time) (*models.Group, error) {
	if groupType == "" {
		groupType = models.GroupTypeUntimed
		if expiresAt != nil {
			groupType = models.GroupTypeTimed
		}
	}
	return s.CreateGroup(ctx, CreateGroupRequest{
		ProductID:                 product.ID,
		EscrowAmount:              product.Price,
		TargetCount:               product.MaxParticipants,
		GroupType:                 groupType,
		ExpiresAt:                 expiresAt,
		UnanimousApprovalRequired: true,
	})
}

// JoinGroup admits a user into a group. Membership creation is the operation
// of record; the address-required notification is best-effort.
func (s *service) JoinGroup(ctx context.Context, groupID, userID uint) (*JoinResult, error) {
	grp, err := s.repo.GetByID(groupID)
	if err != nil {
		return nil, err
	}

	if grp.Expired(time.Now()) {
		return nil, domainerrors.ErrGroupExpired
	}
	if grp.Status != models.GroupStatusOpen {
		return nil, domainerrors.ErrGroupNotOpen
	}

	if _, err := s.repo.GetMember(groupID, userID); err == nil {
		return nil, domainerrors.ErrAlreadyMember
	} else if !errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, err
	}

	// The shipping check runs for every product, physical or not. Profiles
	// missing shipping details cannot join any group.
	profile, err := s.profiles.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !profile.HasCompleteShippingInfo() {
		return nil, domainerrors.ErrMissingShippingInfo
	}

	member := &models.GroupMember{
		GroupID:    groupID,
		UserID:     userID,
		VoteStatus: models.VoteStatusPending,
		IsAdmin:    false,
	}
	if err := s.repo.CreateMember(member); err != nil {
		if errors.Is(err, repositories.ErrDuplicateMember) {
			return nil, domainerrors.ErrAlreadyMember
		}
		return nil, err
	}

	updated, err := s.repo.IncrementMemberCount(groupID)
	if err != nil {
		// Roll the membership back; the guarded increment refused it.
		if _, delErr := s.repo.DeleteMember(groupID, userID); delErr != nil {
			log.Printf("failed to roll back membership for user %d in group %d: %v", userID, groupID, delErr)
		}
		if errors.Is(err, repositories.ErrCapacityReached) {
			return nil, domainerrors.ErrGroupFull
		}
		return nil, err
	}

	filled := false
	if updated.MemberCount >= updated.TargetCount {
		filled, err = s.repo.TransitionStatus(groupID,
			models.GroupStatusOpen, models.GroupStatusWaitingVotes, "target capacity reached")
		if err != nil {
			log.Printf("failed to transition group %d to waiting_votes: %v", groupID, err)
		}
	}

	product, err := s.catalog.Get(ctx, grp.ProductID)
	if err != nil {
		return nil, fmt.Errorf("membership created but product lookup failed: %w", err)
	}

	physical := s.catalog.IsPhysical(product)
	if physical {
		s.events.Publish(ctx, notification.AddressRequired(userID, groupID, member.ID, product.Title))
	}
	if filled {
		s.notifyGroupFilled(ctx, groupID, product.Title)
	}

	s.invalidate(ctx, groupID)

	return &JoinResult{
		Member:                    member,
		ProductID:                 grp.ProductID,
		RequiresAddressCollection: physical,
		GroupFilled:               filled,
	}, nil
}

// LeaveGroup removes a membership while the group is still filling. Once
// voting starts the roster is fixed, otherwise the member count could drop
// below the target the vote was called on.
func (s *service) LeaveGroup(ctx context.Context, groupID, userID uint) error {
	grp, err := s.repo.GetByID(groupID)
	if err != nil {
		return err
	}
	if grp.Status != models.GroupStatusOpen {
		return domainerrors.ErrGroupNotOpen
	}

	affected, err := s.repo.DeleteMember(groupID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainerrors.ErrNotAMember
	}
	if err := s.repo.DecrementMemberCount(groupID); err != nil {
		return err
	}
	s.invalidate(ctx, groupID)
	return nil
}

// CastVote records a member's vote. When an approval completes unanimity the
// group settles: the status flips to completed exactly once, and for
// subscription products the stored credentials fan out to every member.
// Settlement failures are logged, never surfaced; the vote is already
// durably recorded.
func (s *service) CastVote(ctx context.Context, groupID, userID uint, vote string) (*VoteResult, error) {
	if vote != models.VoteStatusApproved && vote != models.VoteStatusRejected {
		return nil, ErrInvalidVote
	}

	grp, err := s.repo.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if grp.Status != models.GroupStatusWaitingVotes {
		return nil, domainerrors.ErrVotingClosed
	}

	affected, err := s.repo.UpdateMemberVote(groupID, userID, vote)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domainerrors.ErrNotAMember
	}

	members, err := s.repo.ListMembers(groupID)
	if err != nil {
		return nil, err
	}

	approved, rejected := tally(members)
	result := &VoteResult{
		Vote:          vote,
		ApprovedCount: approved,
		RejectedCount: rejected,
		MemberCount:   len(members),
		VotesRequired: grp.VotesRequired(),
	}

	// Majority approval is a display hint only; settlement requires the
	// unanimous fast path.
	if vote == models.VoteStatusApproved && approved == len(members) && len(members) > 0 {
		result.Settled = s.settle(ctx, grp, members)
	}

	s.invalidate(ctx, groupID)
	return result, nil
}

// settle flips the group to completed and releases credentials once. The
// guarded transition makes re-evaluation of an already-settled group a no-op.
func (s *service) settle(ctx context.Context, grp *models.Group, members []models.GroupMember) bool {
	transitioned, err := s.repo.TransitionStatus(grp.ID,
		models.GroupStatusWaitingVotes, models.GroupStatusCompleted, "all members approved")
	if err != nil {
		log.Printf("settlement transition failed for group %d: %v", grp.ID, err)
		return false
	}
	if !transitioned {
		return false
	}

	product, err := s.catalog.Get(ctx, grp.ProductID)
	if err != nil {
		log.Printf("settlement product lookup failed for group %d: %v", grp.ID, err)
		return true
	}

	if !product.IsSubscription() {
		return true
	}

	released, err := s.repo.MarkCredentialsReleased(grp.ID)
	if err != nil {
		log.Printf("failed to mark credentials released for group %d: %v", grp.ID, err)
		return true
	}
	if !released {
		return true
	}

	vendorName := s.catalog.VendorName(ctx, product)
	for _, m := range members {
		s.events.Publish(ctx, notification.CredentialsReleased(
			m.UserID, vendorName,
			product.AccessUsername, product.AccessPassword, product.TwoFactorKey,
		))
	}
	return true
}

func (s *service) GetGroup(ctx context.Context, groupID uint) (*Projection, error) {
	grp, err := s.repo.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(groupID)
	if err != nil {
		return nil, err
	}
	p := project(grp)
	p.ApprovedCount, p.RejectedCount = tally(members)
	return &p, nil
}

func (s *service) GetGroupsByProduct(ctx context.Context, productID uint) ([]Projection, error) {
	groups, err := s.repo.GetByProduct(productID)
	if err != nil {
		return nil, err
	}
	return projectAll(groups), nil
}

func (s *service) GetGroupsByUser(ctx context.Context, userID uint) ([]Projection, error) {
	groups, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return projectAll(groups), nil
}

func (s *service) GetGroupsAwaitingVotes(ctx context.Context) ([]Projection, error) {
	groups, err := s.repo.GetAwaitingVotes()
	if err != nil {
		return nil, err
	}
	return projectAll(groups), nil
}

func (s *service) GetStatusLog(ctx context.Context, groupID uint) ([]models.GroupStatusLog, error) {
	return s.repo.ListStatusLog(groupID)
}

// Helpers

func (s *service) notifyGroupFilled(ctx context.Context, groupID uint, productTitle string) {
	members, err := s.repo.ListMembers(groupID)
	if err != nil {
		log.Printf("failed to list members of filled group %d: %v", groupID, err)
		return
	}
	for _, m := range members {
		s.events.Publish(ctx, notification.GroupFilled(m.UserID, groupID, productTitle))
	}
}

func (s *service) invalidate(ctx context.Context, groupID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateGroup(ctx, groupID); err != nil {
		log.Printf("failed to invalidate group cache %d: %v", groupID, err)
	}
}

func tally(members []models.GroupMember) (approved, rejected int) {
	for _, m := range members {
		switch m.VoteStatus {
		case models.VoteStatusApproved:
			approved++
		case models.VoteStatusRejected:
			rejected++
		}
	}
	return approved, rejected
}

func project(grp *models.Group) Projection {
	p := Projection{Group: grp, VotesRequired: grp.VotesRequired()}
	if grp.Product != nil {
		p.ProductTitle = grp.Product.Title
		p.ProductPrice = grp.Product.Price
	}
	return p
}

func projectAll(groups []models.Group) []Projection {
	projections := make([]Projection, 0, len(groups))
	for i := range groups {
		projections = append(projections, project(&groups[i]))
	}
	return projections
}
