package group

import (
	"context"
	"testing"
	"time"

	domainerrors "splitbuy/internal/errors"
	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/services/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) Create(group *models.Group) error {
	return m.Called(group).Error(0)
}

func (m *MockGroupRepo) GetByID(id uint) (*models.Group, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockGroupRepo) GetByProduct(productID uint) ([]models.Group, error) {
	args := m.Called(productID)
	return args.Get(0).([]models.Group), args.Error(1)
}

func (m *MockGroupRepo) GetByUser(userID uint) ([]models.Group, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Group), args.Error(1)
}

func (m *MockGroupRepo) GetAwaitingVotes() ([]models.Group, error) {
	args := m.Called()
	return args.Get(0).([]models.Group), args.Error(1)
}

func (m *MockGroupRepo) GetMember(groupID, userID uint) (*models.GroupMember, error) {
	args := m.Called(groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupMember), args.Error(1)
}

func (m *MockGroupRepo) CreateMember(member *models.GroupMember) error {
	return m.Called(member).Error(0)
}

func (m *MockGroupRepo) DeleteMember(groupID, userID uint) (int64, error) {
	args := m.Called(groupID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGroupRepo) ListMembers(groupID uint) ([]models.GroupMember, error) {
	args := m.Called(groupID)
	return args.Get(0).([]models.GroupMember), args.Error(1)
}

func (m *MockGroupRepo) UpdateMemberVote(groupID, userID uint, voteStatus string) (int64, error) {
	args := m.Called(groupID, userID, voteStatus)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGroupRepo) IncrementMemberCount(groupID uint) (*models.Group, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockGroupRepo) DecrementMemberCount(groupID uint) error {
	return m.Called(groupID).Error(0)
}

func (m *MockGroupRepo) TransitionStatus(groupID uint, from, to, reason string) (bool, error) {
	args := m.Called(groupID, from, to, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepo) MarkCredentialsReleased(groupID uint) (bool, error) {
	args := m.Called(groupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepo) ListStatusLog(groupID uint) ([]models.GroupStatusLog, error) {
	args := m.Called(groupID)
	return args.Get(0).([]models.GroupStatusLog), args.Error(1)
}

type MockProfiles struct {
	mock.Mock
}

func (m *MockProfiles) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Get(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalog) IsPhysical(p *models.Product) bool {
	return m.Called(p).Bool(0)
}

func (m *MockCatalog) VendorName(ctx context.Context, p *models.Product) string {
	return m.Called(p).String(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event notification.Event) {
	m.Called(event)
}

func completeProfile() *models.User {
	return &models.User{
		Model:           gorm.Model{ID: 2},
		FirstName:       "Ada",
		LastName:        "Obi",
		ShippingAddress: "12 Marina Rd",
		PhoneNumber:     "08012345678",
	}
}

func openGroup(id uint, members, target int) *models.Group {
	return &models.Group{
		Model:                     gorm.Model{ID: id},
		ProductID:                 7,
		Status:                    models.GroupStatusOpen,
		MemberCount:               members,
		TargetCount:               target,
		GroupType:                 models.GroupTypeUntimed,
		UnanimousApprovalRequired: true,
	}
}

func newTestService(repo *MockGroupRepo, profiles *MockProfiles, catalog *MockCatalog, events *MockPublisher) Service {
	return NewService(repo, profiles, catalog, events, nil)
}

func TestJoinGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate membership", func(t *testing.T) {
		repo := new(MockGroupRepo)
		profiles := new(MockProfiles)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		repo.On("GetByID", uint(1)).Return(openGroup(1, 1, 3), nil)
		repo.On("GetMember", uint(1), uint(2)).Return(&models.GroupMember{GroupID: 1, UserID: 2}, nil)

		s := newTestService(repo, profiles, catalog, events)
		_, err := s.JoinGroup(ctx, 1, 2)
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyMember)
		repo.AssertNotCalled(t, "CreateMember", mock.Anything)
	})

	t.Run("rejects incomplete shipping profile", func(t *testing.T) {
		repo := new(MockGroupRepo)
		profiles := new(MockProfiles)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		repo.On("GetByID", uint(1)).Return(openGroup(1, 1, 3), nil)
		repo.On("GetMember", uint(1), uint(2)).Return(nil, repositories.ErrMemberNotFound)
		profiles.On("GetByID", uint(2)).Return(&models.User{FirstName: "Ada"}, nil)

		s := newTestService(repo, profiles, catalog, events)
		_, err := s.JoinGroup(ctx, 1, 2)
		assert.ErrorIs(t, err, domainerrors.ErrMissingShippingInfo)
		assert.Equal(t, "Missing shipping information", err.Error())
		repo.AssertNotCalled(t, "CreateMember", mock.Anything)
	})

	t.Run("rejects expired timed group", func(t *testing.T) {
		repo := new(MockGroupRepo)
		profiles := new(MockProfiles)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		past := time.Now().Add(-time.Hour)
		grp := openGroup(1, 1, 3)
		grp.GroupType = models.GroupTypeTimed
		grp.ExpiresAt = &past
		repo.On("GetByID", uint(1)).Return(grp, nil)

		s := newTestService(repo, profiles, catalog, events)
		_, err := s.JoinGroup(ctx, 1, 2)
		assert.ErrorIs(t, err, domainerrors.ErrGroupExpired)
	})

	t.Run("rejects group not open", func(t *testing.T) {
		repo := new(MockGroupRepo)
		profiles := new(MockProfiles)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		grp := openGroup(1, 3, 3)
		grp.Status = models.GroupStatusWaitingVotes
		repo.On("GetByID", uint(1)).Return(grp, nil)

		s := newTestService(repo, profiles, catalog, events)
		_, err := s.JoinGroup(ctx, 1, 2)
		assert.ErrorIs(t, err, domainerrors.ErrGroupNotOpen)
	})

	t.Run("rolls back membership when capacity is reached", func(t *testing.T) {
		repo := new(MockGroupRepo)
		profiles := new(MockProfiles)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		repo.On("GetByID", uint(1)).Return(openGroup(1, 2, 3), nil)
		repo.On("GetMember", uint(1), uint(2)).Return(nil, repositories.ErrMemberNotFound)
		profiles.On("GetByID", uint(2)).Return(completeProfile(), nil)
		repo.On("CreateMember", mock.Anything).Return(nil)
		repo.On("IncrementMemberCount", uint(1)).Return(nil, repositories.ErrCapacityReached)
		repo.On("DeleteMember", uint(1), uint(2)).Return(int64(1), nil)

		s := newTestService(repo, profiles, catalog, events)
		_, err := s.JoinGroup(ctx, 1, 2)
		assert.ErrorIs(t, err, domainerrors.ErrGroupFull)
		repo.AssertCalled(t, "DeleteMember", uint(1), uint(2))
	})

	t.Run("fill transitions the group and notifies members", func(t *testing.T) {
		repo := new(MockGroupRepo)
		profiles := new(MockProfiles)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		repo.On("GetByID", uint(1)).Return(openGroup(1, 2, 3), nil)
		repo.On("GetMember", uint(1), uint(2)).Return(nil, repositories.ErrMemberNotFound)
		profiles.On("GetByID", uint(2)).Return(completeProfile(), nil)
		repo.On("CreateMember", mock.Anything).Return(nil)
		repo.On("IncrementMemberCount", uint(1)).Return(openGroup(1, 3, 3), nil)
		repo.On("TransitionStatus", uint(1), models.GroupStatusOpen, models.GroupStatusWaitingVotes, mock.Anything).
			Return(true, nil)
		repo.On("ListMembers", uint(1)).Return([]models.GroupMember{
			{GroupID: 1, UserID: 5}, {GroupID: 1, UserID: 6}, {GroupID: 1, UserID: 2},
		}, nil)
		catalog.On("Get", uint(7)).Return(&models.Product{Title: "Blender", Category: "electronics"}, nil)
		catalog.On("IsPhysical", mock.Anything).Return(true)
		events.On("Publish", mock.Anything).Return()

		s := newTestService(repo, profiles, catalog, events)
		result, err := s.JoinGroup(ctx, 1, 2)
		assert.NoError(t, err)
		assert.True(t, result.GroupFilled)
		assert.True(t, result.RequiresAddressCollection)

		// One address request plus three group-filled notifications.
		events.AssertNumberOfCalls(t, "Publish", 4)
	})

	t.Run("digital product skips address collection", func(t *testing.T) {
		repo := new(MockGroupRepo)
		profiles := new(MockProfiles)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		repo.On("GetByID", uint(1)).Return(openGroup(1, 0, 3), nil)
		repo.On("GetMember", uint(1), uint(2)).Return(nil, repositories.ErrMemberNotFound)
		profiles.On("GetByID", uint(2)).Return(completeProfile(), nil)
		repo.On("CreateMember", mock.Anything).Return(nil)
		repo.On("IncrementMemberCount", uint(1)).Return(openGroup(1, 1, 3), nil)
		catalog.On("Get", uint(7)).Return(&models.Product{
			Title:       "Streaming plan",
			Subcategory: models.SubcategorySoftwareSubscription,
		}, nil)
		catalog.On("IsPhysical", mock.Anything).Return(false)

		s := newTestService(repo, profiles, catalog, events)
		result, err := s.JoinGroup(ctx, 1, 2)
		assert.NoError(t, err)
		assert.False(t, result.RequiresAddressCollection)
		assert.False(t, result.GroupFilled)
		events.AssertNotCalled(t, "Publish", mock.Anything)
	})
}

func TestLeaveGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("not a member", func(t *testing.T) {
		repo := new(MockGroupRepo)
		repo.On("GetByID", uint(1)).Return(openGroup(1, 2, 3), nil)
		repo.On("DeleteMember", uint(1), uint(2)).Return(int64(0), nil)

		s := newTestService(repo, new(MockProfiles), new(MockCatalog), new(MockPublisher))
		err := s.LeaveGroup(ctx, 1, 2)
		assert.ErrorIs(t, err, domainerrors.ErrNotAMember)
		repo.AssertNotCalled(t, "DecrementMemberCount", mock.Anything)
	})

	t.Run("successful leave decrements count", func(t *testing.T) {
		repo := new(MockGroupRepo)
		repo.On("GetByID", uint(1)).Return(openGroup(1, 2, 3), nil)
		repo.On("DeleteMember", uint(1), uint(2)).Return(int64(1), nil)
		repo.On("DecrementMemberCount", uint(1)).Return(nil)

		s := newTestService(repo, new(MockProfiles), new(MockCatalog), new(MockPublisher))
		err := s.LeaveGroup(ctx, 1, 2)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("roster is fixed once voting starts", func(t *testing.T) {
		repo := new(MockGroupRepo)
		grp := openGroup(1, 3, 3)
		grp.Status = models.GroupStatusWaitingVotes
		repo.On("GetByID", uint(1)).Return(grp, nil)

		s := newTestService(repo, new(MockProfiles), new(MockCatalog), new(MockPublisher))
		err := s.LeaveGroup(ctx, 1, 2)
		assert.ErrorIs(t, err, domainerrors.ErrGroupNotOpen)
		repo.AssertNotCalled(t, "DeleteMember", mock.Anything, mock.Anything)
	})
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()

	waitingGroup := func() *models.Group {
		grp := openGroup(1, 3, 3)
		grp.Status = models.GroupStatusWaitingVotes
		return grp
	}

	t.Run("rejects invalid vote value", func(t *testing.T) {
		s := newTestService(new(MockGroupRepo), new(MockProfiles), new(MockCatalog), new(MockPublisher))
		_, err := s.CastVote(ctx, 1, 2, "maybe")
		assert.ErrorIs(t, err, ErrInvalidVote)
	})

	t.Run("rejects vote outside voting phase", func(t *testing.T) {
		repo := new(MockGroupRepo)
		repo.On("GetByID", uint(1)).Return(openGroup(1, 1, 3), nil)

		s := newTestService(repo, new(MockProfiles), new(MockCatalog), new(MockPublisher))
		_, err := s.CastVote(ctx, 1, 2, models.VoteStatusApproved)
		assert.ErrorIs(t, err, domainerrors.ErrVotingClosed)
	})

	t.Run("rejects vote from non-member", func(t *testing.T) {
		repo := new(MockGroupRepo)
		repo.On("GetByID", uint(1)).Return(waitingGroup(), nil)
		repo.On("UpdateMemberVote", uint(1), uint(2), models.VoteStatusApproved).Return(int64(0), nil)

		s := newTestService(repo, new(MockProfiles), new(MockCatalog), new(MockPublisher))
		_, err := s.CastVote(ctx, 1, 2, models.VoteStatusApproved)
		assert.ErrorIs(t, err, domainerrors.ErrNotAMember)
	})

	t.Run("rejection never settles", func(t *testing.T) {
		repo := new(MockGroupRepo)
		repo.On("GetByID", uint(1)).Return(waitingGroup(), nil)
		repo.On("UpdateMemberVote", uint(1), uint(2), models.VoteStatusRejected).Return(int64(1), nil)
		repo.On("ListMembers", uint(1)).Return([]models.GroupMember{
			{UserID: 2, VoteStatus: models.VoteStatusRejected},
			{UserID: 5, VoteStatus: models.VoteStatusApproved},
			{UserID: 6, VoteStatus: models.VoteStatusApproved},
		}, nil)

		s := newTestService(repo, new(MockProfiles), new(MockCatalog), new(MockPublisher))
		result, err := s.CastVote(ctx, 1, 2, models.VoteStatusRejected)
		assert.NoError(t, err)
		assert.False(t, result.Settled)
		assert.Equal(t, 2, result.ApprovedCount)
		assert.Equal(t, 1, result.RejectedCount)
		repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("partial approval does not settle", func(t *testing.T) {
		repo := new(MockGroupRepo)
		repo.On("GetByID", uint(1)).Return(waitingGroup(), nil)
		repo.On("UpdateMemberVote", uint(1), uint(2), models.VoteStatusApproved).Return(int64(1), nil)
		repo.On("ListMembers", uint(1)).Return([]models.GroupMember{
			{UserID: 2, VoteStatus: models.VoteStatusApproved},
			{UserID: 5, VoteStatus: models.VoteStatusApproved},
			{UserID: 6, VoteStatus: models.VoteStatusPending},
		}, nil)

		s := newTestService(repo, new(MockProfiles), new(MockCatalog), new(MockPublisher))
		result, err := s.CastVote(ctx, 1, 2, models.VoteStatusApproved)
		assert.NoError(t, err)
		assert.False(t, result.Settled)
		repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unanimous approval settles and releases credentials once", func(t *testing.T) {
		repo := new(MockGroupRepo)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		members := []models.GroupMember{
			{UserID: 2, VoteStatus: models.VoteStatusApproved},
			{UserID: 5, VoteStatus: models.VoteStatusApproved},
			{UserID: 6, VoteStatus: models.VoteStatusApproved},
		}
		repo.On("GetByID", uint(1)).Return(waitingGroup(), nil)
		repo.On("UpdateMemberVote", uint(1), uint(2), models.VoteStatusApproved).Return(int64(1), nil)
		repo.On("ListMembers", uint(1)).Return(members, nil)
		repo.On("TransitionStatus", uint(1), models.GroupStatusWaitingVotes, models.GroupStatusCompleted, mock.Anything).
			Return(true, nil)
		repo.On("MarkCredentialsReleased", uint(1)).Return(true, nil)
		catalog.On("Get", uint(7)).Return(&models.Product{
			Title:          "Streaming plan",
			Subcategory:    models.SubcategorySoftwareSubscription,
			AccessUsername: "team@vendor.test",
			AccessPassword: "secret",
		}, nil)
		catalog.On("VendorName", mock.Anything).Return("StreamCo")
		events.On("Publish", mock.Anything).Return()

		s := newTestService(repo, new(MockProfiles), catalog, events)
		result, err := s.CastVote(ctx, 1, 2, models.VoteStatusApproved)
		assert.NoError(t, err)
		assert.True(t, result.Settled)
		events.AssertNumberOfCalls(t, "Publish", len(members))
	})

	t.Run("already settled group settles nothing twice", func(t *testing.T) {
		repo := new(MockGroupRepo)
		catalog := new(MockCatalog)
		events := new(MockPublisher)

		repo.On("GetByID", uint(1)).Return(waitingGroup(), nil)
		repo.On("UpdateMemberVote", uint(1), uint(2), models.VoteStatusApproved).Return(int64(1), nil)
		repo.On("ListMembers", uint(1)).Return([]models.GroupMember{
			{UserID: 2, VoteStatus: models.VoteStatusApproved},
		}, nil)
		repo.On("TransitionStatus", uint(1), models.GroupStatusWaitingVotes, models.GroupStatusCompleted, mock.Anything).
			Return(false, nil)

		s := newTestService(repo, new(MockProfiles), catalog, events)
		result, err := s.CastVote(ctx, 1, 2, models.VoteStatusApproved)
		assert.NoError(t, err)
		assert.False(t, result.Settled)
		repo.AssertNotCalled(t, "MarkCredentialsReleased", mock.Anything)
		events.AssertNotCalled(t, "Publish", mock.Anything)
	})
}

func TestVotesRequired(t *testing.T) {
	unanimous := &models.Group{MemberCount: 5, UnanimousApprovalRequired: true}
	assert.Equal(t, 5, unanimous.VotesRequired())

	majority := &models.Group{MemberCount: 5, UnanimousApprovalRequired: false}
	assert.Equal(t, 3, majority.VotesRequired())

	evenMajority := &models.Group{MemberCount: 4, UnanimousApprovalRequired: false}
	assert.Equal(t, 2, evenMajority.VotesRequired())
}
