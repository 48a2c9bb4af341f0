package repositories

import (
	"errors"
	"fmt"
	"time"

	"splitbuy/internal/models"

	"gorm.io/gorm"
)

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrMemberNotFound     = errors.New("group member not found")
	ErrDuplicateMember    = errors.New("member already exists")
	ErrCapacityReached    = errors.New("group capacity reached")
	ErrStaleTransition    = errors.New("group status transition no longer applies")
	ErrAlreadySettled     = errors.New("group settlement already recorded")
	ErrInvalidGroupDelete = errors.New("group member delete affected no rows")
)

// GroupRepository defines group and membership persistence operations.
// Increment, decrement, transition and settlement-marking are single
// round-trip conditional updates so concurrent requests cannot lose writes.
type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id uint) (*models.Group, error)
	GetByProduct(productID uint) ([]models.Group, error)
	GetByUser(userID uint) ([]models.Group, error)
	GetAwaitingVotes() ([]models.Group, error)

	GetMember(groupID, userID uint) (*models.GroupMember, error)
	CreateMember(member *models.GroupMember) error
	DeleteMember(groupID, userID uint) (int64, error)
	ListMembers(groupID uint) ([]models.GroupMember, error)
	UpdateMemberVote(groupID, userID uint, voteStatus string) (int64, error)

	IncrementMemberCount(groupID uint) (*models.Group, error)
	DecrementMemberCount(groupID uint) error
	TransitionStatus(groupID uint, from, to, reason string) (bool, error)
	MarkCredentialsReleased(groupID uint) (bool, error)
	ListStatusLog(groupID uint) ([]models.GroupStatusLog, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(group *models.Group) error {
	if err := r.db.Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *groupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Preload("Product").First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

func (r *groupRepository) GetByProduct(productID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Preload("Product").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) GetByUser(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Preload("Product").
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ? AND group_members.deleted_at IS NULL", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) GetAwaitingVotes() ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Preload("Product").
		Where("status = ?", models.GroupStatusWaitingVotes).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) GetMember(groupID, userID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get group member: %w", err)
	}
	return &member, nil
}

func (r *groupRepository) CreateMember(member *models.GroupMember) error {
	if err := r.db.Create(member).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMember
		}
		return fmt.Errorf("failed to create group member: %w", err)
	}
	return nil
}

// DeleteMember removes the membership row outright. A soft delete would keep
// the (group_id, user_id) unique index occupied and block a later rejoin.
func (r *groupRepository) DeleteMember(groupID, userID uint) (int64, error) {
	result := r.db.Unscoped().
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete group member: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *groupRepository) ListMembers(groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.Where("group_id = ?", groupID).Order("joined_at ASC").Find(&members).Error
	return members, err
}

func (r *groupRepository) UpdateMemberVote(groupID, userID uint, voteStatus string) (int64, error) {
	result := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("vote_status", voteStatus)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update vote: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// IncrementMemberCount bumps member_count in a single guarded UPDATE so
// concurrent joiners can never push the count past target_count. Zero rows
// affected means the group is full or no longer open.
func (r *groupRepository) IncrementMemberCount(groupID uint) (*models.Group, error) {
	result := r.db.Model(&models.Group{}).
		Where("id = ? AND status = ? AND member_count < target_count", groupID, models.GroupStatusOpen).
		UpdateColumn("member_count", gorm.Expr("member_count + 1"))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to increment member count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCapacityReached
	}
	return r.GetByID(groupID)
}

func (r *groupRepository) DecrementMemberCount(groupID uint) error {
	result := r.db.Model(&models.Group{}).
		Where("id = ? AND member_count > 0", groupID).
		UpdateColumn("member_count", gorm.Expr("member_count - 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement member count: %w", result.Error)
	}
	return nil
}

// TransitionStatus moves a group from one status to another and appends a
// status log entry, all inside one transaction. The WHERE guard on the
// prior status keeps transitions monotonic: a stale caller affects zero
// rows and gets (false, nil).
func (r *groupRepository) TransitionStatus(groupID uint, from, to, reason string) (bool, error) {
	var transitioned bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Group{}).
			Where("id = ? AND status = ?", groupID, from).
			Update("status", to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		transitioned = true
		return tx.Create(&models.GroupStatusLog{
			GroupID:    groupID,
			FromStatus: from,
			ToStatus:   to,
			Reason:     reason,
		}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to transition group status: %w", err)
	}
	return transitioned, nil
}

// MarkCredentialsReleased records the settlement side effect exactly once.
func (r *groupRepository) MarkCredentialsReleased(groupID uint) (bool, error) {
	now := time.Now()
	result := r.db.Model(&models.Group{}).
		Where("id = ? AND credentials_released_at IS NULL", groupID).
		Update("credentials_released_at", &now)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark credentials released: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *groupRepository) ListStatusLog(groupID uint) ([]models.GroupStatusLog, error) {
	var entries []models.GroupStatusLog
	err := r.db.Where("group_id = ?", groupID).Order("created_at ASC").Find(&entries).Error
	return entries, err
}
