package repositories

import (
	"errors"
	"fmt"

	"splitbuy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAddressNotFound = errors.New("address not found")

// AddressRepository covers both the per-user address book and the per-member
// delivery addresses collected for physical group purchases.
type AddressRepository interface {
	ListByUser(userID uint) ([]models.UserProfileAddress, error)
	GetByID(id, userID uint) (*models.UserProfileAddress, error)
	Create(address *models.UserProfileAddress) error
	Update(address *models.UserProfileAddress) error
	Delete(id, userID uint) (int64, error)
	SetDefault(userID, addressID uint) error

	UpsertDeliveryAddress(address *models.ParticipantDeliveryAddress) error
	GetDeliveryAddress(groupMemberID uint) (*models.ParticipantDeliveryAddress, error)
	ListDeliveryAddressesForGroup(groupID uint) ([]models.ParticipantDeliveryAddress, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) ListByUser(userID uint) ([]models.UserProfileAddress, error) {
	var addresses []models.UserProfileAddress
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *addressRepository) GetByID(id, userID uint) (*models.UserProfileAddress, error) {
	var address models.UserProfileAddress
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &address, nil
}

func (r *addressRepository) Create(address *models.UserProfileAddress) error {
	if !address.IsDefault {
		if err := r.db.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	}
	// A new default unsets the prior one in the same transaction.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserProfileAddress{}).
			Where("user_id = ? AND is_default = ?", address.UserID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Create(address).Error
	})
}

func (r *addressRepository) Update(address *models.UserProfileAddress) error {
	if address.ID == 0 {
		return errors.New("cannot update address with ID 0")
	}
	result := r.db.Model(&models.UserProfileAddress{}).
		Where("id = ? AND user_id = ?", address.ID, address.UserID).
		Updates(address)
	if result.Error != nil {
		return fmt.Errorf("failed to update address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *addressRepository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.UserProfileAddress{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete address: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SetDefault atomically unsets the prior default and promotes addressID,
// preserving the at-most-one-default invariant per user.
func (r *addressRepository) SetDefault(userID, addressID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserProfileAddress{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&models.UserProfileAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAddressNotFound
		}
		return nil
	})
}

// UpsertDeliveryAddress overwrites on re-submission, keyed by the unique
// group_member_id index.
func (r *addressRepository) UpsertDeliveryAddress(address *models.ParticipantDeliveryAddress) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "group_member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "address_line1", "address_line2",
			"city", "state", "postal_code", "country", "phone_number", "updated_at",
		}),
	}).Create(address).Error
	if err != nil {
		return fmt.Errorf("failed to upsert delivery address: %w", err)
	}
	return nil
}

func (r *addressRepository) GetDeliveryAddress(groupMemberID uint) (*models.ParticipantDeliveryAddress, error) {
	var address models.ParticipantDeliveryAddress
	err := r.db.Where("group_member_id = ?", groupMemberID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get delivery address: %w", err)
	}
	return &address, nil
}

func (r *addressRepository) ListDeliveryAddressesForGroup(groupID uint) ([]models.ParticipantDeliveryAddress, error) {
	var addresses []models.ParticipantDeliveryAddress
	err := r.db.
		Joins("JOIN group_members ON group_members.id = participant_delivery_addresses.group_member_id").
		Where("group_members.group_id = ? AND group_members.deleted_at IS NULL", groupID).
		Find(&addresses).Error
	return addresses, err
}
