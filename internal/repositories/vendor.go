package repositories

import (
	"errors"
	"fmt"

	"splitbuy/internal/models"

	"gorm.io/gorm"
)

var ErrVendorNotFound = errors.New("vendor not found")

// VendorRepository manages user-managed vendors (supply sources).
type VendorRepository interface {
	Create(vendor *models.UserVendor) error
	GetByID(id, userID uint) (*models.UserVendor, error)
	ListByUser(userID uint) ([]models.UserVendor, error)
	Update(vendor *models.UserVendor) error
	Delete(id, userID uint) (int64, error)
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(vendor *models.UserVendor) error {
	if err := r.db.Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *vendorRepository) GetByID(id, userID uint) (*models.UserVendor, error) {
	var vendor models.UserVendor
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &vendor, nil
}

func (r *vendorRepository) ListByUser(userID uint) ([]models.UserVendor, error) {
	var vendors []models.UserVendor
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepository) Update(vendor *models.UserVendor) error {
	if vendor.ID == 0 {
		return errors.New("cannot update vendor with ID 0")
	}
	result := r.db.Model(&models.UserVendor{}).
		Where("id = ? AND user_id = ?", vendor.ID, vendor.UserID).
		Updates(vendor)
	if result.Error != nil {
		return fmt.Errorf("failed to update vendor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

func (r *vendorRepository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.UserVendor{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete vendor: %w", result.Error)
	}
	return result.RowsAffected, nil
}
