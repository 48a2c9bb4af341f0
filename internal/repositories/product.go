package repositories

import (
	"errors"
	"fmt"

	"splitbuy/internal/models"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	Patch(id uint, fields map[string]interface{}) error
	ListByVendor(vendorID uint) ([]models.Product, error)
	ListLive(limit, offset int) ([]models.Product, error)
	CountBySupplyVendor(userVendorID uint) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// Patch applies simple field updates. Product lifecycle fields are not
// transitioned here; core fields are immutable after creation.
func (r *productRepository) Patch(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to patch product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) ListByVendor(vendorID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepository) ListLive(limit, offset int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("status = ?", models.ProductStatusLive).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountBySupplyVendor(userVendorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("selected_user_managed_vendor_id = ?", userVendorID).
		Count(&count).Error
	return count, err
}
