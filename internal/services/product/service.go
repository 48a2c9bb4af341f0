// Package product implements the product catalog: creation with derived
// per-member pricing, field patches, and the physicality rules that decide
// whether a group purchase needs shipping addresses.
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
)

var (
	ErrInvalidProduct = errors.New("invalid product data")
	ErrNotOwner       = errors.New("product belongs to another vendor")
)

// physicalCategories are the categories whose products ship by default.
// An explicit IsPhysical override on the product always wins.
var physicalCategories = map[string]bool{
	"electronics": true,
	"fashion":     true,
	"home":        true,
	"groceries":   true,
	"books":       true,
	"beauty":      true,
}

// CreateProductRequest carries everything needed to list a product and open
// its initial group.
type CreateProductRequest struct {
	Title                       string     `json:"title" validate:"required"`
	Description                 string     `json:"description"`
	ImageURL                    string     `json:"image_url"`
	ActualCost                  float64    `json:"actual_cost" validate:"required,gt=0"`
	Category                    string     `json:"category" validate:"required"`
	Subcategory                 string     `json:"subcategory"`
	MaxParticipants             int        `json:"max_participants" validate:"required,gt=0"`
	SelectedUserManagedVendorID *uint      `json:"selected_user_managed_vendor_id"`
	IsPhysical                  *bool      `json:"is_physical"`
	GroupType                   string     `json:"group_type"`
	ExpiresAt                   *time.Time `json:"expires_at"`
	AccessUsername              string     `json:"access_username"`
	AccessPassword              string     `json:"access_password"`
	TwoFactorKey                string     `json:"two_factor_key"`
}

// GroupOpener abstracts the group lifecycle engine so product creation can
// open the initial group without importing it directly.
type GroupOpener interface {
	OpenInitialGroup(ctx context.Context, product *models.Product, groupType string, expiresAt *time.Time) (*models.Group, error)
}

// Service is the product catalog interface.
type Service interface {
	Create(ctx context.Context, vendorID uint, req CreateProductRequest) (*models.Product, *models.Group, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Patch(ctx context.Context, id, vendorID uint, fields map[string]interface{}) error
	ListLive(ctx context.Context, limit, offset int) ([]models.Product, error)
	IsPhysical(p *models.Product) bool
	VendorName(ctx context.Context, p *models.Product) string
}

type service struct {
	repo    repositories.ProductRepository
	vendors repositories.VendorRepository
	groups  GroupOpener
}

func NewService(repo repositories.ProductRepository, vendors repositories.VendorRepository, groups GroupOpener) Service {
	if repo == nil {
		panic("product repo is required")
	}
	return &service{repo: repo, vendors: vendors, groups: groups}
}

// Create lists a product and opens its initial group in one operation. The
// per-member price is derived from the actual cost and group size.
func (s *service) Create(ctx context.Context, vendorID uint, req CreateProductRequest) (*models.Product, *models.Group, error) {
	if req.MaxParticipants <= 0 || req.ActualCost <= 0 {
		return nil, nil, ErrInvalidProduct
	}

	product := &models.Product{
		Title:                       req.Title,
		Description:                 req.Description,
		ImageURL:                    req.ImageURL,
		ActualCost:                  req.ActualCost,
		Price:                       req.ActualCost / float64(req.MaxParticipants),
		Category:                    req.Category,
		Subcategory:                 req.Subcategory,
		VendorID:                    vendorID,
		SelectedUserManagedVendorID: req.SelectedUserManagedVendorID,
		MaxParticipants:             req.MaxParticipants,
		Status:                      models.ProductStatusLive,
		IsPhysical:                  req.IsPhysical,
		AccessUsername:              req.AccessUsername,
		AccessPassword:              req.AccessPassword,
		TwoFactorKey:                req.TwoFactorKey,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, nil, err
	}

	group, err := s.groups.OpenInitialGroup(ctx, product, req.GroupType, req.ExpiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("product created but initial group failed: %w", err)
	}
	return product, group, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

func (s *service) Patch(ctx context.Context, id, vendorID uint, fields map[string]interface{}) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product.VendorID != vendorID {
		return ErrNotOwner
	}
	return s.repo.Patch(id, fields)
}

func (s *service) ListLive(ctx context.Context, limit, offset int) ([]models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListLive(limit, offset)
}

// IsPhysical applies the explicit override when present, otherwise the
// category rules. Subscription products are never physical.
func (s *service) IsPhysical(p *models.Product) bool {
	if p == nil {
		return false
	}
	if p.IsPhysical != nil {
		return *p.IsPhysical
	}
	if p.IsSubscription() {
		return false
	}
	return physicalCategories[p.Category]
}

// VendorName resolves the supply vendor's display name, falling back to the
// marketplace name when no user-managed vendor is linked.
func (s *service) VendorName(ctx context.Context, p *models.Product) string {
	if p == nil || p.SelectedUserManagedVendorID == nil || s.vendors == nil {
		return "the marketplace"
	}
	vendor, err := s.vendors.GetByID(*p.SelectedUserManagedVendorID, p.VendorID)
	if err != nil {
		return "the marketplace"
	}
	return vendor.Name
}
