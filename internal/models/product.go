package models

import (
	"gorm.io/gorm"
)

// Product statuses
const (
	ProductStatusDraft    = "draft"
	ProductStatusLive     = "live"
	ProductStatusSold     = "sold"
	ProductStatusInReview = "in_review"
	ProductStatusRejected = "rejected"
	ProductStatusAudit    = "audit"
)

// SubcategorySoftwareSubscription marks digital subscription products whose
// settlement releases stored access credentials instead of shipping goods.
const SubcategorySoftwareSubscription = "software-subscription"

type Product struct {
	gorm.Model
	Title       string  `gorm:"not null"`
	Description string  `gorm:"default:''"`
	ImageURL    string  `gorm:"default:''"`
	ActualCost  float64 `gorm:"not null"`
	// Price is the per-member share, derived as ActualCost / MaxParticipants
	// at creation time.
	Price                       float64 `gorm:"not null"`
	Category                    string  `gorm:"not null;index"`
	Subcategory                 string  `gorm:"default:''"`
	VendorID                    uint    `gorm:"not null;index"` // platform lister
	SelectedUserManagedVendorID *uint   // supply source
	MaxParticipants             int     `gorm:"not null"`
	Status                      string  `gorm:"default:'draft'"`
	// IsPhysical overrides the category-derived default when set.
	IsPhysical *bool

	// Access credentials for subscription products, fanned out to members
	// once a group settles.
	AccessUsername string `gorm:"default:''" json:"-"`
	AccessPassword string `gorm:"default:''" json:"-"`
	TwoFactorKey   string `gorm:"default:''" json:"-"`
}

// IsSubscription reports whether settling a group for this product releases
// credentials rather than triggering fulfilment.
func (p *Product) IsSubscription() bool {
	return p.Subcategory == SubcategorySoftwareSubscription
}
