package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds, keyed on lifecycle events.
const (
	NotificationAddressRequired     = "address_required"
	NotificationCredentialsReleased = "credentials_released"
	NotificationGroupFilled         = "group_filled"
)

// Notification is a delivered (persisted) lifecycle message for one user.
type Notification struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index"`
	Kind      string `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Body      string `gorm:"default:''"`
	ActionURL string `gorm:"default:''"`
	ReadAt    *time.Time
}
