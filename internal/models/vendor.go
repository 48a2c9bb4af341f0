package models

import "gorm.io/gorm"

// UserVendor is a user-managed supply source that products can reference
// as their fulfilment origin.
type UserVendor struct {
	gorm.Model
	UserID       uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	ContactEmail string `gorm:"default:''"`
	PhoneNumber  string `gorm:"default:''"`
	Website      string `gorm:"default:''"`
	Notes        string `gorm:"default:''"`
}
