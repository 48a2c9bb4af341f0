package models

import "gorm.io/gorm"

// UserProfileAddress is a saved address book entry. At most one entry per
// user carries IsDefault=true; flipping the default happens atomically in
// the repository.
type UserProfileAddress struct {
	gorm.Model
	UserID       uint   `gorm:"not null;index"`
	Label        string `gorm:"default:''"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	AddressLine1 string `gorm:"not null"`
	AddressLine2 string `gorm:"default:''"`
	City         string `gorm:"not null"`
	State        string `gorm:"default:''"`
	PostalCode   string `gorm:"default:''"`
	Country      string `gorm:"not null"`
	PhoneNumber  string `gorm:"not null"`
	IsDefault    bool   `gorm:"default:false;index"`
}
