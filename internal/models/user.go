package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleBuyer  = "buyer"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model
	Email               string  `gorm:"uniqueIndex;not null"`
	Password            string  `gorm:"not null" json:"-"`
	FirstName           string  `gorm:"default:''"`
	LastName            string  `gorm:"default:''"`
	PhoneNumber         string  `gorm:"default:''"`
	Role                string  `gorm:"default:'buyer'"`
	WalletBalance       float64 `gorm:"default:0"`
	Holds               float64 `gorm:"default:0"`
	ShippingAddress     string  `gorm:"default:''"`
	PayoutBankName      string  `gorm:"default:''"`
	PayoutAccountNumber string  `gorm:"default:''"`
	PayoutAccountName   string  `gorm:"default:''"`
	TokenVersion        int     `gorm:"default:1"`
}

// AvailableBalance is the spendable portion of the wallet. Holds are
// escrowed against pending group commitments and never stored separately.
func (u *User) AvailableBalance() float64 {
	return u.WalletBalance - u.Holds
}

// HasCompleteShippingInfo reports whether the profile carries everything a
// fulfiller needs to ship to this user.
func (u *User) HasCompleteShippingInfo() bool {
	return u.FirstName != "" && u.LastName != "" && u.ShippingAddress != "" && u.PhoneNumber != ""
}
