package models

import (
	"time"

	"gorm.io/gorm"
)

// Vote statuses
const (
	VoteStatusPending  = "pending"
	VoteStatusApproved = "approved"
	VoteStatusRejected = "rejected"
)

// GroupMember ties a user to a group. The composite unique index is the
// database-level guard against double joins racing past the application check.
type GroupMember struct {
	gorm.Model
	GroupID    uint      `gorm:"not null;uniqueIndex:ux_group_members_group_user,priority:1"`
	UserID     uint      `gorm:"not null;uniqueIndex:ux_group_members_group_user,priority:2"`
	VoteStatus string    `gorm:"default:'pending'"`
	IsAdmin    bool      `gorm:"default:false"`
	JoinedAt   time.Time `gorm:"autoCreateTime"`
}

// ParticipantDeliveryAddress holds the shipping destination for one group
// membership. Re-submission overwrites (upsert keyed by GroupMemberID).
type ParticipantDeliveryAddress struct {
	gorm.Model
	GroupMemberID uint   `gorm:"uniqueIndex;not null"`
	FirstName     string `gorm:"not null"`
	LastName      string `gorm:"not null"`
	AddressLine1  string `gorm:"not null"`
	AddressLine2  string `gorm:"default:''"`
	City          string `gorm:"not null"`
	State         string `gorm:"default:''"`
	PostalCode    string `gorm:"default:''"`
	Country       string `gorm:"not null"`
	PhoneNumber   string `gorm:"not null"`
}
