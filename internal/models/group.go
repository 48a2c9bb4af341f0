package models

import (
	"time"

	"gorm.io/gorm"
)

// Group statuses. Transitions are monotonic:
// open -> waiting_votes -> {completed, failed}; cancelled is reachable from
// open and waiting_votes. No transition ever regresses.
const (
	GroupStatusOpen         = "open"
	GroupStatusWaitingVotes = "waiting_votes"
	GroupStatusCompleted    = "completed"
	GroupStatusFailed       = "failed"
	GroupStatusCancelled    = "cancelled"
)

// Group types
const (
	GroupTypeTimed   = "timed"
	GroupTypeUntimed = "untimed"
)

type Group struct {
	gorm.Model
	ProductID                 uint     `gorm:"not null;index"`
	Product                   *Product `gorm:"foreignKey:ProductID"`
	Status                    string   `gorm:"default:'open';index"`
	MemberCount               int      `gorm:"default:0"`
	TargetCount               int      `gorm:"not null"`
	GroupType                 string   `gorm:"default:'untimed'"`
	ExpiresAt                 *time.Time
	VoteDeadline              *time.Time
	UnanimousApprovalRequired bool    `gorm:"default:true"`
	EscrowAmount              float64 `gorm:"default:0"`
	// CredentialsReleasedAt records the settlement side effect so the
	// credential fan-out never fires twice for the same group.
	CredentialsReleasedAt *time.Time
}

// VotesRequired is the approval threshold shown to clients: every member
// when unanimity is required, otherwise a simple majority. Only the
// unanimous fast path resolves a group automatically.
func (g *Group) VotesRequired() int {
	if g.UnanimousApprovalRequired {
		return g.MemberCount
	}
	return (g.MemberCount + 1) / 2
}

// Expired reports whether a timed group's offer deadline has passed.
func (g *Group) Expired(now time.Time) bool {
	return g.GroupType == GroupTypeTimed && g.ExpiresAt != nil && now.After(*g.ExpiresAt)
}

// GroupStatusLog is the auditable record of every group status transition.
type GroupStatusLog struct {
	ID         uint   `gorm:"primarykey"`
	GroupID    uint   `gorm:"not null;index"`
	FromStatus string `gorm:"not null"`
	ToStatus   string `gorm:"not null"`
	Reason     string `gorm:"default:''"`
	CreatedAt  time.Time
}
