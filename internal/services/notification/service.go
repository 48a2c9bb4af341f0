// Package notification decouples lifecycle side effects from the services
// that trigger them. Services publish domain events; the dispatcher persists
// them as user notifications. Publishing is fire-and-forget: a delivery
// failure is logged and never propagated to the publishing operation.
package notification

import (
	"context"
	"fmt"
	"log"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
)

// Event is a domain event destined for one user.
type Event struct {
	Kind      string
	UserID    uint
	Title     string
	Body      string
	ActionURL string
}

// Publisher is the event-emission interface services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Dispatcher consumes published events and stores them as notifications.
type Dispatcher struct {
	repo repositories.NotificationRepository
}

func NewDispatcher(repo repositories.NotificationRepository) *Dispatcher {
	if repo == nil {
		panic("notification repo is required")
	}
	return &Dispatcher{repo: repo}
}

func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	err := d.repo.Create(&models.Notification{
		UserID:    event.UserID,
		Kind:      event.Kind,
		Title:     event.Title,
		Body:      event.Body,
		ActionURL: event.ActionURL,
	})
	if err != nil {
		log.Printf("notification dispatch failed for user %d (%s): %v", event.UserID, event.Kind, err)
	}
}

// AddressRequired builds the event asking a new member for a shipping
// address, pointing at the submission endpoint keyed by their membership.
func AddressRequired(userID, groupID, memberID uint, productTitle string) Event {
	return Event{
		Kind:      models.NotificationAddressRequired,
		UserID:    userID,
		Title:     "Delivery address required",
		Body:      fmt.Sprintf("Add a delivery address to receive %q with your group.", productTitle),
		ActionURL: fmt.Sprintf("/api/groups/%d/members/%d/delivery-address", groupID, memberID),
	}
}

// GroupFilled builds the event telling a member their group reached capacity
// and voting has begun.
func GroupFilled(userID, groupID uint, productTitle string) Event {
	return Event{
		Kind:      models.NotificationGroupFilled,
		UserID:    userID,
		Title:     "Your group is full",
		Body:      fmt.Sprintf("The group for %q is full. Cast your vote to finalize the deal.", productTitle),
		ActionURL: fmt.Sprintf("/api/groups/%d", groupID),
	}
}

// CredentialsReleased builds the settlement event carrying subscription
// access credentials to a member.
func CredentialsReleased(userID uint, vendorName, username, password, twoFactorKey string) Event {
	body := fmt.Sprintf("Access from %s. Username: %s, password: %s", vendorName, username, password)
	if twoFactorKey != "" {
		body += ", 2FA key: " + twoFactorKey
	}
	return Event{
		Kind:   models.NotificationCredentialsReleased,
		UserID: userID,
		Title:  "Your subscription access is ready",
		Body:   body,
	}
}
