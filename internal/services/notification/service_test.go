package notification

import (
	"context"
	"errors"
	"testing"

	"splitbuy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockNotificationRepo) ListByUser(userID uint, limit, offset int) ([]models.Notification, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(id, userID uint) (int64, error) {
	args := m.Called(id, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestPublishPersistsNotification(t *testing.T) {
	repo := new(MockNotificationRepo)
	repo.On("Create", mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == 3 &&
			n.Kind == models.NotificationGroupFilled &&
			n.Title == "Your group is full" &&
			n.ActionURL == "/api/groups/12"
	})).Return(nil)

	d := NewDispatcher(repo)
	d.Publish(context.Background(), GroupFilled(3, 12, "Family VPN plan"))

	repo.AssertExpectations(t)
}

func TestPublishSwallowsRepoErrors(t *testing.T) {
	repo := new(MockNotificationRepo)
	repo.On("Create", mock.Anything).Return(errors.New("db down"))

	d := NewDispatcher(repo)
	assert.NotPanics(t, func() {
		d.Publish(context.Background(), GroupFilled(3, 12, "Family VPN plan"))
	})
}

func TestNewDispatcherRequiresRepo(t *testing.T) {
	assert.Panics(t, func() { NewDispatcher(nil) })
}

func TestAddressRequired(t *testing.T) {
	ev := AddressRequired(7, 12, 44, "Standing desk")

	assert.Equal(t, models.NotificationAddressRequired, ev.Kind)
	assert.Equal(t, uint(7), ev.UserID)
	assert.Equal(t, "/api/groups/12/members/44/delivery-address", ev.ActionURL)
	assert.Contains(t, ev.Body, "Standing desk")
}

func TestCredentialsReleased(t *testing.T) {
	t.Run("includes 2fa key when present", func(t *testing.T) {
		ev := CredentialsReleased(7, "StreamCo", "fam-user", "s3cret", "ABCD1234")

		assert.Equal(t, models.NotificationCredentialsReleased, ev.Kind)
		assert.Contains(t, ev.Body, "StreamCo")
		assert.Contains(t, ev.Body, "fam-user")
		assert.Contains(t, ev.Body, "s3cret")
		assert.Contains(t, ev.Body, "ABCD1234")
	})

	t.Run("omits 2fa key when empty", func(t *testing.T) {
		ev := CredentialsReleased(7, "StreamCo", "fam-user", "s3cret", "")
		assert.NotContains(t, ev.Body, "2FA")
	})
}
