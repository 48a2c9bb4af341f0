package card

import (
	"testing"

	"splitbuy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCardRepo struct {
	mock.Mock
}

func (m *MockCardRepo) Create(card *models.PayoutCard) error {
	return m.Called(card).Error(0)
}

func (m *MockCardRepo) GetByID(id, userID uint) (*models.PayoutCard, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutCard), args.Error(1)
}

func (m *MockCardRepo) ListByUser(userID uint) ([]models.PayoutCard, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.PayoutCard), args.Error(1)
}

func (m *MockCardRepo) Delete(id, userID uint) (int64, error) {
	args := m.Called(id, userID)
	return args.Get(0).(int64), args.Error(1)
}

type stubTokenizer struct {
	token *models.CardToken
	err   error
}

func (s *stubTokenizer) Tokenize(input models.CreateCardInput) (*models.CardToken, error) {
	return s.token, s.err
}

func TestLinkCard(t *testing.T) {
	input := models.CreateCardInput{
		CardNumber:  "4242424242424242",
		ExpiryMonth: "12",
		ExpiryYear:  "2030",
		CVV:         "123",
	}

	t.Run("stores the token and display metadata only", func(t *testing.T) {
		repo := new(MockCardRepo)
		repo.On("Create", mock.MatchedBy(func(card *models.PayoutCard) bool {
			return card.Token == "tok_abc" && card.LastFour == "4242" && card.UserID == 1
		})).Return(nil)

		s := NewService(repo, &stubTokenizer{token: &models.CardToken{Token: "tok_abc", CardType: "Visa"}})
		card, err := s.LinkCard(1, input)
		assert.NoError(t, err)
		assert.Equal(t, "4242", card.LastFour)
		assert.NotContains(t, card.Token, "4242424242424242")
		repo.AssertExpectations(t)
	})

	t.Run("rejects a card number with a bad length", func(t *testing.T) {
		s := NewService(new(MockCardRepo), &stubTokenizer{})
		_, err := s.LinkCard(1, models.CreateCardInput{CardNumber: "1234", ExpiryMonth: "12", ExpiryYear: "2030"})
		assert.ErrorIs(t, err, ErrInvalidCard)
	})

	t.Run("rejects a missing expiry", func(t *testing.T) {
		s := NewService(new(MockCardRepo), &stubTokenizer{})
		_, err := s.LinkCard(1, models.CreateCardInput{CardNumber: "4242424242424242"})
		assert.ErrorIs(t, err, ErrInvalidCard)
	})
}

func TestDeleteCard(t *testing.T) {
	t.Run("missing card", func(t *testing.T) {
		repo := new(MockCardRepo)
		repo.On("Delete", uint(9), uint(1)).Return(int64(0), nil)

		s := NewService(repo, &stubTokenizer{})
		assert.ErrorIs(t, s.DeleteCard(9, 1), ErrCardNotFound)
	})

	t.Run("owned card", func(t *testing.T) {
		repo := new(MockCardRepo)
		repo.On("Delete", uint(9), uint(1)).Return(int64(1), nil)

		s := NewService(repo, &stubTokenizer{})
		assert.NoError(t, s.DeleteCard(9, 1))
	})
}

func TestLuhnValid(t *testing.T) {
	assert.True(t, luhnValid("4242424242424242"))
	assert.True(t, luhnValid("4111111111111111"))
	assert.False(t, luhnValid("4242424242424241"))
	assert.False(t, luhnValid("4242abcd42424242"))
}

func TestTestTokensPassThrough(t *testing.T) {
	tok := NewStripeTokenizer()
	result, err := tok.Tokenize(models.CreateCardInput{
		CardNumber:  "tok_visa",
		ExpiryMonth: "12",
		ExpiryYear:  "2030",
	})
	assert.NoError(t, err)
	assert.Equal(t, "tok_visa", result.Token)
	assert.Equal(t, "Visa", result.CardType)
	assert.Equal(t, "12/2030", result.Expiry)
}
