// Package card saves tokenized payout cards against a profile. Card numbers
// are exchanged for a gateway token before anything touches the database.
package card

import (
	"errors"
	"fmt"
	"strings"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
)

var (
	ErrInvalidCard  = errors.New("invalid card details")
	ErrCardNotFound = errors.New("card not found")
)

type Service struct {
	cards     repositories.CardRepository
	tokenizer Tokenizer
}

func NewService(cards repositories.CardRepository, tokenizer Tokenizer) *Service {
	if cards == nil {
		panic("card repository is required")
	}
	if tokenizer == nil {
		tokenizer = NewStripeTokenizer()
	}
	return &Service{cards: cards, tokenizer: tokenizer}
}

// LinkCard tokenizes the card and stores the token with display metadata.
func (s *Service) LinkCard(userID uint, input models.CreateCardInput) (*models.PayoutCard, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	tok, err := s.tokenizer.Tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}

	card := &models.PayoutCard{
		UserID:      userID,
		Token:       tok.Token,
		CardType:    tok.CardType,
		LastFour:    lastFour(input.CardNumber),
		ExpiryMonth: input.ExpiryMonth,
		ExpiryYear:  input.ExpiryYear,
		Status:      "active",
	}
	if err := s.cards.Create(card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *Service) GetUserCards(userID uint) ([]models.PayoutCard, error) {
	return s.cards.ListByUser(userID)
}

func (s *Service) DeleteCard(cardID, userID uint) error {
	rows, err := s.cards.Delete(cardID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCardNotFound
	}
	return nil
}

func validateInput(input models.CreateCardInput) error {
	if strings.HasPrefix(input.CardNumber, "tok_") {
		return nil
	}
	if len(input.CardNumber) < 12 || len(input.CardNumber) > 19 {
		return fmt.Errorf("%w: card number length", ErrInvalidCard)
	}
	if input.ExpiryMonth == "" || input.ExpiryYear == "" {
		return fmt.Errorf("%w: missing expiry", ErrInvalidCard)
	}
	return nil
}

func lastFour(number string) string {
	if strings.HasPrefix(number, "tok_") {
		return "0000"
	}
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}
