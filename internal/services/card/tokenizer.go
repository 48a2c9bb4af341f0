package card

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"splitbuy/internal/models"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/token"
)

// Tokenizer exchanges raw card details for a gateway token. Raw numbers are
// never persisted.
type Tokenizer interface {
	Tokenize(input models.CreateCardInput) (*models.CardToken, error)
}

// StripeTokenizer tokenizes cards with the Stripe tokens API.
type StripeTokenizer struct{}

func NewStripeTokenizer() *StripeTokenizer {
	return &StripeTokenizer{}
}

var testTokens = map[string]string{
	"tok_visa":       "Visa",
	"tok_mastercard": "Mastercard",
	"tok_amex":       "American Express",
	"tok_discover":   "Discover",
}

func (t *StripeTokenizer) Tokenize(input models.CreateCardInput) (*models.CardToken, error) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	// Test tokens pass through as-is.
	if strings.HasPrefix(input.CardNumber, "tok_") {
		cardType, ok := testTokens[input.CardNumber]
		if !ok {
			cardType = "Unknown"
		}
		return &models.CardToken{
			Token:    input.CardNumber,
			CardType: cardType,
			Expiry:   fmt.Sprintf("%s/%s", input.ExpiryMonth, input.ExpiryYear),
		}, nil
	}

	if !luhnValid(input.CardNumber) {
		return nil, errors.New("invalid card number: failed validation check")
	}

	params := &stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   &input.CardNumber,
			ExpMonth: &input.ExpiryMonth,
			ExpYear:  &input.ExpiryYear,
		},
	}

	stripeToken, err := token.New(params)
	if err != nil {
		log.Printf("Stripe tokenization error: %v", err)
		return nil, fmt.Errorf("stripe tokenization failed: %v", err)
	}

	return &models.CardToken{
		Token:    stripeToken.ID,
		CardType: string(stripeToken.Card.Brand),
		Expiry:   fmt.Sprintf("%s/%s", input.ExpiryMonth, input.ExpiryYear),
	}, nil
}

// Luhn checksum over the card number digits.
func luhnValid(cardNumber string) bool {
	var sum int
	shouldDouble := false

	for i := len(cardNumber) - 1; i >= 0; i-- {
		if cardNumber[i] < '0' || cardNumber[i] > '9' {
			return false
		}
		digit := int(cardNumber[i] - '0')

		if shouldDouble {
			digit = digit * 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		shouldDouble = !shouldDouble
	}

	return sum%10 == 0
}
