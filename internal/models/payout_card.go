package models

import "time"

// PayoutCard is a tokenized card saved against a profile for payouts and
// top-ups. Only the gateway token and display metadata are stored.
type PayoutCard struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"not null;index"`
	Token       string `gorm:"not null"`
	CardType    string `gorm:"not null"`
	LastFour    string `gorm:"not null"`
	ExpiryMonth string `gorm:"not null"`
	ExpiryYear  string `gorm:"not null"`
	IsDefault   bool   `gorm:"default:false"`
	Status      string `gorm:"default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CardToken is the tokenization result returned by the card service.
type CardToken struct {
	Token    string `json:"token"`
	Expiry   string `json:"expiry"`
	CardType string `json:"card_type"`
}

// CreateCardInput is the input for saving a new card.
type CreateCardInput struct {
	CardNumber  string `json:"card_number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVV         string `json:"cvv"`
}
