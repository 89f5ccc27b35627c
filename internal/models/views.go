package models

import "time"

// AccountView is the read-optimised projection of a bank account.
// UserID is populated for ownership checks but never serialised to the API response.
type AccountView struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	AccountName   string    `json:"accountName"`
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	IsPrimary     bool      `json:"isPrimary"`
	IsFrozen      bool      `json:"isFrozen"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// TransactionView is the read-optimised projection of a ledger entry.
type TransactionView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	AccountID   string    `json:"accountId"`
	Type        string    `json:"transactionType"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	ReferenceID string    `json:"referenceId,omitempty"`
	CreatedAt   time.Time `json:"createdTimestamp"`
}

// CardView is the read-optimised projection of a virtual card.
// The CVV never leaves the write store; the card number is pre-masked.
type CardView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	CardNumber string    `json:"cardNumber"`
	Expiration string    `json:"expiration"`
	Balance    float64   `json:"balance"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdTimestamp"`
}

// ProfileView is the read-optimised projection of a profile.
// It never exposes PasswordHash.
type ProfileView struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	JoinedAt  time.Time `json:"joinedDate"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}
