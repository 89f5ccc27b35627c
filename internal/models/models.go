package models

import "time"

type Profile struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Location     string    `json:"location,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joinedDate"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

type BankAccount struct {
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

// Transaction is an append-only ledger entry. Every balance change on a
// bank account is recorded as exactly one of these, written in the same
// database transaction as the balance update itself.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AccountID   string    `json:"accountId"`
	Type        string    `json:"transactionType"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	ReferenceID string    `json:"referenceId,omitempty"`
	CreatedAt   time.Time `json:"createdTimestamp"`
}

type Bill struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	Type       string     `json:"type"`
	BillNumber string     `json:"billNumber"`
	Amount     float64    `json:"amount"`
	Provider   string     `json:"provider"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	LedgerRef  string     `json:"-"`
	CreatedAt  time.Time  `json:"createdTimestamp"`
}

type VirtualCard struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	CardNumber string    `json:"cardNumber"`
	Expiration string    `json:"expiration"`
	CVV        string    `json:"-"`
	Balance    float64   `json:"balance"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdTimestamp"`
}

type Conversation struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1Id"`
	User2ID   string    `json:"user2Id"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	ReceiverID     string    `json:"receiverId"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdTimestamp"`
}

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

type PostComment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

// Holding is a position in the trading simulation. Quantity and average
// cost are stored as exact decimal strings in Postgres and handled with
// shopspring/decimal in code, never floats.
type Holding struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Symbol    string    `json:"symbol"`
	Quantity  string    `json:"quantity"`
	AvgCost   string    `json:"avgCost"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// GatewayPayment tracks a payment initialized through the external
// gateway stub. Status moves pending -> completed | failed on verify.
type GatewayPayment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AccountID   string    `json:"accountId"`
	Method      string    `json:"method"`
	Amount      float64   `json:"amount"`
	Phone       string    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	Reference   string    `json:"gatewayReference"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdTimestamp"`
}
