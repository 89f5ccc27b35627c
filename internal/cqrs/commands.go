package cqrs

type RegisterCommand struct {
	FullName string
	Username string
	Email    string
	Password string
	Phone    string
}

type UpdateProfileCommand struct {
	UserID    string
	FullName  string
	AvatarURL string
	Bio       string
	Location  string
	Phone     string
}

type DeleteProfileCommand struct {
	UserID string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

type CreateAccountCommand struct {
	UserID      string
	AccountName string
	AccountType string
	Currency    string
}

type UpdateAccountCommand struct {
	AccountID        string
	RequestingUserID string
	AccountName      string
	AccountType      string
}

type SetPrimaryAccountCommand struct {
	AccountID        string
	RequestingUserID string
}

type DeleteAccountCommand struct {
	AccountID        string
	RequestingUserID string
}

type CreateTransactionCommand struct {
	AccountID   string
	UserID      string
	Type        string
	Amount      float64
	Description string
	Reference   string
}

type TransferCommand struct {
	FromAccountID string
	ToAccountID   string
	UserID        string
	Amount        float64
	Description   string
}

type PayBillCommand struct {
	UserID     string
	AccountID  string
	BillType   string
	BillNumber string
	Amount     float64
	Provider   string
}

type CreateCardCommand struct {
	UserID string
}

type TopUpCardCommand struct {
	CardID          string
	UserID          string
	SourceAccountID string
	Amount          float64
}

type CardPurchaseCommand struct {
	CardID      string
	UserID      string
	Amount      float64
	Description string
}

type DeactivateCardCommand struct {
	CardID string
	UserID string
}

type SendMessageCommand struct {
	SenderID   string
	ReceiverID string
	Content    string
}

type MarkReadCommand struct {
	ConversationID string
	UserID         string
}

type CreatePostCommand struct {
	UserID  string
	Content string
}

type DeletePostCommand struct {
	PostID string
	UserID string
}

type LikePostCommand struct {
	PostID string
	UserID string
}

type CommentCommand struct {
	PostID  string
	UserID  string
	Content string
}

type TradeCommand struct {
	UserID    string
	AccountID string
	Symbol    string
	Quantity  string
}

type InitializePaymentCommand struct {
	UserID      string
	AccountID   string
	Method      string
	Amount      float64
	Phone       string
	Description string
}

type VerifyPaymentCommand struct {
	PaymentID string
	UserID    string
}

type FreezeAccountCommand struct {
	AccountID string
	Frozen    bool
}
