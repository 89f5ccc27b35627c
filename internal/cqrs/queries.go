package cqrs

// ---------- Profile queries ----------

// GetProfileQuery fetches a single profile by ID.
type GetProfileQuery struct {
	UserID string
}

// ---------- Account queries ----------

// GetAccountQuery fetches a single bank account, subject to ownership check.
type GetAccountQuery struct {
	AccountID        string
	RequestingUserID string
}

// ListAccountsQuery fetches all bank accounts belonging to a user.
type ListAccountsQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single ledger entry.
type GetTransactionQuery struct {
	TransactionID string
	AccountID     string
	UserID        string
}

// ListTransactionsQuery fetches the ledger for an account.
type ListTransactionsQuery struct {
	AccountID string
	UserID    string
}

// ---------- Bill queries ----------

// ListBillsQuery fetches all bills for a user, paid and unpaid.
type ListBillsQuery struct {
	UserID string
}

// ---------- Card queries ----------

// ListCardsQuery fetches all virtual cards belonging to a user.
type ListCardsQuery struct {
	UserID string
}

// ---------- Messaging queries ----------

// ListConversationsQuery fetches all conversations involving a user.
type ListConversationsQuery struct {
	UserID string
}

// ListMessagesQuery fetches the messages of one conversation.
type ListMessagesQuery struct {
	ConversationID string
	UserID         string
}

// UnreadCountQuery counts unread messages addressed to a user.
type UnreadCountQuery struct {
	UserID string
}

// ---------- Social queries ----------

// ListFeedQuery fetches recent posts.
type ListFeedQuery struct {
	Limit int
}

// ListCommentsQuery fetches the comments of a post.
type ListCommentsQuery struct {
	PostID string
}

// ---------- Trading queries ----------

// PortfolioQuery fetches a user's holdings with current valuations.
type PortfolioQuery struct {
	UserID string
}
