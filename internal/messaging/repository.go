package messaging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// Repository persists conversations and messages in PostgreSQL.
// A conversation is keyed by its ordered user pair so the same two users
// always share one conversation regardless of who opened it.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// orderPair returns the two user IDs in lexical order, the canonical form
// used for the conversation uniqueness constraint.
func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// GetOrCreateConversation returns the conversation between two users,
// creating it on first contact. The insert is idempotent under races via
// ON CONFLICT.
func (r *Repository) GetOrCreateConversation(userA, userB string) (*models.Conversation, error) {
	u1, u2 := orderPair(userA, userB)

	var conv models.Conversation
	err := r.db.QueryRow(
		`SELECT id, user1_id, user2_id, created_at FROM conversations
		 WHERE user1_id = $1 AND user2_id = $2`, u1, u2,
	).Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt)
	if err == nil {
		return &conv, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	conv = models.Conversation{
		ID:        utils.GenerateID("cnv"),
		User1ID:   u1,
		User2ID:   u2,
		CreatedAt: time.Now().UTC(),
	}
	_, err = r.db.Exec(
		`INSERT INTO conversations (id, user1_id, user2_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user1_id, user2_id) DO NOTHING`,
		conv.ID, conv.User1ID, conv.User2ID, conv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	// Re-read in case a concurrent insert won the conflict.
	err = r.db.QueryRow(
		`SELECT id, user1_id, user2_id, created_at FROM conversations
		 WHERE user1_id = $1 AND user2_id = $2`, u1, u2,
	).Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reload conversation: %w", err)
	}
	return &conv, nil
}

// GetConversation fetches a conversation by ID.
func (r *Repository) GetConversation(conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.QueryRow(
		`SELECT id, user1_id, user2_id, created_at FROM conversations WHERE id = $1`,
		conversationID,
	).Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

// ListConversations returns every conversation involving the user.
func (r *Repository) ListConversations(userID string) ([]models.Conversation, error) {
	rows, err := r.db.Query(
		`SELECT id, user1_id, user2_id, created_at FROM conversations
		 WHERE user1_id = $1 OR user2_id = $1
		 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

func (r *Repository) CreateMessage(msg *models.Message) error {
	_, err := r.db.Exec(
		`INSERT INTO messages (id, conversation_id, sender_id, receiver_id, content, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.ReceiverID, msg.Content, msg.Read, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's messages, oldest first.
func (r *Repository) ListMessages(conversationID string) ([]models.Message, error) {
	rows, err := r.db.Query(
		`SELECT id, conversation_id, sender_id, receiver_id, content, read, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// UnreadCount counts unread messages addressed to the user across all
// conversations, as a SQL aggregate.
func (r *Repository) UnreadCount(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read = FALSE`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// MarkRead flips every unread message addressed to the user in one
// conversation. The conditional WHERE makes it idempotent: two tabs
// marking concurrently settle on the same final state.
func (r *Repository) MarkRead(conversationID, userID string) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE messages SET read = TRUE
		 WHERE conversation_id = $1 AND receiver_id = $2 AND read = FALSE`,
		conversationID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}
