package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/workplace-insights/internal/persistence"
)

const messageColumns = `id, sender_id, receiver_id, content, sentiment_score, is_positive, is_negative, is_neutral, channel, sent_at`

// conditions accumulates WHERE clauses and their arguments.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, args ...any) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// MessageRepository implements persistence.MessageRepository using SQLite
type MessageRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewMessageRepository creates a new SQLite message repository
func NewMessageRepository(pool *ConnectionPool) *MessageRepository {
	return &MessageRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateMessage inserts a message
func (r *MessageRepository) CreateMessage(ctx context.Context, message persistence.Message) error {
	if message.ID == "" || message.SenderID == "" || message.ReceiverID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `INSERT INTO messages (` + messageColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.helper.Exec(ctx, query,
		message.ID,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		message.SentimentScore,
		message.IsPositive,
		message.IsNegative,
		message.IsNeutral,
		defaultChannel(message.Channel),
		formatTime(message.SentAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// ListMessages returns messages matching filter ordered by sent time
func (r *MessageRepository) ListMessages(ctx context.Context, filter persistence.MessageFilter) ([]persistence.Message, error) {
	var cond conditions
	if filter.SenderID != "" {
		cond.add("sender_id = ?", filter.SenderID)
	}
	if filter.SentAfter != nil {
		cond.add("sent_at >= ?", formatTime(*filter.SentAfter))
	}
	if filter.NegativeOrBelow != nil {
		cond.add("(is_negative = 1 OR sentiment_score < ?)", *filter.NegativeOrBelow)
	}

	order := " ORDER BY sent_at ASC, id ASC"
	if filter.Descending {
		order = " ORDER BY sent_at DESC, id DESC"
	}

	query := `SELECT ` + messageColumns + ` FROM messages` + cond.where() + order + ` LIMIT ?`
	rows, err := r.helper.Query(ctx, query, append(cond.args, sqlLimit(filter.Limit))...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return collectMessages(rows, r.mapper)
}

func collectMessages(rows *sql.Rows, mapper *ErrorMapper) ([]persistence.Message, error) {
	messages, err := scanAll(rows, scanMessage)
	if err != nil {
		return nil, mapper.MapError(err)
	}
	return messages, nil
}

func scanMessage(row rowScanner) (persistence.Message, error) {
	var message persistence.Message
	var sentAt string

	if err := row.Scan(
		&message.ID,
		&message.SenderID,
		&message.ReceiverID,
		&message.Content,
		&message.SentimentScore,
		&message.IsPositive,
		&message.IsNegative,
		&message.IsNeutral,
		&message.Channel,
		&sentAt,
	); err != nil {
		return persistence.Message{}, err
	}

	var err error
	if message.SentAt, err = parseTime("sent_at", sentAt); err != nil {
		return persistence.Message{}, err
	}
	return message, nil
}

func defaultChannel(channel string) string {
	if strings.TrimSpace(channel) == "" {
		return "email"
	}
	return channel
}
