package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkowalcze/shoutbox/internal/domain"
)

// MessageRepository implements domain.MessageRepository using SQLite.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new SQLite-backed MessageRepository.
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db.SqlDB}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (author_id, body, vote_count, created_at)
		 VALUES (?, ?, ?, ?)`,
		message.AuthorID, message.Body, message.VoteCount, now,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	message.ID = id
	message.CreatedAt = now
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	message := &domain.Message{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, body, vote_count, created_at
		 FROM messages WHERE id = ?`, id,
	).Scan(&message.ID, &message.AuthorID, &message.Body, &message.VoteCount, &message.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query message by id: %w", err)
	}
	return message, nil
}

func (r *MessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	return r.list(ctx,
		`SELECT id, author_id, body, vote_count, created_at FROM messages`)
}

func (r *MessageRepository) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Message, error) {
	return r.list(ctx,
		`SELECT id, author_id, body, vote_count, created_at
		 FROM messages WHERE author_id = ?`, authorID)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.AuthorID, &m.Body, &m.VoteCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// AddVote shifts the message's vote count by delta in a single statement,
// leaving concurrent votes to SQLite's own serialization.
func (r *MessageRepository) AddVote(ctx context.Context, id int64, delta int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE messages SET vote_count = vote_count + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("update vote count: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
