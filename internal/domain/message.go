package domain

import (
	"context"
	"time"
)

// Message is a short text posted by a user. VoteCount starts at zero
// and moves by one per vote in either direction; repeated votes by the
// same caller each count.
type Message struct {
	ID        int64
	AuthorID  int64
	Body      string
	VoteCount int64
	CreatedAt time.Time
}

// VoteDirection is the direction of a single vote on a message.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is one of the two known values.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	List(ctx context.Context) ([]Message, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]Message, error)
	AddVote(ctx context.Context, id int64, delta int64) error
	Delete(ctx context.Context, id int64) error
}
