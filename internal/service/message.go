package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkowalcze/shoutbox/internal/domain"
)

// MessageService handles posting, listing, voting on, and deleting
// messages. All operations assume the caller has already been
// authenticated; no ownership checks are applied to votes or deletes.
type MessageService struct {
	messages domain.MessageRepository
}

// NewMessageService creates a new MessageService.
func NewMessageService(messages domain.MessageRepository) *MessageService {
	return &MessageService{messages: messages}
}

// Post creates a message authored by the given user with a zero vote count.
func (s *MessageService) Post(ctx context.Context, author *domain.User, body string) (*domain.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", domain.ErrInvalidInput)
	}

	message := &domain.Message{
		AuthorID: author.ID,
		Body:     body,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return message, nil
}

// List returns all messages in storage order.
func (s *MessageService) List(ctx context.Context) ([]domain.Message, error) {
	messages, err := s.messages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Get returns the message with the given id.
func (s *MessageService) Get(ctx context.Context, id int64) (*domain.Message, error) {
	return s.messages.GetByID(ctx, id)
}

// Vote moves the message's vote count by one in the given direction.
// There is no dedup: repeated votes by the same caller each count.
func (s *MessageService) Vote(ctx context.Context, id int64, direction domain.VoteDirection) error {
	if !direction.Valid() {
		return fmt.Errorf("%w: vote must be %q or %q", domain.ErrInvalidInput, domain.VoteUp, domain.VoteDown)
	}

	var delta int64 = 1
	if direction == domain.VoteDown {
		delta = -1
	}

	if err := s.messages.AddVote(ctx, id, delta); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("vote on message: %w", err)
	}
	return nil
}

// Delete removes the message with the given id. Existence is checked
// before the delete; any authenticated caller may delete any message.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	if _, err := s.messages.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get message: %w", err)
	}

	if err := s.messages.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// ListByUser returns all messages authored by the given user.
func (s *MessageService) ListByUser(ctx context.Context, user *domain.User) ([]domain.Message, error) {
	messages, err := s.messages.ListByAuthor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list user messages: %w", err)
	}
	return messages, nil
}
