package handler

import "github.com/mkowalcze/shoutbox/internal/domain"

// MessageDTO is the JSON representation of a message. The body travels
// under the "message" key on the wire.
type MessageDTO struct {
	ID        int64  `json:"id"`
	AuthorID  int64  `json:"author_id"`
	Message   string `json:"message"`
	VoteCount int64  `json:"vote_count"`
}

func toMessageDTO(m domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Message:   m.Body,
		VoteCount: m.VoteCount,
	}
}

func toMessageDTOs(messages []domain.Message) []MessageDTO {
	dtos := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, toMessageDTO(m))
	}
	return dtos
}
