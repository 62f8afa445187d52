// Package delivery defines the commands accepted by the messenger service.
package delivery

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SendMessageCommand is the single exposed write operation.
// SenderID comes from the authenticated caller, never from the payload.
type SendMessageCommand struct {
	ConversationID string  `validate:"required,max=128"`
	SenderID       string  `validate:"required,max=128"`
	Text           string  `validate:"required,max=4096"`
	AttachmentRef  *string `validate:"omitempty,max=1024"`
	CreatedAt      time.Time
}

func (c SendMessageCommand) Validate() error {
	return validate.Struct(c)
}

// GetMessagesCommand pages through a conversation, newest first.
// AccountID is the authenticated caller; only the owner reads history.
type GetMessagesCommand struct {
	ConversationID string `validate:"required,max=128"`
	AccountID      string `validate:"required,max=128"`
	Cursor         *string
}

func (c GetMessagesCommand) Validate() error {
	return validate.Struct(c)
}
