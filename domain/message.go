// Package domain contains core concepts of the delivery system.
// This file defines Message records and related rules.
// Messages are immutable once created; only the Channel field may be
// updated, exactly once, to the channel that actually delivered it.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one outbound chat message.
type Message struct {
	ID             uuid.UUID
	ConversationID string
	SenderID       string
	Text           string
	AttachmentRef  *string
	Channel        ChannelKind // starts as ChannelInternal
	CreatedAt      time.Time
}
