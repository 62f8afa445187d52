//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"courier-lab/domain"
	"courier-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	StoreMessage(message DiskMessage) error
	UpdateMessageChannel(conversationID string, id uuid.UUID, at time.Time, kind domain.ChannelKind) error
	GetMessages(conversationID string, cursor *string) ([]DiskMessage, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// DiskMessage is the persisted form of a domain.Message.
type DiskMessage struct {
	ID             uuid.UUID           `json:"id"`
	ConversationID string              `json:"conversation_id"`
	SenderID       string              `json:"sender_id"`
	Text           string              `json:"text"`
	AttachmentRef  *string             `json:"attachment_ref,omitempty"`
	Channel        domain.ChannelKind  `json:"channel"`
	At             time.Time           `json:"at"`
}

// messageKey formats "msg:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func messageKey(conversationID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", conversationID, at.UnixNano(), id))
}

// StoreMessage persists a message in BadgerDB. Messages are create-only;
// readers observe them in creation order thanks to the padded key.
func (m MessageRepository) StoreMessage(message DiskMessage) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message.ConversationID, message.At, message.ID), bytes)
	})
}

// UpdateMessageChannel rewrites the single mutable field of a message:
// the channel that actually delivered it. At most one update per message.
func (m MessageRepository) UpdateMessageChannel(conversationID string, id uuid.UUID, at time.Time, kind domain.ChannelKind) error {
	key := messageKey(conversationID, at, id)
	return m.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var message DiskMessage
		if err = item.Value(func(value []byte) error {
			return json.Unmarshal(value, &message)
		}); err != nil {
			return err
		}
		if message.Channel != domain.ChannelInternal {
			return errors.ErrMessageAlreadyRouted
		}
		message.Channel = kind
		bytes, err := json.Marshal(message)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
}

// GetMessages retrieves messages for a conversation using a prefix scan,
// newest first. Thanks to the padded timestamp in the key, messages are
// naturally sorted by time. It stops collecting once the configured
// limitMessages is reached and hands back an opaque cursor for the next
// page.
func (m MessageRepository) GetMessages(conversationID string, cursor *string) ([]DiskMessage, *string, error) {
	var byteMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", conversationID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk back.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				byteMessages = append(byteMessages, value)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	diskMessages := make([]DiskMessage, 0, len(byteMessages))
	for _, b := range byteMessages {
		var message DiskMessage
		if err = json.Unmarshal(b, &message); err != nil {
			return nil, nil, err
		}
		diskMessages = append(diskMessages, message)
	}
	return diskMessages, nextCursor(diskMessages, m.limitMessages, lastKey), nil
}

func nextCursor(page []DiskMessage, limit *int, lastKey string) *string {
	if limit == nil || len(page) < *limit {
		return nil
	}
	return lo.ToPtr(lastKey)
}
