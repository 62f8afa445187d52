//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"courier-lab/domain"
	"courier-lab/errors"

	"github.com/dgraph-io/badger/v4"
)

type IConversationRepository interface {
	Create(conversation domain.Conversation) error
	Get(id string) (domain.Conversation, error)
	ApplyIntent(id string, delta int, proposed *domain.Stage) (domain.Conversation, error)
	SetLastChannel(id string, kind domain.ChannelKind) error
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

func conversationKey(id string) []byte {
	return []byte(fmt.Sprintf("conv:%s", id))
}

func (c ConversationRepository) Create(conversation domain.Conversation) error {
	if conversation.Stage == "" {
		conversation.Stage = domain.StageLead
	}
	if conversation.LastChannelUsed == "" {
		conversation.LastChannelUsed = domain.ChannelInternal
	}
	bytes, err := json.Marshal(conversation)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(conversation.ID), bytes)
	})
}

func (c ConversationRepository) Get(id string) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &conversation)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, errors.ErrUnknownConversation
	}
	return conversation, err
}

// ApplyIntent folds a scoring verdict into the conversation:
// read-modify-clamp-write inside one transaction, because the raw
// increment is not natively capped. The stage only ever upgrades.
func (c ConversationRepository) ApplyIntent(id string, delta int, proposed *domain.Stage) (domain.Conversation, error) {
	return c.update(id, func(conversation *domain.Conversation) {
		conversation.IntentScore = domain.ClampScore(conversation.IntentScore + delta)
		if proposed != nil {
			conversation.Stage = conversation.Stage.Upgrade(*proposed)
		}
	})
}

// SetLastChannel records the surface that actually delivered the latest
// message. Degraded delivery is observable only through this field.
func (c ConversationRepository) SetLastChannel(id string, kind domain.ChannelKind) error {
	_, err := c.update(id, func(conversation *domain.Conversation) {
		conversation.LastChannelUsed = kind
	})
	return err
}

func (c ConversationRepository) update(id string, mutate func(*domain.Conversation)) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(id))
		if err != nil {
			return err
		}
		if err = item.Value(func(value []byte) error {
			return json.Unmarshal(value, &conversation)
		}); err != nil {
			return err
		}
		mutate(&conversation)
		conversation.UpdatedAt = time.Now().UTC()
		bytes, err := json.Marshal(conversation)
		if err != nil {
			return err
		}
		return txn.Set(conversationKey(id), bytes)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, errors.ErrUnknownConversation
	}
	return conversation, err
}
