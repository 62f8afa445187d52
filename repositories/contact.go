//go:generate go run go.uber.org/mock/mockgen -source=contact.go -destination=../mocks/mock_contact_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"courier-lab/domain"
	"courier-lab/errors"

	"github.com/dgraph-io/badger/v4"
)

type IContactRepository interface {
	Put(contact domain.Contact) error
	Get(id string) (domain.Contact, error)
	Participants(conversationID string) ([]domain.Contact, error)
}

type ContactRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewContactRepository(db *badger.DB, log *slog.Logger) ContactRepository {
	return ContactRepository{db: db, log: log}
}

func contactKey(id string) []byte {
	return []byte(fmt.Sprintf("contact:%s", id))
}

func (c ContactRepository) Put(contact domain.Contact) error {
	bytes, err := json.Marshal(contact)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(contactKey(contact.ID), bytes)
	})
}

func (c ContactRepository) Get(id string) (domain.Contact, error) {
	var contact domain.Contact
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(contactKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &contact)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Contact{}, errors.ErrUnknownContact
	}
	return contact, err
}

// Participants resolves every contact attached to a conversation: the
// primary counterpart first, then any group participants. Unresolvable
// entries are skipped with a warning so one stale ID does not mute the
// rest of the thread.
func (c ContactRepository) Participants(conversationID string) ([]domain.Contact, error) {
	var conversation domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(conversationID))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &conversation)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.ErrUnknownConversation
	}
	if err != nil {
		return nil, err
	}

	ids := append([]string{conversation.ContactID}, conversation.Participants...)
	contacts := make([]domain.Contact, 0, len(ids))
	for _, id := range ids {
		contact, err := c.Get(id)
		if err != nil {
			c.log.Warn("Skipping unresolvable participant",
				"conversation", conversationID, "contact", id, "error", err)
			continue
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}
