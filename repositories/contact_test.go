package repositories

import (
	"log/slog"
	"testing"

	"courier-lab/domain"
	"courier-lab/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestContactRepository_PutGetRoundTrip(t *testing.T) {
	req := require.New(t)
	repository := NewContactRepository(openTestDB(t), slog.Default())

	contact := domain.Contact{
		ID: "contact-1", Kind: domain.ContactGhost, DisplayName: "Alice",
		Handles: domain.ContactHandles{Phone: "+15550001111", Email: "alice@example.com"},
	}
	req.NoError(repository.Put(contact))

	fetched, err := repository.Get("contact-1")
	req.NoError(err)
	req.Equal(contact, fetched)

	_, err = repository.Get("missing")
	req.ErrorIs(err, errors.ErrUnknownContact)
}

func TestContactRepository_Participants(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	contacts := NewContactRepository(db, slog.Default())
	conversations := NewConversationRepository(db, slog.Default())

	req.NoError(contacts.Put(domain.Contact{ID: "contact-1", Kind: domain.ContactMember}))
	req.NoError(contacts.Put(domain.Contact{ID: "bot-1", Kind: domain.ContactMember, Bot: true}))
	req.NoError(conversations.Create(domain.Conversation{
		ID: "conv-1", AccountID: "acc-1", ContactID: "contact-1",
		Participants: []string{"bot-1", "gone"},
	}))

	resolved, err := contacts.Participants("conv-1")
	req.NoError(err)
	// Counterpart first, then the group members. The stale ID is dropped.
	req.Equal([]string{"contact-1", "bot-1"}, lo.Map(resolved, func(c domain.Contact, _ int) string {
		return c.ID
	}))
}

func TestContactRepository_ParticipantsUnknownConversation(t *testing.T) {
	contacts := NewContactRepository(openTestDB(t), slog.Default())
	_, err := contacts.Participants("missing")
	require.ErrorIs(t, err, errors.ErrUnknownConversation)
}
