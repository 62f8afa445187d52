//go:generate go run go.uber.org/mock/mockgen -source=messenger_service.go -destination=../mocks/mock_messenger_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"courier-lab/channels"
	"courier-lab/domain"
	"courier-lab/domain/delivery"
	"courier-lab/errors"
	"courier-lab/intent"
	"courier-lab/observability"
	"courier-lab/repositories"
	"courier-lab/runtime"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessengerService interface {
	SendMessage(ctx context.Context, cmd delivery.SendMessageCommand) (domain.Message, domain.DeliveryOutcome, error)
	GetMessages(cmd delivery.GetMessagesCommand) ([]domain.Message, *string, error)
}

// MessengerService is the delivery router: for every outbound message
// it decides between the internal inbox and paid external channels,
// enforces the prepaid-credit gate, records the attempt, and triggers
// automated responders. Only message persistence failures propagate to
// the caller; everything downstream is absorbed into the outcome flag
// or the logs.
type MessengerService struct {
	log           *slog.Logger
	messages      repositories.IMessageRepository
	conversations repositories.IConversationRepository
	contacts      repositories.IContactRepository
	ledger        repositories.ILedgerRepository
	scorer        *intent.Scorer
	adapters      map[domain.ChannelKind]channels.Adapter
	dispatcher    *runtime.Dispatcher
	stats         *observability.DeliveryStats
	messageCost   int64
}

func NewMessengerService(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	conversations repositories.IConversationRepository,
	contacts repositories.IContactRepository,
	ledger repositories.ILedgerRepository,
	scorer *intent.Scorer,
	adapters []channels.Adapter,
	dispatcher *runtime.Dispatcher,
	stats *observability.DeliveryStats,
	messageCost int64) *MessengerService {
	byKind := make(map[domain.ChannelKind]channels.Adapter, len(adapters))
	for _, adapter := range adapters {
		byKind[adapter.Kind()] = adapter
	}
	return &MessengerService{
		log:           log,
		messages:      messages,
		conversations: conversations,
		contacts:      contacts,
		ledger:        ledger,
		scorer:        scorer,
		adapters:      byKind,
		dispatcher:    dispatcher,
		stats:         stats,
		messageCost:   messageCost,
	}
}

// SendMessage persists the message, updates the conversation state and
// runs delivery. Once the message is stored it is never rolled back:
// the sender always sees it as sent, degraded delivery shows up only in
// the returned outcome and the conversation's lastChannelUsed.
func (s *MessengerService) SendMessage(ctx context.Context, cmd delivery.SendMessageCommand) (domain.Message, domain.DeliveryOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return domain.Message{}, domain.DeliveryOutcome{}, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}

	conversation, err := s.conversations.Get(cmd.ConversationID)
	if err != nil {
		return domain.Message{}, domain.DeliveryOutcome{}, err
	}
	// A conversation owned by another account is indistinguishable from
	// a missing one: all routing runs on the owner's credits.
	if conversation.AccountID != cmd.SenderID {
		return domain.Message{}, domain.DeliveryOutcome{}, errors.ErrUnknownConversation
	}

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		SenderID:       cmd.SenderID,
		Text:           cmd.Text,
		AttachmentRef:  cmd.AttachmentRef,
		Channel:        domain.ChannelInternal,
		CreatedAt:      createdAt,
	}

	// Persistence is the only fatal step: nothing else runs without it.
	if err = s.messages.StoreMessage(toDiskMessage(message)); err != nil {
		return domain.Message{}, domain.DeliveryOutcome{}, fmt.Errorf("message persistence failed: %w", err)
	}
	s.stats.MessagesRouted.Add(1)

	s.applyScoring(conversation.ID, cmd.Text)

	contact, err := s.contacts.Get(conversation.ContactID)
	if err != nil {
		// The message is already persisted; an unresolvable counterpart
		// only degrades delivery to the internal inbox.
		s.log.Error("Contact resolution failed, message stays internal",
			"conversation", conversation.ID, "error", err)
		s.fireBots(conversation, cmd.Text)
		return message, domain.InternalOutcome(), nil
	}

	outcome := s.route(ctx, conversation, contact, &message)

	// Bots run last, regardless of the external-delivery outcome, and
	// never delay the caller's response.
	s.fireBots(conversation, cmd.Text)

	return message, outcome, nil
}

// applyScoring folds the text heuristics into the conversation. A zero
// verdict performs no write at all; scorer or repository trouble is a
// logged no-op, never a delivery failure.
func (s *MessengerService) applyScoring(conversationID, text string) {
	if s.scorer == nil {
		return
	}
	verdict := s.scorer.Score(text)
	if verdict.Zero() {
		return
	}
	s.log.Debug("Intent verdict",
		"conversation", conversationID,
		"family", string(verdict.Family),
		"delta", verdict.Delta,
		"lang", verdict.Lang)
	if _, err := s.conversations.ApplyIntent(conversationID, verdict.Delta, verdict.Stage); err != nil {
		s.log.Error("Scoring update failed", "conversation", conversationID, "error", err)
	}
}

// route dispatches on the contact's routing class: a single switch over
// the capability tag, each arm independently testable.
func (s *MessengerService) route(ctx context.Context, conversation domain.Conversation, contact domain.Contact, message *domain.Message) domain.DeliveryOutcome {
	switch contact.Kind {
	case domain.ContactMember:
		s.notifyMember(ctx, contact, message.Text)
		return domain.InternalOutcome()
	case domain.ContactGhost:
		return s.runFallbackChain(ctx, conversation, contact, message)
	default:
		s.log.Warn("Unknown contact kind, message stays internal",
			"contact", contact.ID, "kind", string(contact.Kind))
		return domain.InternalOutcome()
	}
}

// notifyMember emits a best-effort email ping when the member left an
// address. No credits involved, failures are only logged.
func (s *MessengerService) notifyMember(ctx context.Context, contact domain.Contact, text string) {
	if contact.Handles.Email == "" {
		return
	}
	adapter, ok := s.adapters[domain.ChannelEmail]
	if !ok {
		return
	}
	if sent, err := adapter.Send(ctx, contact.Handles.Email, text); err != nil || !sent {
		s.log.Debug("Member notification skipped", "contact", contact.ID, "error", err)
	}
}

// runFallbackChain executes the gated fallback: one debit reserved
// before the first attempt covers the whole chain; attempts are
// strictly sequential; a fully failed chain forfeits the unit (no
// refund, the log stays append-only).
func (s *MessengerService) runFallbackChain(ctx context.Context, conversation domain.Conversation, contact domain.Contact, message *domain.Message) domain.DeliveryOutcome {
	candidates := channels.SelectChannels(contact)
	if len(candidates) == 0 {
		// Unreachable ghost: normal, silent outcome.
		return domain.InternalOutcome()
	}

	debited, err := s.ledger.DebitIfSufficient(conversation.AccountID, s.messageCost)
	if err != nil {
		s.log.Error("Ledger unavailable, skipping external delivery",
			"account", conversation.AccountID, "error", err)
		return domain.InternalOutcome()
	}
	if !debited {
		// Soft-fail by design: no adapter runs, nothing is charged,
		// the sender is not warned in the current policy.
		s.stats.NoCreditSkips.Add(1)
		return domain.NoCreditOutcome()
	}
	s.stats.CreditDebits.Add(1)

	for _, kind := range candidates {
		adapter, ok := s.adapters[kind]
		if !ok {
			s.log.Warn("No adapter registered for channel", "kind", string(kind))
			continue
		}
		destination := channels.Destination(kind, contact)
		sent, err := adapter.Send(ctx, destination, message.Text)
		if err != nil {
			// Hard adapter errors count as a failed attempt and the
			// chain moves on with the already-reserved debit.
			s.log.Warn("Channel attempt errored",
				"kind", string(kind), "message", message.ID, "error", err)
			continue
		}
		if !sent {
			s.log.Debug("Channel attempt failed",
				"kind", string(kind), "message", message.ID)
			continue
		}

		s.settleDelivery(conversation, message, kind)
		s.stats.ExternalDelivered.Add(1)
		return domain.ExternalOutcome(kind)
	}

	// Chain exhausted: the debited unit is gone, record it as such.
	s.stats.FallbackFailures.Add(1)
	s.recordTransaction(conversation.AccountID, candidates[0], domain.TxForfeited, message.ID)
	return domain.InternalOutcome()
}

// settleDelivery records the single transaction of the gated chain and
// flips the message/conversation channel fields. The delivery already
// happened: failures here degrade the audit trail, not the send.
func (s *MessengerService) settleDelivery(conversation domain.Conversation, message *domain.Message, kind domain.ChannelKind) {
	s.recordTransaction(conversation.AccountID, kind, domain.TxCompleted, message.ID)

	if err := s.messages.UpdateMessageChannel(message.ConversationID, message.ID, message.CreatedAt, kind); err != nil {
		s.log.Error("Message channel update failed", "message", message.ID, "error", err)
	} else {
		message.Channel = kind
	}
	if err := s.conversations.SetLastChannel(conversation.ID, kind); err != nil {
		s.log.Error("Conversation channel update failed", "conversation", conversation.ID, "error", err)
	}
}

func (s *MessengerService) recordTransaction(accountID string, kind domain.ChannelKind, status domain.TransactionStatus, messageID uuid.UUID) {
	err := s.ledger.Record(domain.CreditTransaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Amount:      -s.messageCost,
		Kind:        domain.KindForChannel(kind),
		Status:      status,
		Description: fmt.Sprintf("outbound message %s", messageID),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("Ledger record failed", "account", accountID, "error", err)
	}
}

// fireBots pushes one trigger per automated participant on the bounded
// queue, non-blocking. Each trigger is independent of the others.
func (s *MessengerService) fireBots(conversation domain.Conversation, text string) {
	if s.dispatcher == nil {
		return
	}
	participants, err := s.contacts.Participants(conversation.ID)
	if err != nil {
		s.log.Error("Participant resolution failed, no bots fired",
			"conversation", conversation.ID, "error", err)
		return
	}
	for _, participant := range participants {
		if !participant.Bot {
			continue
		}
		s.dispatcher.Dispatch(domain.BotTrigger{
			ConversationID: conversation.ID,
			BotID:          participant.ID,
			Text:           text,
		})
	}
}

func (s *MessengerService) GetMessages(cmd delivery.GetMessagesCommand) ([]domain.Message, *string, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	conversation, err := s.conversations.Get(cmd.ConversationID)
	if err != nil {
		return nil, nil, err
	}
	if conversation.AccountID != cmd.AccountID {
		return nil, nil, errors.ErrUnknownConversation
	}
	diskMessages, cursor, err := s.messages.GetMessages(cmd.ConversationID, cmd.Cursor)
	if err != nil {
		return nil, nil, err
	}
	return fromDiskMessages(diskMessages), cursor, nil
}

func toDiskMessage(message domain.Message) repositories.DiskMessage {
	return repositories.DiskMessage{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Text:           message.Text,
		AttachmentRef:  message.AttachmentRef,
		Channel:        message.Channel,
		At:             message.CreatedAt,
	}
}

func fromDiskMessages(diskMessages []repositories.DiskMessage) []domain.Message {
	return lo.Map(diskMessages, func(item repositories.DiskMessage, _ int) domain.Message {
		return domain.Message{
			ID:             item.ID,
			ConversationID: item.ConversationID,
			SenderID:       item.SenderID,
			Text:           item.Text,
			AttachmentRef:  item.AttachmentRef,
			Channel:        item.Channel,
			CreatedAt:      item.At,
		}
	})
}
