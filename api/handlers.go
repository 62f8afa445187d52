package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"courier-lab/auth"
	"courier-lab/domain"
	"courier-lab/domain/delivery"
	liberrors "courier-lab/errors"

	"github.com/samber/lo"
)

type sendMessageRequest struct {
	ConversationID string  `json:"conversation_id"`
	Text           string  `json:"text"`
	AttachmentRef  *string `json:"attachment_ref,omitempty"`
}

type messagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	AttachmentRef  *string   `json:"attachment_ref,omitempty"`
	Channel        string    `json:"channel"`
	CreatedAt      time.Time `json:"created_at"`
}

type sendMessageResponse struct {
	Message messagePayload `json:"message"`
	Outcome outcomePayload `json:"outcome"`
}

type outcomePayload struct {
	Result  string `json:"result"`
	Channel string `json:"channel,omitempty"`
}

func toMessagePayload(message domain.Message) messagePayload {
	return messagePayload{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Text:           message.Text,
		AttachmentRef:  message.AttachmentRef,
		Channel:        string(message.Channel),
		CreatedAt:      message.CreatedAt,
	}
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var payload sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}

	// The sender is always the authenticated caller.
	message, outcome, err := s.messenger.SendMessage(r.Context(), delivery.SendMessageCommand{
		ConversationID: payload.ConversationID,
		SenderID:       accountID,
		Text:           payload.Text,
		AttachmentRef:  payload.AttachmentRef,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sendMessageResponse{
		Message: toMessagePayload(message),
		Outcome: outcomePayload{Result: string(outcome.Result), Channel: string(outcome.Channel)},
	})
}

type messagesResponse struct {
	Messages   []messagePayload `json:"messages"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	accountID, _ := auth.AccountID(r.Context())

	var cursor *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor = &raw
	}

	messages, next, err := s.messenger.GetMessages(delivery.GetMessagesCommand{
		ConversationID: r.PathValue("id"),
		AccountID:      accountID,
		Cursor:         cursor,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messagesResponse{
		Messages:   lo.Map(messages, func(m domain.Message, _ int) messagePayload { return toMessagePayload(m) }),
		NextCursor: next,
	})
}

type transactionPayload struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, _ := auth.AccountID(r.Context())
	if accountID != r.PathValue("id") {
		// Accounts only see their own audit trail.
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	entries, err := s.ledger.Transactions(accountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(entries, func(tx domain.CreditTransaction, _ int) transactionPayload {
		return transactionPayload{
			ID:          tx.ID.String(),
			Amount:      tx.Amount,
			Kind:        string(tx.Kind),
			Status:      string(tx.Status),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		}
	}))
}

type topUpRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	accountID, _ := auth.AccountID(r.Context())
	if accountID != r.PathValue("id") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var payload topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}
	if err := s.ledger.Credit(accountID, payload.Amount, payload.Description); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createContactRequest struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Bot         bool   `json:"bot,omitempty"`
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var payload createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}
	kind := domain.ContactKind(payload.Kind)
	if kind != domain.ContactMember && kind != domain.ContactGhost {
		http.Error(w, "kind must be member or ghost", http.StatusBadRequest)
		return
	}
	err := s.contacts.Put(domain.Contact{
		ID:          payload.ID,
		Kind:        kind,
		DisplayName: payload.DisplayName,
		Handles:     domain.ContactHandles{Phone: payload.Phone, Email: payload.Email},
		Bot:         payload.Bot,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type createConversationRequest struct {
	ID           string   `json:"id"`
	ContactID    string   `json:"contact_id"`
	Participants []string `json:"participants,omitempty"`
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	accountID, _ := auth.AccountID(r.Context())

	var payload createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}
	for _, contactID := range append([]string{payload.ContactID}, payload.Participants...) {
		if _, err := s.contacts.Get(contactID); err != nil {
			s.writeError(w, err)
			return
		}
	}
	err := s.conversations.Create(domain.Conversation{
		ID:           payload.ID,
		AccountID:    accountID,
		ContactID:    payload.ContactID,
		Participants: payload.Participants,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.GetLatest())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, liberrors.ErrUnknownConversation),
		errors.Is(err, liberrors.ErrUnknownContact),
		errors.Is(err, liberrors.ErrUnknownAccount):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, liberrors.ErrInvalidCommand),
		errors.Is(err, liberrors.ErrNonPositiveAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("Request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
