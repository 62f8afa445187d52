// Package api exposes the delivery router over HTTP. The surface is
// deliberately small: one write operation (send), the read side of the
// message store, and the ledger audit trail.
package api

import (
	"log/slog"
	"net/http"

	"courier-lab/auth"
	"courier-lab/observability"
	"courier-lab/repositories"
	"courier-lab/services"
)

type Server struct {
	log           *slog.Logger
	messenger     services.IMessengerService
	ledger        repositories.ILedgerRepository
	contacts      repositories.IContactRepository
	conversations repositories.IConversationRepository
	stats         *observability.DeliveryStats
}

func NewServer(
	log *slog.Logger,
	messenger services.IMessengerService,
	ledger repositories.ILedgerRepository,
	contacts repositories.IContactRepository,
	conversations repositories.IConversationRepository,
	stats *observability.DeliveryStats) *Server {
	return &Server{
		log:           log,
		messenger:     messenger,
		ledger:        ledger,
		contacts:      contacts,
		conversations: conversations,
		stats:         stats,
	}
}

// Handler assembles the routed handler with logging on everything and
// auth on everything except the health endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	authed := http.NewServeMux()
	authed.HandleFunc("POST /v1/messages", s.handleSendMessage)
	authed.HandleFunc("GET /v1/conversations/{id}/messages", s.handleGetMessages)
	authed.HandleFunc("GET /v1/accounts/{id}/transactions", s.handleTransactions)
	authed.HandleFunc("POST /v1/accounts/{id}/topup", s.handleTopUp)
	authed.HandleFunc("POST /v1/contacts", s.handleCreateContact)
	authed.HandleFunc("POST /v1/conversations", s.handleCreateConversation)
	mux.Handle("/v1/", auth.Middleware(authed))

	return RequestLogger(s.log, mux)
}
