package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courier-lab/auth"
	"courier-lab/channels"
	"courier-lab/domain"
	"courier-lab/intent"
	"courier-lab/observability"
	"courier-lab/repositories"
	"courier-lab/runtime"
	"courier-lab/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *repositories.LedgerRepository) {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { db.Close() })

	log := slog.Default()
	messages := repositories.NewMessageRepository(db, log, nil)
	conversations := repositories.NewConversationRepository(db, log)
	contacts := repositories.NewContactRepository(db, log)
	ledger := repositories.NewLedgerRepository(db, log)
	stats := observability.NewDeliveryStats(log)

	scorer, err := intent.NewScorer(intent.DefaultRules())
	req.NoError(err)

	messenger := services.NewMessengerService(log, messages, conversations, contacts, ledger,
		scorer, []channels.Adapter{channels.NewInboxAdapter()}, runtime.NewDispatcher(log, 8), stats, 1)

	server := httptest.NewServer(NewServer(log, messenger, ledger, contacts, conversations, stats).Handler())
	t.Cleanup(server.Close)
	return server, ledger
}

func bearer(t *testing.T, accountID string) string {
	t.Helper()
	token, err := auth.GenerateToken(accountID, []string{"user"}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	request, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	if token != "" {
		request.Header.Set("Authorization", token)
	}
	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func TestAPI_SendMessageRoundTrip(t *testing.T) {
	req := require.New(t)
	server, ledger := newTestServer(t)
	token := bearer(t, "acc-1")

	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1", CreditBalance: 5}))

	response := doJSON(t, http.MethodPost, server.URL+"/v1/contacts", token, createContactRequest{
		ID: "contact-1", Kind: "member", DisplayName: "Alice",
	})
	req.Equal(http.StatusCreated, response.StatusCode)

	response = doJSON(t, http.MethodPost, server.URL+"/v1/conversations", token, createConversationRequest{
		ID: "conv-1", ContactID: "contact-1",
	})
	req.Equal(http.StatusCreated, response.StatusCode)

	response = doJSON(t, http.MethodPost, server.URL+"/v1/messages", token, sendMessageRequest{
		ConversationID: "conv-1", Text: "¿Cuál es el precio?",
	})
	req.Equal(http.StatusCreated, response.StatusCode)

	var sent sendMessageResponse
	req.NoError(json.NewDecoder(response.Body).Decode(&sent))
	req.Equal(string(domain.DeliveredInternal), sent.Outcome.Result)
	req.Equal("acc-1", sent.Message.SenderID)
	req.Equal("internal", sent.Message.Channel)

	// History comes back newest first.
	response = doJSON(t, http.MethodGet, server.URL+"/v1/conversations/conv-1/messages", token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	var history messagesResponse
	req.NoError(json.NewDecoder(response.Body).Decode(&history))
	req.Len(history.Messages, 1)
	req.Equal("¿Cuál es el precio?", history.Messages[0].Text)
}

func TestAPI_RequiresAuth(t *testing.T) {
	req := require.New(t)
	server, _ := newTestServer(t)

	response := doJSON(t, http.MethodPost, server.URL+"/v1/messages", "", sendMessageRequest{
		ConversationID: "conv-1", Text: "hello",
	})
	req.Equal(http.StatusUnauthorized, response.StatusCode)
}

func TestAPI_UnknownConversationIs404(t *testing.T) {
	req := require.New(t)
	server, _ := newTestServer(t)

	response := doJSON(t, http.MethodPost, server.URL+"/v1/messages", bearer(t, "acc-1"), sendMessageRequest{
		ConversationID: "missing", Text: "hello",
	})
	req.Equal(http.StatusNotFound, response.StatusCode)
}

func TestAPI_ForeignConversationIs404(t *testing.T) {
	req := require.New(t)
	server, ledger := newTestServer(t)
	owner := bearer(t, "acc-1")

	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1", CreditBalance: 5}))
	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-2", CreditBalance: 5}))

	response := doJSON(t, http.MethodPost, server.URL+"/v1/contacts", owner, createContactRequest{
		ID: "contact-1", Kind: "member", DisplayName: "Alice",
	})
	req.Equal(http.StatusCreated, response.StatusCode)
	response = doJSON(t, http.MethodPost, server.URL+"/v1/conversations", owner, createConversationRequest{
		ID: "conv-1", ContactID: "contact-1",
	})
	req.Equal(http.StatusCreated, response.StatusCode)

	// Another account can neither post into the thread nor read it. The
	// owner's balance stays untouched.
	intruder := bearer(t, "acc-2")
	response = doJSON(t, http.MethodPost, server.URL+"/v1/messages", intruder, sendMessageRequest{
		ConversationID: "conv-1", Text: "hello",
	})
	req.Equal(http.StatusNotFound, response.StatusCode)

	response = doJSON(t, http.MethodGet, server.URL+"/v1/conversations/conv-1/messages", intruder, nil)
	req.Equal(http.StatusNotFound, response.StatusCode)

	balance, err := ledger.Balance("acc-1")
	req.NoError(err)
	req.Equal(int64(5), balance)
}

func TestAPI_TopUpAndAudit(t *testing.T) {
	req := require.New(t)
	server, ledger := newTestServer(t)
	token := bearer(t, "acc-1")

	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1"}))

	response := doJSON(t, http.MethodPost, server.URL+"/v1/accounts/acc-1/topup", token, topUpRequest{
		Amount: 10, Description: "initial pack",
	})
	req.Equal(http.StatusNoContent, response.StatusCode)

	response = doJSON(t, http.MethodGet, server.URL+"/v1/accounts/acc-1/transactions", token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	var entries []transactionPayload
	req.NoError(json.NewDecoder(response.Body).Decode(&entries))
	req.Len(entries, 1)
	req.Equal(int64(10), entries[0].Amount)

	// Someone else's trail is off limits.
	response = doJSON(t, http.MethodGet, server.URL+"/v1/accounts/acc-1/transactions", bearer(t, "acc-2"), nil)
	req.Equal(http.StatusForbidden, response.StatusCode)
}

func TestAPI_HealthzIsPublic(t *testing.T) {
	req := require.New(t)
	server, _ := newTestServer(t)

	response, err := http.Get(server.URL + "/healthz")
	req.NoError(err)
	defer response.Body.Close()
	req.Equal(http.StatusOK, response.StatusCode)

	var snapshot observability.Snapshot
	req.NoError(json.NewDecoder(response.Body).Decode(&snapshot))
}
