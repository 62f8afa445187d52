package e2e

import (
	"net/http"
	"testing"
	"time"

	"courier-lab/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testDeliverySuite struct {
	BaseHTTPSuite
}

func TestDeliverySuite(t *testing.T) {
	suite.Run(t, &testDeliverySuite{})
}

func (s *testDeliverySuite) SetupSuite() {
	s.BaseHTTPSuite.SetupSuite()
	if s.Config.CourierAddr == "" {
		s.T().Skip("COURIER_ADDR not set, skipping end to end scenario")
	}

	token, err := auth.GenerateToken(s.Config.AccountID, []string{"user"}, time.Hour)
	s.Require().NoError(err)
	s.Token = token
}

func (s *testDeliverySuite) TestFullDeliveryFlow() {
	contactID := "e2e-contact-" + uuid.New().String()[:8]
	conversationID := "e2e-conv-" + uuid.New().String()[:8]

	type sendRequest struct {
		ConversationID string `json:"conversation_id"`
		Text           string `json:"text"`
	}
	type sendResponse struct {
		Message struct {
			ID      string `json:"id"`
			Channel string `json:"channel"`
		} `json:"message"`
		Outcome struct {
			Result  string `json:"result"`
			Channel string `json:"channel"`
		} `json:"outcome"`
	}

	s.Run("Step 0: Seed a member contact and a conversation", func() {
		s.Banner("Seeding contact and conversation")
		status := s.DoJSON(http.MethodPost, "/v1/contacts", map[string]any{
			"id": contactID, "kind": "member", "display_name": "E2E Member",
		}, nil)
		s.Require().Equal(http.StatusCreated, status)

		status = s.DoJSON(http.MethodPost, "/v1/conversations", map[string]any{
			"id": conversationID, "contact_id": contactID,
		}, nil)
		s.Require().Equal(http.StatusCreated, status)
	})

	s.Run("Step 1: Member delivery stays internal", func() {
		s.Banner("Sending to a member")
		var sent sendResponse
		status := s.DoJSON(http.MethodPost, "/v1/messages", sendRequest{
			ConversationID: conversationID, Text: "hola, bienvenido",
		}, &sent)
		s.Require().Equal(http.StatusCreated, status)
		s.Require().Equal("INTERNAL", sent.Outcome.Result)
	})

	s.Run("Step 2: Message history is persisted newest first", func() {
		s.Banner("Reading history")
		var history struct {
			Messages []struct {
				Text string `json:"text"`
			} `json:"messages"`
		}
		status := s.DoJSON(http.MethodGet, "/v1/conversations/"+conversationID+"/messages", nil, &history)
		s.Require().Equal(http.StatusOK, status)
		s.Require().NotEmpty(history.Messages)
		s.Require().Equal("hola, bienvenido", history.Messages[0].Text)
	})

	s.Run("Step 3: Top up and audit the ledger", func() {
		s.Banner("Ledger round trip")
		status := s.DoJSON(http.MethodPost, "/v1/accounts/"+s.Config.AccountID+"/topup", map[string]any{
			"amount": s.Config.StartingCredits, "description": "e2e seed",
		}, nil)
		s.Require().Equal(http.StatusNoContent, status)

		var entries []struct {
			Amount int64 `json:"amount"`
		}
		status = s.DoJSON(http.MethodGet, "/v1/accounts/"+s.Config.AccountID+"/transactions", nil, &entries)
		s.Require().Equal(http.StatusOK, status)
		s.Require().NotEmpty(entries)
	})
}
