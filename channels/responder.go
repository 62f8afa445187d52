package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"courier-lab/domain"
)

// ResponderClient posts bot triggers to the automated-responder service.
// Unlike the delivery adapters, a failed trigger is a real error: the
// dispatch worker counts it and the caller decides what to log.
type ResponderClient struct {
	responderURL string
	client       *http.Client
	log          *slog.Logger
}

type triggerRequest struct {
	ConversationID string `json:"conversation_id"`
	BotID          string `json:"bot_id"`
	Text           string `json:"text"`
}

func NewResponderClient(responderURL string, timeout time.Duration, log *slog.Logger) *ResponderClient {
	return &ResponderClient{
		responderURL: responderURL,
		client:       &http.Client{Timeout: timeout},
		log:          log,
	}
}

func (c *ResponderClient) Trigger(ctx context.Context, trigger domain.BotTrigger) error {
	payload, err := json.Marshal(triggerRequest{
		ConversationID: trigger.ConversationID,
		BotID:          trigger.BotID,
		Text:           trigger.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.responderURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("responder unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("responder refused trigger for bot %s: status %d", trigger.BotID, resp.StatusCode)
	}
	return nil
}
