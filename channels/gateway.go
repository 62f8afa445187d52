package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"courier-lab/domain"
	"courier-lab/errors"
)

// GatewayAdapter talks to a WhatsApp-style messaging bridge over HTTP.
// The bridge owns the actual messaging protocol; this adapter just posts
// JSON and reads back an ack, bounded by a per-call timeout.
type GatewayAdapter struct {
	bridgeURL string
	client    *http.Client
	timeout   time.Duration
	log       *slog.Logger
}

type bridgeRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type bridgeResponse struct {
	Sent bool `json:"sent"`
}

func NewGatewayAdapter(bridgeURL string, timeout time.Duration, log *slog.Logger) *GatewayAdapter {
	return &GatewayAdapter{
		bridgeURL: bridgeURL,
		client:    &http.Client{Timeout: timeout},
		timeout:   timeout,
		log:       log,
	}
}

func (a *GatewayAdapter) Kind() domain.ChannelKind {
	return domain.ChannelWhatsApp
}

// Send posts the message to the bridge. A timeout or a refused ack is an
// ordinary failure (false, nil); only a malformed destination is a hard
// error.
func (a *GatewayAdapter) Send(ctx context.Context, destination, body string) (bool, error) {
	if !validPhone(destination) {
		return false, fmt.Errorf("%w: %q", errors.ErrInvalidDestination, destination)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(bridgeRequest{To: destination, Body: body})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.bridgeURL, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("Messaging bridge unreachable", "error", err)
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.log.Warn("Messaging bridge refused delivery", "status", resp.StatusCode)
		return false, nil
	}

	var ack bridgeResponse
	if err = json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		a.log.Warn("Unreadable bridge ack", "error", err)
		return false, nil
	}
	return ack.Sent, nil
}

// validPhone accepts E.164-ish handles: optional +, then digits.
func validPhone(handle string) bool {
	trimmed := strings.TrimPrefix(handle, "+")
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
