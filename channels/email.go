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

	"github.com/gabriel-vasile/mimetype"
)

const maxSubjectLength = 80

// EmailAdapter delivers through an HTTP email gateway. The body content
// type is sniffed so campaign templates pasted as HTML render as HTML.
type EmailAdapter struct {
	gatewayURL string
	client     *http.Client
	timeout    time.Duration
	log        *slog.Logger
}

type emailRequest struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
}

func NewEmailAdapter(gatewayURL string, timeout time.Duration, log *slog.Logger) *EmailAdapter {
	return &EmailAdapter{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: timeout},
		timeout:    timeout,
		log:        log,
	}
}

func (a *EmailAdapter) Kind() domain.ChannelKind {
	return domain.ChannelEmail
}

func (a *EmailAdapter) Send(ctx context.Context, destination, body string) (bool, error) {
	if !strings.Contains(destination, "@") {
		return false, fmt.Errorf("%w: %q", errors.ErrInvalidDestination, destination)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(emailRequest{
		To:          destination,
		Subject:     subjectFrom(body),
		Body:        body,
		ContentType: mimetype.Detect([]byte(body)).String(),
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("Email gateway unreachable", "error", err)
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.log.Warn("Email gateway refused delivery", "status", resp.StatusCode)
		return false, nil
	}
	return true, nil
}

// subjectFrom derives a subject from the first line of the body.
func subjectFrom(body string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	runes := []rune(line)
	if len(runes) > maxSubjectLength {
		return string(runes[:maxSubjectLength]) + "…"
	}
	return line
}
