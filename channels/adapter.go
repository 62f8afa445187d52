//go:generate go run go.uber.org/mock/mockgen -source=adapter.go -destination=../mocks/mock_adapter.go -package=mocks
// Package channels provides the delivery surfaces a message can travel
// through. Adapters share one capability: attempt a delivery, report
// success or failure. Ordinary delivery failures are (false, nil); a
// returned error means programmer error (malformed destination) and the
// router treats it the same as a failed attempt.
package channels

import (
	"context"

	"courier-lab/domain"
)

// Adapter is the uniform capability of every delivery surface.
// Each adapter owns its own transient-failure handling (timeouts,
// retries) internally.
type Adapter interface {
	Kind() domain.ChannelKind
	Send(ctx context.Context, destination, body string) (bool, error)
}

// Destination extracts the handle an adapter should target for a
// contact, empty when the contact lacks one.
func Destination(kind domain.ChannelKind, contact domain.Contact) string {
	switch kind {
	case domain.ChannelWhatsApp:
		return contact.Handles.Phone
	case domain.ChannelEmail:
		return contact.Handles.Email
	default:
		return ""
	}
}
