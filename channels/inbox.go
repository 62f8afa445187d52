package channels

import (
	"context"

	"courier-lab/domain"
)

// InboxAdapter is the internal no-op surface: members read their inbox,
// nothing leaves the platform and nothing is charged.
type InboxAdapter struct{}

func NewInboxAdapter() InboxAdapter { return InboxAdapter{} }

func (InboxAdapter) Kind() domain.ChannelKind { return domain.ChannelInternal }

func (InboxAdapter) Send(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}
