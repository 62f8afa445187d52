// This file defines conversation counterparts and their routing class.
// A Contact is capability-tagged, not a hierarchy: the Kind drives a
// single switch in the router and each arm is testable on its own.
package domain

// ContactKind is the routing class of a counterpart.
type ContactKind string

const (
	// ContactMember has an internal inbox; no external identity needed.
	ContactMember ContactKind = "member"
	// ContactGhost is not a platform member and is reachable only
	// through external channels.
	ContactGhost ContactKind = "ghost"
)

// ContactHandles carries the external identities of a contact, ordered
// by delivery priority: messaging handle first, email second.
type ContactHandles struct {
	Phone string
	Email string
}

// Contact is a conversation counterpart.
// Members may still register an email used for best-effort notification;
// it never participates in the paid fallback chain.
type Contact struct {
	ID          string
	Kind        ContactKind
	DisplayName string
	Handles     ContactHandles

	// Bot marks an automated responder participant.
	Bot bool
}

func (c Contact) IsMember() bool {
	return c.Kind == ContactMember
}
