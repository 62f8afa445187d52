package channels

import "courier-lab/domain"

// SelectChannels computes the ordered candidate list for a contact:
// messaging handle first, email second, skipping whatever the contact
// lacks. Members never get external candidates; their inbox is the
// implicit channel. Pure function, no side effects.
func SelectChannels(contact domain.Contact) []domain.ChannelKind {
	if contact.IsMember() {
		return nil
	}
	var kinds []domain.ChannelKind
	if contact.Handles.Phone != "" {
		kinds = append(kinds, domain.ChannelWhatsApp)
	}
	if contact.Handles.Email != "" {
		kinds = append(kinds, domain.ChannelEmail)
	}
	return kinds
}
