package domain

// BotTrigger asks an automated responder to react to a message.
// Ephemeral: pushed on the dispatch queue, never persisted.
type BotTrigger struct {
	ConversationID string
	BotID          string
	Text           string
}
