package domain

import "time"

// MaxIntentScore is the soft cap enforced at the write boundary.
// The underlying increment is not natively capped, so every writer must
// clamp after adding a delta.
const MaxIntentScore = 100

// Stage is a conversation's funnel classification. It never regresses:
// a later, lower-signal message cannot downgrade it.
type Stage string

const (
	StageLead      Stage = "LEAD"
	StageQualified Stage = "QUALIFIED"
	StageClosing   Stage = "CLOSING"
)

// Rank gives the monotonic order of stages. Unknown values rank lowest
// so a corrupted record can still be upgraded.
func (s Stage) Rank() int {
	switch s {
	case StageQualified:
		return 1
	case StageClosing:
		return 2
	default:
		return 0
	}
}

// Upgrade returns the proposed stage if it outranks the current one.
func (s Stage) Upgrade(proposed Stage) Stage {
	if proposed.Rank() > s.Rank() {
		return proposed
	}
	return s
}

// ClampScore applies the MaxIntentScore cap to an incremented score.
func ClampScore(score int) int {
	if score > MaxIntentScore {
		return MaxIntentScore
	}
	return score
}

// Conversation pairs a sender account with a contact.
type Conversation struct {
	ID        string
	AccountID string
	ContactID string

	// Participants are additional contact IDs for group conversations,
	// on top of the primary counterpart. Empty for one-to-one threads.
	Participants []string
	Stage           Stage
	IntentScore     int
	LastChannelUsed ChannelKind
	UpdatedAt       time.Time
}
