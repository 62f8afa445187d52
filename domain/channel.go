package domain

// ChannelKind identifies a delivery surface.
type ChannelKind string

const (
	ChannelInternal ChannelKind = "internal"
	ChannelWhatsApp ChannelKind = "whatsapp"
	ChannelEmail    ChannelKind = "email"
)

// DeliveryResult classifies how a message reached (or failed to reach)
// its recipient. The sender always sees the message as sent; degraded
// delivery is only visible through this flag.
type DeliveryResult string

const (
	DeliveredInternal DeliveryResult = "INTERNAL"
	DeliveredExternal DeliveryResult = "EXTERNAL_CHANNEL"
	SkippedNoCredit   DeliveryResult = "EXTERNAL_SKIPPED_NO_CREDIT"
)

// DeliveryOutcome is returned alongside the persisted message.
// Channel is only meaningful when Result is DeliveredExternal.
type DeliveryOutcome struct {
	Result  DeliveryResult
	Channel ChannelKind
}

func InternalOutcome() DeliveryOutcome {
	return DeliveryOutcome{Result: DeliveredInternal, Channel: ChannelInternal}
}

func ExternalOutcome(kind ChannelKind) DeliveryOutcome {
	return DeliveryOutcome{Result: DeliveredExternal, Channel: kind}
}

func NoCreditOutcome() DeliveryOutcome {
	return DeliveryOutcome{Result: SkippedNoCredit, Channel: ChannelInternal}
}
