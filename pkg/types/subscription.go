package types

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonCreate        SubscriptionChangeReason = "create"
	SubscriptionChangeReasonCancel        SubscriptionChangeReason = "cancel"
	SubscriptionChangeReasonResume        SubscriptionChangeReason = "resume"
	SubscriptionChangeReasonSwap          SubscriptionChangeReason = "swap"
	SubscriptionChangeReasonWebhookCancel SubscriptionChangeReason = "webhookCancel"
)
