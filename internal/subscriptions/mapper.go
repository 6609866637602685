package subscriptions

import (
	"strings"
	"time"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

// MapStripeStatus converts Stripe's status vocabulary into the local enum.
// Anything unrecognized maps to the typed inactive fallback so a provider-side
// vocabulary change can never leave a stale "active" row behind.
func MapStripeStatus(raw string) enums.SubscriptionStatus {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return enums.SubscriptionStatusInactive
	}
	if parsed, err := enums.ParseSubscriptionStatus(normalized); err == nil {
		return parsed
	}
	return enums.SubscriptionStatusInactive
}

func toTimePtr(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
