package subscriptions

import (
	"testing"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

func TestMapStripeStatusKnownValues(t *testing.T) {
	tests := []struct {
		raw  string
		want enums.SubscriptionStatus
	}{
		{"active", enums.SubscriptionStatusActive},
		{"trialing", enums.SubscriptionStatusTrialing},
		{"past_due", enums.SubscriptionStatusPastDue},
		{"canceled", enums.SubscriptionStatusCanceled},
		{"incomplete", enums.SubscriptionStatusIncomplete},
		{"incomplete_expired", enums.SubscriptionStatusIncompleteExpired},
		{"unpaid", enums.SubscriptionStatusUnpaid},
		{" ACTIVE ", enums.SubscriptionStatusActive},
	}
	for _, tt := range tests {
		if got := MapStripeStatus(tt.raw); got != tt.want {
			t.Fatalf("MapStripeStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestMapStripeStatusUnknownFallsBackToInactive(t *testing.T) {
	for _, raw := range []string{"", "paused", "some_future_status"} {
		if got := MapStripeStatus(raw); got != enums.SubscriptionStatusInactive {
			t.Fatalf("MapStripeStatus(%q) = %s, want inactive", raw, got)
		}
	}
}

func TestToTimePtr(t *testing.T) {
	if toTimePtr(0) != nil {
		t.Fatal("zero timestamp should map to nil")
	}
	ts := toTimePtr(1700000000)
	if ts == nil || ts.Unix() != 1700000000 {
		t.Fatalf("unexpected time %v", ts)
	}
}
