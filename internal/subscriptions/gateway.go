package subscriptions

import "context"

// ProviderSubscription is the provider-agnostic snapshot of a Stripe
// subscription. Keeping our own shape here means the service and its tests
// never touch SDK types directly.
type ProviderSubscription struct {
	ID                 string
	Status             string
	StartDate          int64
	CurrentPeriodStart int64
	CurrentPeriodEnd   int64
	CancelAtPeriodEnd  bool
	CanceledAt         int64
}

// ProviderCheckoutSession mirrors the checkout session fields the service
// needs to validate a purchase.
type ProviderCheckoutSession struct {
	ID             string
	URL            string
	SubscriptionID string
	CustomerID     string
	PriceID        string
	AmountTotal    int64
	Currency       string
}

// Gateway exposes the subset of billing-provider operations required by the
// subscription service.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (*ProviderSubscription, error)
	GetSubscription(ctx context.Context, id string) (*ProviderSubscription, error)
	SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) (*ProviderSubscription, error)
	CancelNow(ctx context.Context, id string) (*ProviderSubscription, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*ProviderCheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*ProviderCheckoutSession, error)
}

// CheckoutSessionParams configures a new hosted checkout session.
type CheckoutSessionParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}
