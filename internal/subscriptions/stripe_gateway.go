package subscriptions

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/subscription"

	pkgstripe "github.com/rafaeldtavares/juristrack-backend/pkg/stripe"
)

type stripeGateway struct{}

// NewStripeGateway adapts the shared Stripe client to the Gateway interface.
func NewStripeGateway(api *pkgstripe.Client) Gateway {
	if api == nil {
		return nil
	}
	return &stripeGateway{}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.Context = ctx
	cus, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}

func (g *stripeGateway) CreateSubscription(ctx context.Context, customerID, priceID string) (*ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	params.Context = ctx
	sub, err := subscription.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripeSubscription(sub), nil
}

func (g *stripeGateway) GetSubscription(ctx context.Context, id string) (*ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := subscription.Get(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSubscription(sub), nil
}

func (g *stripeGateway) SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) (*ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx
	sub, err := subscription.Update(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSubscription(sub), nil
}

func (g *stripeGateway) CancelNow(ctx context.Context, id string) (*ProviderSubscription, error) {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	sub, err := subscription.Cancel(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSubscription(sub), nil
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*ProviderCheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	params.Context = ctx
	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripeCheckoutSession(sess), nil
}

func (g *stripeGateway) GetCheckoutSession(ctx context.Context, id string) (*ProviderCheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")
	params.Context = ctx
	sess, err := checkoutsession.Get(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripeCheckoutSession(sess), nil
}

func fromStripeSubscription(sub *stripe.Subscription) *ProviderSubscription {
	if sub == nil {
		return nil
	}
	out := &ProviderSubscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		StartDate:         sub.StartDate,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CanceledAt:        sub.CanceledAt,
	}
	// Stripe reports billing periods on the subscription items.
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		out.CurrentPeriodStart = item.CurrentPeriodStart
		out.CurrentPeriodEnd = item.CurrentPeriodEnd
	}
	return out
}

func fromStripeCheckoutSession(sess *stripe.CheckoutSession) *ProviderCheckoutSession {
	if sess == nil {
		return nil
	}
	out := &ProviderCheckoutSession{
		ID:          sess.ID,
		URL:         sess.URL,
		AmountTotal: sess.AmountTotal,
		Currency:    string(sess.Currency),
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sess.LineItems != nil && len(sess.LineItems.Data) > 0 {
		if price := sess.LineItems.Data[0].Price; price != nil {
			out.PriceID = price.ID
		}
	}
	return out
}
