package subscriptions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rafaeldtavares/juristrack-backend/internal/billing"
	"github.com/rafaeldtavares/juristrack-backend/pkg/config"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

// UserReader is the read-only user surface the service needs.
type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Repo    billing.Repository
	Users   UserReader
	Gateway Gateway
	Logger  *logger.Logger
	Config  config.StripeConfig
}

// Service drives the Stripe-backed subscription lifecycle.
type Service struct {
	repo    billing.Repository
	users   UserReader
	gateway Gateway
	logg    *logger.Logger
	cfg     config.StripeConfig
}

// NewService validates dependencies and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "billing repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user reader required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "billing gateway required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Service{
		repo:    params.Repo,
		users:   params.Users,
		gateway: params.Gateway,
		logg:    params.Logger,
		cfg:     params.Config,
	}, nil
}

// Activate pushes the subscription into the active state, provisioning the
// Stripe customer and subscription on first use. It reports success as a bool
// and never propagates provider errors; callers that need the subscription
// regardless of billing hiccups keep working while failures land in the log.
func (s *Service) Activate(ctx context.Context, sub *models.Subscription) bool {
	if sub == nil {
		return false
	}
	ctx = s.logg.WithField(ctx, "subscription_id", sub.ID)

	if strPtrEmpty(sub.StripeCustomerID) {
		user, err := s.users.FindByID(ctx, sub.UserID)
		if err != nil {
			s.logg.Error(ctx, "activate: load user", err)
			return false
		}
		customerID, err := s.gateway.CreateCustomer(ctx, user.Email, strings.TrimSpace(user.FirstName+" "+user.LastName))
		if err != nil {
			s.logg.Error(ctx, "activate: create stripe customer", err)
			return false
		}
		sub.StripeCustomerID = &customerID
		// Persist the customer id before any subscription call so a later
		// failure cannot orphan the Stripe customer.
		if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
			s.logg.Error(ctx, "activate: persist customer id", err)
			return false
		}
	}

	if strPtrEmpty(sub.StripeSubscriptionID) {
		priceID, err := s.planPriceID(ctx, sub)
		if err != nil {
			s.logg.Error(ctx, "activate: resolve plan price", err)
			return false
		}
		created, err := s.gateway.CreateSubscription(ctx, *sub.StripeCustomerID, priceID)
		if err != nil {
			s.logg.Error(ctx, "activate: create stripe subscription", err)
			return false
		}
		sub.StripeSubscriptionID = &created.ID
		sub.StartDate = toTimePtr(created.StartDate)
		sub.CurrentPeriodStart = toTimePtr(created.CurrentPeriodStart)
		sub.CurrentPeriodEnd = toTimePtr(created.CurrentPeriodEnd)
	} else {
		remote, err := s.gateway.GetSubscription(ctx, *sub.StripeSubscriptionID)
		if err != nil {
			s.logg.Error(ctx, "activate: refresh stripe subscription", err)
			return false
		}
		sub.StartDate = toTimePtr(remote.StartDate)
		sub.CurrentPeriodStart = toTimePtr(remote.CurrentPeriodStart)
		sub.CurrentPeriodEnd = toTimePtr(remote.CurrentPeriodEnd)
	}

	sub.Status = enums.SubscriptionStatusActive
	sub.CancelAtPeriodEnd = false
	sub.CanceledAt = nil

	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		s.logg.Error(ctx, "activate: persist subscription", err)
		return false
	}
	return true
}

// Cancel ends the subscription at Stripe, by default at the period boundary.
// A subscription that never reached Stripe is a no-op. Local state only
// changes after the provider call succeeds.
func (s *Service) Cancel(ctx context.Context, sub *models.Subscription, atPeriodEnd bool) bool {
	if sub == nil || strPtrEmpty(sub.StripeSubscriptionID) {
		return false
	}
	ctx = s.logg.WithField(ctx, "subscription_id", sub.ID)

	var (
		remote *ProviderSubscription
		err    error
	)
	if atPeriodEnd {
		remote, err = s.gateway.SetCancelAtPeriodEnd(ctx, *sub.StripeSubscriptionID, true)
	} else {
		remote, err = s.gateway.CancelNow(ctx, *sub.StripeSubscriptionID)
	}
	if err != nil {
		s.logg.Error(ctx, "cancel: stripe call failed", err)
		return false
	}

	sub.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
	if atPeriodEnd {
		// Period-end cancels keep running until the boundary; no canceled_at yet.
		sub.CanceledAt = nil
	} else {
		sub.CanceledAt = toTimePtr(remote.CanceledAt)
	}
	sub.Status = enums.SubscriptionStatusCanceled

	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		s.logg.Error(ctx, "cancel: persist subscription", err)
		return false
	}
	return true
}

// Renew re-fetches the authoritative Stripe state and mirrors it locally.
// This is the reconciliation path used by the cron worker, not a per-request
// freshness check.
func (s *Service) Renew(ctx context.Context, sub *models.Subscription) error {
	if sub == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription required")
	}
	if strPtrEmpty(sub.StripeSubscriptionID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription has no stripe id")
	}

	remote, err := s.gateway.GetSubscription(ctx, *sub.StripeSubscriptionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch stripe subscription")
	}

	sub.Status = MapStripeStatus(remote.Status)
	sub.StartDate = toTimePtr(remote.StartDate)
	sub.CurrentPeriodStart = toTimePtr(remote.CurrentPeriodStart)
	sub.CurrentPeriodEnd = toTimePtr(remote.CurrentPeriodEnd)
	sub.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
	sub.CanceledAt = toTimePtr(remote.CanceledAt)

	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist subscription")
	}
	return nil
}

// CheckoutResult is returned when a hosted checkout session is created.
type CheckoutResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateCheckout opens a hosted checkout session for the given price.
func (s *Service) CreateCheckout(ctx context.Context, userID uuid.UUID, priceID string, isPlanChange bool) (*CheckoutResult, error) {
	if strings.TrimSpace(priceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price id required")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}

	customerID := ""
	if existing, err := s.repo.FindActiveSubscriptionByUser(ctx, userID); err == nil && existing != nil && !strPtrEmpty(existing.StripeCustomerID) {
		customerID = *existing.StripeCustomerID
	}

	successURL := fmt.Sprintf("%s?session_id={CHECKOUT_SESSION_ID}&plan_change=%t", s.cfg.SuccessURL, isPlanChange)
	sess, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: successURL,
		CancelURL:  s.cfg.CancelURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

// ValidateCheckout confirms a completed checkout session, provisioning the
// plan and subscription rows and activating the result. When the purchase is
// a plan change, the previously active subscription is canceled; when it is
// not, both subscriptions deliberately coexist.
func (s *Service) ValidateCheckout(ctx context.Context, userID uuid.UUID, sessionID string, isPlanChange bool) (*models.Subscription, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	ctx = s.logg.WithField(ctx, "checkout_session_id", sessionID)

	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve checkout session")
	}
	if sess.SubscriptionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no subscription")
	}

	// Capture the previously active subscription before the new row exists so
	// the plan-change guard can compare identities.
	previous, err := s.repo.FindActiveSubscriptionByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current subscription")
	}

	plan, err := s.findOrCreatePlan(ctx, sess)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.FindSubscriptionByStripeID(ctx, sess.SubscriptionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if sub == nil {
		sub = &models.Subscription{
			UserID:               userID,
			PlanID:               &plan.ID,
			Status:               enums.SubscriptionStatusPending,
			StripeSubscriptionID: &sess.SubscriptionID,
		}
		if sess.CustomerID != "" {
			sub.StripeCustomerID = &sess.CustomerID
		}
		if err := s.repo.CreateSubscription(ctx, sub); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}
	} else {
		sub.PlanID = &plan.ID
		if sub.StripeCustomerID == nil && sess.CustomerID != "" {
			sub.StripeCustomerID = &sess.CustomerID
		}
	}

	if !s.Activate(ctx, sub) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscription activation failed")
	}

	if isPlanChange && previous != nil && previous.ID != sub.ID && previous.Status == enums.SubscriptionStatusActive {
		if !s.Cancel(ctx, previous, true) {
			// The new subscription is live either way; losing the old
			// cancelation is recoverable via reconciliation.
			s.logg.Warn(ctx, "plan change: canceling previous subscription failed")
		}
	}

	return sub, nil
}

// GetActive returns the user's active subscription with best-effort Stripe
// enrichment of the billing period fields.
func (s *Service) GetActive(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.repo.FindActiveSubscriptionByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if sub == nil {
		return nil, nil
	}
	if !strPtrEmpty(sub.StripeSubscriptionID) {
		if remote, err := s.gateway.GetSubscription(ctx, *sub.StripeSubscriptionID); err == nil {
			sub.CurrentPeriodStart = toTimePtr(remote.CurrentPeriodStart)
			sub.CurrentPeriodEnd = toTimePtr(remote.CurrentPeriodEnd)
			sub.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
			sub.CanceledAt = toTimePtr(remote.CanceledAt)
		} else {
			s.logg.Warn(s.logg.WithField(ctx, "subscription_id", sub.ID), "get active: stripe enrichment failed")
		}
	}
	return sub, nil
}

func (s *Service) planPriceID(ctx context.Context, sub *models.Subscription) (string, error) {
	if sub.PlanID == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "subscription has no plan")
	}
	plan, err := s.repo.FindPlanByID(ctx, *sub.PlanID)
	if err != nil {
		return "", err
	}
	if plan == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	return plan.StripePriceID, nil
}

func (s *Service) findOrCreatePlan(ctx context.Context, sess *ProviderCheckoutSession) (*models.Plan, error) {
	if sess.PriceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no price")
	}
	plan, err := s.repo.FindPlanByStripePriceID(ctx, sess.PriceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
	}
	if plan != nil {
		return plan, nil
	}

	plan = &models.Plan{
		Name:          fmt.Sprintf("Plano %s", sess.PriceID),
		StripePriceID: sess.PriceID,
		Price:         decimal.NewFromInt(sess.AmountTotal).Div(decimal.NewFromInt(100)),
		Currency:      enums.NormalizeCurrency(sess.Currency),
		IsActive:      true,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan")
	}
	return plan, nil
}

func strPtrEmpty(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}
