package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

const defaultReconcileLimit = 100

// SubscriptionReconcileJobParams configures the subscription sync cron job.
type SubscriptionReconcileJobParams struct {
	Logger      *logger.Logger
	BillingRepo reconcileLister
	Renewer     subscriptionRenewer
	Limit       int
}

type reconcileLister interface {
	ListSubscriptionsForReconciliation(ctx context.Context, limit int) ([]models.Subscription, error)
}

type subscriptionRenewer interface {
	Renew(ctx context.Context, sub *models.Subscription) error
}

// NewSubscriptionReconcileJob builds a reconciliation cron job.
func NewSubscriptionReconcileJob(params SubscriptionReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.BillingRepo == nil {
		return nil, fmt.Errorf("billing repository required")
	}
	if params.Renewer == nil {
		return nil, fmt.Errorf("renewer required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultReconcileLimit
	}
	return &subscriptionReconcileJob{
		logg:    params.Logger,
		repo:    params.BillingRepo,
		renewer: params.Renewer,
		limit:   limit,
	}, nil
}

type subscriptionReconcileJob struct {
	logg    *logger.Logger
	repo    reconcileLister
	renewer subscriptionRenewer
	limit   int
}

func (j *subscriptionReconcileJob) Name() string { return "subscription-reconcile" }

// Run mirrors Stripe state into local rows for every reconciliation
// candidate. One bad subscription never stops the rest of the batch.
func (j *subscriptionReconcileJob) Run(ctx context.Context) error {
	logCtx := j.logg.WithField(ctx, "job", j.Name())

	candidates, err := j.repo.ListSubscriptionsForReconciliation(logCtx, j.limit)
	if err != nil {
		return fmt.Errorf("list subscriptions for reconciliation: %w", err)
	}

	var errs error
	synced := 0
	for i := range candidates {
		sub := &candidates[i]
		if err := j.renewer.Renew(logCtx, sub); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("renew subscription %s: %w", sub.ID, err))
			continue
		}
		synced++
	}

	reportCtx := j.logg.WithFields(logCtx, map[string]any{
		"candidates": len(candidates),
		"synced":     synced,
	})
	j.logg.Info(reportCtx, "subscription reconcile loop complete")
	return errs
}
