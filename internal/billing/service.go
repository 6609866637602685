package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
)

// ServiceParams groups dependencies for the billing service.
type ServiceParams struct {
	Repo Repository
}

// Service orchestrates billing reads that need no provider round trip.
type Service struct {
	repo Repository
}

// NewService builds a billing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// ListActivePlans returns the purchasable plans ordered by price.
func (s *Service) ListActivePlans(ctx context.Context) ([]models.Plan, error) {
	return s.repo.ListPlans(ctx, ListPlansQuery{ActiveOnly: true})
}

// ListSubscriptions returns every subscription the user has held.
func (s *Service) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	return s.repo.ListSubscriptionsByUser(ctx, userID)
}

// HasActiveSubscription reports whether the user currently holds access.
func (s *Service) HasActiveSubscription(ctx context.Context, userID uuid.UUID) (bool, error) {
	sub, err := s.repo.FindActiveSubscriptionByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub != nil, nil
}
