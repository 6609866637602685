package controllers

import (
	"net/http"

	"github.com/rafaeldtavares/juristrack-backend/api/responses"
	"github.com/rafaeldtavares/juristrack-backend/api/validators"
	"github.com/rafaeldtavares/juristrack-backend/internal/subscriptions"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

type checkoutRequest struct {
	PriceID      string `json:"price_id" validate:"required"`
	IsPlanChange bool   `json:"is_plan_change,omitempty"`
}

type validateCheckoutRequest struct {
	SessionID    string `json:"session_id" validate:"required"`
	IsPlanChange bool   `json:"is_plan_change,omitempty"`
}

// CreateCheckout opens a hosted Stripe checkout session.
func CreateCheckout(svc *subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateCheckout(r.Context(), userID, req.PriceID, req.IsPlanChange)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ValidateCheckout finalizes a completed checkout session into a local
// subscription, applying the plan-change rules.
func ValidateCheckout(svc *subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req validateCheckoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.ValidateCheckout(r.Context(), userID, req.SessionID, req.IsPlanChange)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

// GetActiveSubscription returns the caller's active subscription, enriched
// with the latest Stripe period fields when reachable.
func GetActiveSubscription(svc *subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.GetActive(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if sub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active subscription"))
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

// CancelSubscription cancels the caller's active subscription at the period
// boundary.
func CancelSubscription(svc *subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.GetActive(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if sub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active subscription"))
			return
		}

		canceled := svc.Cancel(r.Context(), sub, true)
		responses.WriteSuccess(w, map[string]bool{"canceled": canceled})
	}
}
