package controllers

import (
	"net/http"

	"github.com/rafaeldtavares/juristrack-backend/api/responses"
	"github.com/rafaeldtavares/juristrack-backend/internal/billing"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

// ListPlans returns the purchasable plans ordered by price.
func ListPlans(svc *billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := svc.ListActivePlans(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plans)
	}
}
