package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafaeldtavares/juristrack-backend/api/responses"
	"github.com/rafaeldtavares/juristrack-backend/api/validators"
	"github.com/rafaeldtavares/juristrack-backend/internal/processes"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

type searchByNumberRequest struct {
	ProcessNumber string `json:"process_number" validate:"required"`
}

type searchByPartyRequest struct {
	PartyName string `json:"party_name" validate:"required"`
	PartyType string `json:"party_type,omitempty"`
}

type searchByCourtRequest struct {
	CourtCode string `json:"court_code" validate:"required"`
	Limit     int    `json:"limit,omitempty"`
}

// SearchProcessByNumber fetches one process by its CNJ number, serving the
// stored snapshot when it is still fresh.
func SearchProcessByNumber(svc *processes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req searchByNumberRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SearchByNumber(r.Context(), userID, req.ProcessNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// SearchProcessesByParty fans the query out across the configured courts.
func SearchProcessesByParty(svc *processes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req searchByPartyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.SearchByParty(r.Context(), userID, req.PartyName, req.PartyType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// SearchProcessesByCourt lists recent processes from one tribunal.
func SearchProcessesByCourt(svc *processes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req searchByCourtRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.SearchByCourt(r.Context(), userID, req.CourtCode, req.Limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// GetProcess returns a stored process with parties and movements, refreshing
// it first when stale.
func GetProcess(svc *processes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(chi.URLParam(r, "processId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Details(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// SearchHistory returns the caller's recent search attempts.
func SearchHistory(svc *processes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attempts, err := svc.UserSearchHistory(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, attempts)
	}
}

// ListCourts returns the known tribunal catalog.
func ListCourts(svc *processes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courts, err := svc.CourtsList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, courts)
	}
}
