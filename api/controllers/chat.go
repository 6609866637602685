package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/api/responses"
	"github.com/rafaeldtavares/juristrack-backend/api/validators"
	"github.com/rafaeldtavares/juristrack-backend/internal/chat"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

type createConversationRequest struct {
	Title     string  `json:"title,omitempty"`
	ProcessID *string `json:"process_id,omitempty"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateConversation opens a conversation, optionally bound to a process.
func CreateConversation(svc *chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createConversationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var processID *uuid.UUID
		if req.ProcessID != nil && strings.TrimSpace(*req.ProcessID) != "" {
			parsed, err := uuid.Parse(*req.ProcessID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid process id"))
				return
			}
			processID = &parsed
		}

		conversation, err := svc.CreateConversation(r.Context(), userID, processID, req.Title)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, conversation)
	}
}

// ListConversations pages through the caller's conversations.
func ListConversations(svc *chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		page, err := svc.ListConversations(r.Context(), userID, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetConversationMessages returns one owned conversation with its history.
func GetConversationMessages(svc *chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversationID, err := pathUUID(chi.URLParam(r, "conversationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetConversation(r.Context(), userID, conversationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// SendChatMessage posts a user message and returns both turns of the
// exchange.
func SendChatMessage(svc *chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversationID, err := pathUUID(chi.URLParam(r, "conversationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req sendMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SendMessage(r.Context(), userID, conversationID, req.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DeleteConversation removes an owned conversation and its messages.
func DeleteConversation(svc *chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conversationID, err := pathUUID(chi.URLParam(r, "conversationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteConversation(r.Context(), userID, conversationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AnalyzeProcess runs the one-shot AI analysis over a stored process.
func AnalyzeProcess(svc *chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUserID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		processID, err := pathUUID(chi.URLParam(r, "processId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AnalyzeProcess(r.Context(), processID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
