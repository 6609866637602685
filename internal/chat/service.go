package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/gemini"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
	"github.com/rafaeldtavares/juristrack-backend/pkg/pagination"
)

const (
	defaultConversationTitle = "Nova conversa"

	// fallbackReply is returned whenever the model is unreachable; the chat
	// endpoint never surfaces a 5xx for a model outage.
	fallbackReply = "Desculpe, ocorreu um erro ao processar sua solicitação. Tente novamente."

	fallbackAnalysis = "Não foi possível analisar o processo no momento."
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type processReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProcessRecord, error)
}

// ServiceParams groups dependencies for the chat service.
type ServiceParams struct {
	Repo        Repository
	ProcessRepo processReader
	Generator   contentGenerator
	Logger      *logger.Logger
}

// Service runs the AI legal assistant conversations.
type Service struct {
	repo        Repository
	processRepo processReader
	generator   contentGenerator
	logg        *logger.Logger
}

// NewService builds a chat service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.ProcessRepo == nil {
		return nil, errors.New("process repo is required")
	}
	if params.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		repo:        params.Repo,
		processRepo: params.ProcessRepo,
		generator:   params.Generator,
		logg:        params.Logger,
	}, nil
}

// SendResult carries both persisted turns of one exchange. Success is false
// when the assistant reply is the model-outage fallback.
type SendResult struct {
	UserMessage      models.ChatMessage `json:"user_message"`
	AssistantMessage models.ChatMessage `json:"assistant_message"`
	Success          bool               `json:"success"`
}

// ConversationPage is one page of the user's conversation list.
type ConversationPage struct {
	Items  []models.ChatConversation `json:"items"`
	Cursor string                    `json:"cursor"`
}

// ConversationDetail is a conversation with its full message history.
type ConversationDetail struct {
	Conversation models.ChatConversation `json:"conversation"`
	Messages     []models.ChatMessage    `json:"messages"`
}

// AnalysisResult is the one-shot structured review of a stored process.
type AnalysisResult struct {
	Analysis string `json:"analysis"`
	Success  bool   `json:"success"`
}

// CreateConversation opens a conversation, optionally anchored to a stored
// process.
func (s *Service) CreateConversation(ctx context.Context, userID uuid.UUID, processID *uuid.UUID, title string) (*models.ChatConversation, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if processID != nil {
		record, err := s.processRepo.FindByID(ctx, *processID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load process")
		}
		if record == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "process not found")
		}
	}

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = defaultConversationTitle
	}

	conversation := &models.ChatConversation{
		ID:        uuid.New(),
		UserID:    userID,
		ProcessID: processID,
		Title:     trimmed,
	}
	if err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create conversation")
	}
	return conversation, nil
}

// ListConversations returns the user's conversations, most recently active
// first.
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*ConversationPage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var decoded *pagination.Cursor
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		decoded = parsed
	}

	items, next, err := s.repo.ListConversationsByUser(ctx, userID, decoded, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}

	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return &ConversationPage{Items: items, Cursor: nextCursor}, nil
}

// GetConversation returns one owned conversation with its messages.
func (s *Service) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*ConversationDetail, error) {
	conversation, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return &ConversationDetail{Conversation: *conversation, Messages: messages}, nil
}

// DeleteConversation removes an owned conversation and its messages.
func (s *Service) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.repo.DeleteConversation(ctx, conversationID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete conversation")
	}
	return nil
}

// SendMessage persists the user turn, asks the model for a reply and persists
// it. A model failure produces the canned fallback with Success=false instead
// of an error.
func (s *Service) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, content string) (*SendResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required")
	}

	conversation, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	var record *models.ProcessRecord
	if conversation.ProcessID != nil {
		record, err = s.processRepo.FindByID(ctx, *conversation.ProcessID)
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("chat: loading process context failed: %v", err))
		}
	}

	userMessage := models.ChatMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           enums.ChatRoleUser,
		Content:        content,
	}
	if err := s.repo.CreateMessage(ctx, &userMessage); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user message")
	}

	prompt := buildPrompt(record, history, content)

	reply, genErr := s.generator.GenerateContent(ctx, prompt)
	success := genErr == nil
	tokens := 0
	if success {
		tokens = gemini.EstimateTokens(prompt + reply)
	} else {
		s.logg.Error(ctx, "chat: model reply failed", genErr)
		reply = fallbackReply
	}

	assistantMessage := models.ChatMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           enums.ChatRoleAssistant,
		Content:        reply,
		TokensUsed:     tokens,
	}
	if err := s.repo.CreateMessage(ctx, &assistantMessage); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist assistant message")
	}

	if err := s.repo.TouchConversation(ctx, conversationID); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("chat: touching conversation failed: %v", err))
	}

	return &SendResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Success:          success,
	}, nil
}

// AnalyzeProcess runs the one-shot analysis prompt over a stored record.
// Model failures yield the canned fallback with Success=false.
func (s *Service) AnalyzeProcess(ctx context.Context, processID uuid.UUID) (*AnalysisResult, error) {
	if processID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "process id is required")
	}

	record, err := s.processRepo.FindByID(ctx, processID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load process")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "process not found")
	}

	analysis, err := s.generator.GenerateContent(ctx, analysisPrompt(record))
	if err != nil {
		s.logg.Error(ctx, "chat: process analysis failed", err)
		return &AnalysisResult{Analysis: fallbackAnalysis, Success: false}, nil
	}
	return &AnalysisResult{Analysis: analysis, Success: true}, nil
}

func (s *Service) ownedConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.ChatConversation, error) {
	if userID == uuid.Nil || conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and conversation id are required")
	}

	conversation, err := s.repo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}
	if conversation == nil || conversation.UserID != userID {
		// Hide other users' conversations behind the same not-found answer.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
	}
	return conversation, nil
}
