package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"strategy-buddy-be/internal/config"
	"strategy-buddy-be/internal/constant"
	"strategy-buddy-be/internal/dto"
	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/pkg/logger"
	"strategy-buddy-be/internal/pkg/serverutils"
	"strategy-buddy-be/internal/repository/memory"
	"strategy-buddy-be/pkg/assistant"
	"strategy-buddy-be/pkg/markdown"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCreationError means the collaborator refused to open a conversation
// handle. Fatal for the turn; there is nothing to poll.
type SessionCreationError struct {
	Err error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("failed to create assistant session: %v", e.Err)
}

func (e *SessionCreationError) Unwrap() error {
	return e.Err
}

// RunFailedError is any terminal run status other than completed.
type RunFailedError struct {
	Status assistant.JobStatus
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("assistant run ended with status %q", e.Status)
}

// RunTimeoutError means the run was still pending when the poll ceiling was
// reached. Distinct from RunFailedError: the collaborator never answered.
type RunTimeoutError struct {
	Elapsed time.Duration
}

func (e *RunTimeoutError) Error() string {
	return fmt.Sprintf("assistant run still pending after %s", e.Elapsed)
}

type IChatService interface {
	CreateConversation(ctx context.Context, userId uuid.UUID, request *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	GetTranscript(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.GetTranscriptResponse, error)
	Submit(ctx context.Context, userId uuid.UUID, request *dto.SubmitTurnRequest) (*dto.SubmitTurnResponse, error)
}

type chatService struct {
	conversationRepo *memory.ConversationRepository
	documentService  IDocumentService
	provider         assistant.Provider
	publisher        IPublisherService
	cfg              config.AssistantConfig
	logger           logger.ILogger
}

func NewChatService(
	conversationRepo *memory.ConversationRepository,
	documentService IDocumentService,
	provider assistant.Provider,
	publisher IPublisherService,
	cfg config.AssistantConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		conversationRepo: conversationRepo,
		documentService:  documentService,
		provider:         provider,
		publisher:        publisher,
		cfg:              cfg,
		logger:           log,
	}
}

func (cs *chatService) CreateConversation(ctx context.Context, userId uuid.UUID, request *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	assistantKey := request.AssistantKey
	if assistantKey == "" {
		assistantKey = "default"
	}
	if _, ok := cs.cfg.AssistantIDs[assistantKey]; !ok {
		return nil, serverutils.NewHTTPError(fiber.StatusBadRequest, fmt.Sprintf("unknown assistant key: %s", assistantKey))
	}

	conversation := entity.NewConversation(userId, assistantKey, constant.GreetingTurn)
	cs.conversationRepo.Save(conversation)

	cs.logger.Info("CHAT", "Conversation created", map[string]interface{}{
		"conversation_id": conversation.Id,
		"assistant_key":   assistantKey,
	})

	return &dto.CreateConversationResponse{
		Id:           conversation.Id,
		AssistantKey: conversation.AssistantKey,
		CreatedAt:    conversation.CreatedAt,
		Turns:        toTurnDTOs(conversation.Turns()),
	}, nil
}

func (cs *chatService) GetTranscript(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.GetTranscriptResponse, error) {
	conversation, err := cs.findOwned(userId, conversationId)
	if err != nil {
		return nil, err
	}
	return &dto.GetTranscriptResponse{
		ConversationId: conversation.Id,
		InFlight:       conversation.InFlight(),
		Turns:          toTurnDTOs(conversation.Turns()),
	}, nil
}

func (cs *chatService) Submit(ctx context.Context, userId uuid.UUID, request *dto.SubmitTurnRequest) (*dto.SubmitTurnResponse, error) {
	conversation, err := cs.findOwned(userId, request.ConversationId)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(request.Text)
	if text == "" {
		// Whitespace-only input: no turn, no collaborator call.
		return &dto.SubmitTurnResponse{
			ConversationId: conversation.Id,
			Turns:          toTurnDTOs(conversation.Turns()),
		}, nil
	}

	if !conversation.BeginTurn() {
		return nil, serverutils.NewHTTPError(fiber.StatusConflict, "a turn is already being processed for this conversation")
	}
	defer conversation.EndTurn()

	sent := entity.Turn{Text: text, IsUser: true, CreatedAt: time.Now()}
	conversation.AppendTurn(sent)

	replyText, err := cs.sendMessage(ctx, conversation, text, conversation.SelectedDocumentIds())
	if err != nil {
		cs.logger.Error("CHAT", "Turn pipeline failed", map[string]interface{}{
			"conversation_id": conversation.Id,
			"error":           err.Error(),
		})
		replyText = constant.ErrorTurn
	}

	reply := entity.Turn{Text: replyText, IsUser: false, CreatedAt: time.Now()}
	conversation.AppendTurn(reply)
	cs.publishTurn(conversation, reply)

	sentDTO := toTurnDTO(sent)
	replyDTO := toTurnDTO(reply)
	return &dto.SubmitTurnResponse{
		ConversationId: conversation.Id,
		Sent:           &sentDTO,
		Reply:          &replyDTO,
		Turns:          toTurnDTOs(conversation.Turns()),
	}, nil
}

// sendMessage runs one full turn against the inference collaborator: lazy
// thread, document enrichment, run, poll, fetch, reformat.
func (cs *chatService) sendMessage(ctx context.Context, conversation *entity.Conversation, message string, attachedDocumentIds []string) (string, error) {
	threadId := conversation.ThreadId()
	if threadId == "" {
		created, err := cs.provider.CreateConversation(ctx)
		if err != nil {
			return "", &SessionCreationError{Err: err}
		}
		conversation.SetThreadId(created)
		threadId = conversation.ThreadId()
	}

	content := cs.enrich(ctx, conversation.UserId, message, attachedDocumentIds)

	if err := cs.provider.AppendUserMessage(ctx, threadId, content); err != nil {
		return "", fmt.Errorf("append user message: %w", err)
	}

	assistantId := cs.cfg.AssistantIDs[conversation.AssistantKey]
	jobId, err := cs.provider.StartJob(ctx, threadId, assistantId)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}

	status, err := cs.pollJob(ctx, threadId, jobId)
	if err != nil {
		return "", err
	}
	if status != assistant.JobStatusCompleted {
		return "", &RunFailedError{Status: status}
	}

	text, ok, err := cs.provider.LatestMessageText(ctx, threadId)
	if err != nil {
		return "", fmt.Errorf("fetch reply: %w", err)
	}
	if !ok {
		return constant.NoTextResponse, nil
	}

	return markdown.Reformat(text), nil
}

// enrich inlines the selected documents' text after the user's message, in
// selection order. Unresolvable ids are skipped without comment.
func (cs *chatService) enrich(ctx context.Context, userId uuid.UUID, message string, attachedDocumentIds []string) string {
	var sb strings.Builder
	sb.WriteString(message)

	for _, id := range attachedDocumentIds {
		text, ok := cs.documentService.ResolveText(ctx, userId, id)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(constant.DocumentBlockHeader, id))
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	sb.WriteString(constant.FormattingDirective)
	return sb.String()
}

// pollJob waits for the run to leave its pending states, bounded by the
// configured wall-clock ceiling and the caller's ctx.
func (cs *chatService) pollJob(ctx context.Context, threadId, jobId string) (assistant.JobStatus, error) {
	started := time.Now()
	deadline := started.Add(cs.cfg.PollTimeout)

	ticker := time.NewTicker(cs.cfg.PollInterval)
	defer ticker.Stop()

	for {
		status, err := cs.provider.JobStatus(ctx, threadId, jobId)
		if err != nil {
			return "", fmt.Errorf("poll run: %w", err)
		}
		if !status.Pending() {
			return status, nil
		}
		if time.Now().After(deadline) {
			return "", &RunTimeoutError{Elapsed: time.Since(started)}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (cs *chatService) publishTurn(conversation *entity.Conversation, turn entity.Turn) {
	if cs.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.TurnCompletedMessage{
		ConversationId: conversation.Id,
		UserId:         conversation.UserId,
		Turn:           toTurnDTO(turn),
	})
	if err != nil {
		return
	}
	if err := cs.publisher.Publish(context.Background(), payload); err != nil {
		cs.logger.Warn("CHAT", "Failed to publish turn event", map[string]interface{}{
			"conversation_id": conversation.Id,
			"error":           err.Error(),
		})
	}
}

func (cs *chatService) findOwned(userId uuid.UUID, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, found := cs.conversationRepo.Get(conversationId.String())
	if !found || conversation.UserId != userId {
		return nil, serverutils.NewHTTPError(fiber.StatusNotFound, "conversation not found")
	}
	return conversation, nil
}

func toTurnDTO(turn entity.Turn) dto.TurnDTO {
	return dto.TurnDTO{
		Text:      turn.Text,
		IsUser:    turn.IsUser,
		CreatedAt: turn.CreatedAt,
	}
}

func toTurnDTOs(turns []entity.Turn) []dto.TurnDTO {
	out := make([]dto.TurnDTO, len(turns))
	for i, turn := range turns {
		out[i] = toTurnDTO(turn)
	}
	return out
}
