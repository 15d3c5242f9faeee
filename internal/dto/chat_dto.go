package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	AssistantKey string `json:"assistant_key,omitempty"`
}

type CreateConversationResponse struct {
	Id           uuid.UUID `json:"id"`
	AssistantKey string    `json:"assistant_key"`
	CreatedAt    time.Time `json:"created_at"`
	Turns        []TurnDTO `json:"turns"`
}

type TurnDTO struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	CreatedAt time.Time `json:"created_at"`
}

type GetTranscriptResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	InFlight       bool      `json:"in_flight"`
	Turns          []TurnDTO `json:"turns"`
}

type SubmitTurnRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Text           string    `json:"text"`
}

// TurnCompletedMessage is the payload fanned out to the websocket hub after
// each completed turn.
type TurnCompletedMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	UserId         uuid.UUID `json:"user_id"`
	Turn           TurnDTO   `json:"turn"`
}

type SubmitTurnResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	Sent           *TurnDTO  `json:"sent,omitempty"`
	Reply          *TurnDTO  `json:"reply,omitempty"`
	Turns          []TurnDTO `json:"turns"`
}
