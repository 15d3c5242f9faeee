package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Icon        string    `json:"icon"`
	SourceKind  string    `json:"source_kind"`
	URL         string    `json:"url,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at,omitempty"`
}

type ListDocumentsResponse struct {
	Predefined []DocumentResponse `json:"predefined"`
	Uploaded   []DocumentResponse `json:"uploaded"`
}

type UploadDocumentResponse struct {
	Document DocumentResponse `json:"document"`
}

type SelectDocumentRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	DocumentId     string    `json:"document_id" validate:"required"`
}

type SelectionResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	SelectedIds    []string  `json:"selected_ids"`
}
