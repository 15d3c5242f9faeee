package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"strategy-buddy-be/internal/constant"
	"strategy-buddy-be/internal/dto"
	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/pkg/logger"
	"strategy-buddy-be/internal/pkg/serverutils"
	"strategy-buddy-be/internal/repository/memory"
	"strategy-buddy-be/pkg/pdfextract"
	"strategy-buddy-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentService interface {
	ListDocuments(ctx context.Context, userId uuid.UUID) (*dto.ListDocumentsResponse, error)
	Upload(ctx context.Context, userId uuid.UUID, filename string, data []byte) (*dto.UploadDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, documentId string) error
	Select(ctx context.Context, userId uuid.UUID, request *dto.SelectDocumentRequest) (*dto.SelectionResponse, error)
	Deselect(ctx context.Context, userId uuid.UUID, request *dto.SelectDocumentRequest) (*dto.SelectionResponse, error)

	// ResolveText finds the inlineable text for a selected document id:
	// session uploads first, then the predefined catalog. ok is false when the
	// id resolves to nothing.
	ResolveText(ctx context.Context, userId uuid.UUID, documentId string) (string, bool)
}

type documentService struct {
	store            storage.Store
	documentRepo     *memory.DocumentRepository
	conversationRepo *memory.ConversationRepository
	httpClient       *http.Client
	logger           logger.ILogger
}

func NewDocumentService(
	store storage.Store,
	documentRepo *memory.DocumentRepository,
	conversationRepo *memory.ConversationRepository,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		store:            store,
		documentRepo:     documentRepo,
		conversationRepo: conversationRepo,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		logger:           log,
	}
}

// ListDocuments merges the storage listing with the built-in catalog. A
// failed listing degrades to the catalog entries alone; the selection panel
// must render even when storage is down.
func (ds *documentService) ListDocuments(ctx context.Context, userId uuid.UUID) (*dto.ListDocumentsResponse, error) {
	files, err := ds.store.ListPredefined()
	if err != nil {
		ds.logger.Warn("DOCUMENT", "Predefined listing failed, serving catalog only", map[string]interface{}{
			"error": err.Error(),
		})
		files = nil
	}

	byLocator := make(map[string]storage.File, len(files))
	for _, f := range files {
		byLocator[f.Name] = f
	}

	predefined := make([]dto.DocumentResponse, 0, len(constant.PredefinedCatalog))
	for _, cat := range constant.PredefinedCatalog {
		doc := dto.DocumentResponse{
			Id:          cat.ID,
			DisplayName: cat.DisplayName,
			Icon:        cat.Icon,
			SourceKind:  string(entity.DocumentSourcePredefined),
		}
		if f, ok := byLocator[cat.Locator]; ok {
			doc.DisplayName = storage.DisplayName(f.Name)
			doc.URL = ds.store.GetPublicURL(f.Locator)
		}
		predefined = append(predefined, doc)
	}

	uploads := ds.documentRepo.ListByUser(userId.String())
	uploaded := make([]dto.DocumentResponse, 0, len(uploads))
	for _, u := range uploads {
		uploaded = append(uploaded, dto.DocumentResponse{
			Id:          u.Id,
			DisplayName: u.DisplayName,
			Icon:        u.Icon,
			SourceKind:  string(u.SourceKind),
			URL:         u.URL,
			UploadedAt:  u.UploadedAt,
		})
	}

	return &dto.ListDocumentsResponse{
		Predefined: predefined,
		Uploaded:   uploaded,
	}, nil
}

func (ds *documentService) Upload(ctx context.Context, userId uuid.UUID, filename string, data []byte) (*dto.UploadDocumentResponse, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext != "pdf" {
		return nil, serverutils.NewHTTPError(fiber.StatusBadRequest, "only PDF files are supported")
	}

	path := fmt.Sprintf("pdfs/%s.%s", uuid.New(), ext)
	url, err := ds.store.Upload(path, data, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	document := &entity.AttachableDocument{
		Id:            uuid.New().String(),
		DisplayName:   storage.DisplayName(filename),
		Icon:          "📄",
		SourceKind:    entity.DocumentSourceUploaded,
		Locator:       path,
		URL:           url,
		ExtractedText: pdfextract.Extract(data),
		UploadedAt:    time.Now(),
	}
	ds.documentRepo.Save(userId.String(), document)

	ds.logger.Info("DOCUMENT", "Document uploaded", map[string]interface{}{
		"document_id": document.Id,
		"locator":     path,
	})

	return &dto.UploadDocumentResponse{
		Document: dto.DocumentResponse{
			Id:          document.Id,
			DisplayName: document.DisplayName,
			Icon:        document.Icon,
			SourceKind:  string(document.SourceKind),
			URL:         document.URL,
			UploadedAt:  document.UploadedAt,
		},
	}, nil
}

// Delete removes the stored object best-effort; the memory record goes away
// regardless so the panel never shows an undeletable entry.
func (ds *documentService) Delete(ctx context.Context, userId uuid.UUID, documentId string) error {
	document, found := ds.documentRepo.Get(userId.String(), documentId)
	if !found {
		return serverutils.NewHTTPError(fiber.StatusNotFound, "document not found")
	}

	if err := ds.store.Remove(document.Locator); err != nil {
		ds.logger.Warn("DOCUMENT", "Storage remove failed", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
	}
	ds.documentRepo.Delete(userId.String(), documentId)
	return nil
}

func (ds *documentService) Select(ctx context.Context, userId uuid.UUID, request *dto.SelectDocumentRequest) (*dto.SelectionResponse, error) {
	conversation, err := ds.findOwnedConversation(userId, request.ConversationId.String())
	if err != nil {
		return nil, err
	}
	selected := conversation.SelectDocument(request.DocumentId)
	return &dto.SelectionResponse{
		ConversationId: conversation.Id,
		SelectedIds:    selected,
	}, nil
}

func (ds *documentService) Deselect(ctx context.Context, userId uuid.UUID, request *dto.SelectDocumentRequest) (*dto.SelectionResponse, error) {
	conversation, err := ds.findOwnedConversation(userId, request.ConversationId.String())
	if err != nil {
		return nil, err
	}
	selected := conversation.DeselectDocument(request.DocumentId)
	return &dto.SelectionResponse{
		ConversationId: conversation.Id,
		SelectedIds:    selected,
	}, nil
}

func (ds *documentService) ResolveText(ctx context.Context, userId uuid.UUID, documentId string) (string, bool) {
	if document, found := ds.documentRepo.Get(userId.String(), documentId); found {
		return document.ExtractedText, true
	}

	for _, cat := range constant.PredefinedCatalog {
		if cat.ID != documentId {
			continue
		}
		if text, ok := ds.fetchAndExtract(ctx, cat.Locator); ok {
			return text, true
		}
		return cat.FallbackText, true
	}

	return "", false
}

// fetchAndExtract pulls a predefined PDF through its public URL and runs
// extraction. Any failure falls back to the catalog's built-in text.
func (ds *documentService) fetchAndExtract(ctx context.Context, locator string) (string, bool) {
	url := ds.store.GetPublicURL(locator)
	if url == "" {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	res, err := ds.httpClient.Do(req)
	if err != nil {
		ds.logger.Warn("DOCUMENT", "Predefined fetch failed", map[string]interface{}{
			"locator": locator,
			"error":   err.Error(),
		})
		return "", false
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", false
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", false
	}
	text := pdfextract.Extract(data)
	if strings.HasPrefix(text, "Error extracting text:") {
		return "", false
	}
	return text, true
}

func (ds *documentService) findOwnedConversation(userId uuid.UUID, conversationId string) (*entity.Conversation, error) {
	conversation, found := ds.conversationRepo.Get(conversationId)
	if !found || conversation.UserId != userId {
		return nil, serverutils.NewHTTPError(fiber.StatusNotFound, "conversation not found")
	}
	return conversation, nil
}
