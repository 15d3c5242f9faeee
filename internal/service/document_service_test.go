package service

import (
	"context"
	"errors"
	"testing"

	"strategy-buddy-be/internal/constant"
	"strategy-buddy-be/internal/dto"
	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/pkg/serverutils"
	"strategy-buddy-be/internal/repository/memory"
	"strategy-buddy-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore scripts the storage collaborator.
type fakeStore struct {
	files   []storage.File
	listErr error

	uploadErr error
	removeErr error

	removed []string
}

func (f *fakeStore) ListPredefined() ([]storage.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeStore) GetPublicURL(locator string) string {
	if locator == "" {
		return ""
	}
	return "https://cdn.example.com/" + locator
}

func (f *fakeStore) Upload(path string, data []byte, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.GetPublicURL(path), nil
}

func (f *fakeStore) Remove(path string) error {
	f.removed = append(f.removed, path)
	return f.removeErr
}

func newTestDocumentService(store storage.Store) (IDocumentService, *memory.DocumentRepository, *memory.ConversationRepository) {
	documentRepo := memory.NewDocumentRepository()
	conversationRepo := memory.NewConversationRepository()
	svc := NewDocumentService(store, documentRepo, conversationRepo, nopLogger{})
	return svc, documentRepo, conversationRepo
}

func TestListDocumentsMergesCatalog(t *testing.T) {
	store := &fakeStore{files: []storage.File{
		{Name: "market-analysis-report.pdf", Locator: "predefined/market-analysis-report.pdf"},
	}}
	svc, _, _ := newTestDocumentService(store)

	res, err := svc.ListDocuments(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, res.Predefined, len(constant.PredefinedCatalog))
	assert.Equal(t, "Market Analysis Report", res.Predefined[0].DisplayName)
	assert.Equal(t, "https://cdn.example.com/predefined/market-analysis-report.pdf", res.Predefined[0].URL)
	// Entries missing from storage still render from the catalog, without URL.
	assert.Empty(t, res.Predefined[1].URL)
	assert.Empty(t, res.Uploaded)
}

func TestListDocumentsDegradesWhenListingFails(t *testing.T) {
	store := &fakeStore{listErr: errors.New("bucket unreachable")}
	svc, _, _ := newTestDocumentService(store)

	res, err := svc.ListDocuments(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, res.Predefined, len(constant.PredefinedCatalog))
	for _, doc := range res.Predefined {
		assert.Empty(t, doc.URL)
	}
}

func TestUploadRejectsNonPdf(t *testing.T) {
	svc, _, _ := newTestDocumentService(&fakeStore{})

	_, err := svc.Upload(context.Background(), uuid.New(), "notes.txt", []byte("hello"))
	var httpErr *serverutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestUploadRecordsDocumentPerUser(t *testing.T) {
	svc, repo, _ := newTestDocumentService(&fakeStore{})
	userId := uuid.New()

	res, err := svc.Upload(context.Background(), userId, "quarterly_results.pdf", []byte("%PDF-garbage"))
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Results", res.Document.DisplayName)
	assert.Equal(t, string(entity.DocumentSourceUploaded), res.Document.SourceKind)

	stored, found := repo.Get(userId.String(), res.Document.Id)
	require.True(t, found)
	// Garbage bytes still yield the embedded error string, never a failure.
	assert.Contains(t, stored.ExtractedText, "Error extracting text:")

	// Another user's listing stays empty.
	other, err := svc.ListDocuments(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other.Uploaded)
}

func TestDeleteDropsRecordEvenWhenStorageFails(t *testing.T) {
	store := &fakeStore{removeErr: errors.New("object locked")}
	svc, repo, _ := newTestDocumentService(store)
	userId := uuid.New()

	res, err := svc.Upload(context.Background(), userId, "plan.pdf", []byte("%PDF-garbage"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userId, res.Document.Id))
	_, found := repo.Get(userId.String(), res.Document.Id)
	assert.False(t, found)
	assert.Len(t, store.removed, 1)
}

func TestSelectDeselectRoundTrip(t *testing.T) {
	svc, _, conversationRepo := newTestDocumentService(&fakeStore{})
	userId := uuid.New()

	conversation := entity.NewConversation(userId, "default", constant.GreetingTurn)
	conversationRepo.Save(conversation)

	req := func(docId string) *dto.SelectDocumentRequest {
		return &dto.SelectDocumentRequest{ConversationId: conversation.Id, DocumentId: docId}
	}

	res, err := svc.Select(context.Background(), userId, req("1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, res.SelectedIds)

	res, err = svc.Select(context.Background(), userId, req("2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, res.SelectedIds)

	// Selecting twice is idempotent.
	res, err = svc.Select(context.Background(), userId, req("1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, res.SelectedIds)

	// Deselect restores the prior list.
	res, err = svc.Deselect(context.Background(), userId, req("2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, res.SelectedIds)

	// Deselecting an absent id is a no-op.
	res, err = svc.Deselect(context.Background(), userId, req("99"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, res.SelectedIds)
}

func TestResolveTextPrefersUploads(t *testing.T) {
	svc, repo, _ := newTestDocumentService(&fakeStore{})
	userId := uuid.New()

	repo.Save(userId.String(), &entity.AttachableDocument{
		Id:            "up-1",
		SourceKind:    entity.DocumentSourceUploaded,
		ExtractedText: "uploaded content",
	})

	text, ok := svc.ResolveText(context.Background(), userId, "up-1")
	require.True(t, ok)
	assert.Equal(t, "uploaded content", text)
}

func TestResolveTextFallsBackToCatalog(t *testing.T) {
	// Storage yields no usable URL, so resolution lands on the built-in text.
	store := &fakeStore{}
	documentRepo := memory.NewDocumentRepository()
	conversationRepo := memory.NewConversationRepository()
	svc := NewDocumentService(&noURLStore{store}, documentRepo, conversationRepo, nopLogger{})

	text, ok := svc.ResolveText(context.Background(), uuid.New(), constant.PredefinedCatalog[0].ID)
	require.True(t, ok)
	assert.Equal(t, constant.PredefinedCatalog[0].FallbackText, text)

	_, ok = svc.ResolveText(context.Background(), uuid.New(), "no-such-id")
	assert.False(t, ok)
}

// noURLStore hides public URLs so predefined fetches cannot happen.
type noURLStore struct {
	*fakeStore
}

func (n *noURLStore) GetPublicURL(locator string) string { return "" }
