package memory

import (
	"sort"
	"strings"
	"time"

	"strategy-buddy-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// DocumentRepository holds session uploads, keyed per user so one user's
// uploads never leak into another's listing.
type DocumentRepository struct {
	cache *cache.Cache
}

func NewDocumentRepository() *DocumentRepository {
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &DocumentRepository{
		cache: c,
	}
}

func (r *DocumentRepository) key(userId, documentId string) string {
	return userId + ":" + documentId
}

func (r *DocumentRepository) Save(userId string, document *entity.AttachableDocument) {
	r.cache.Set(r.key(userId, document.Id), document, cache.DefaultExpiration)
}

func (r *DocumentRepository) Get(userId, documentId string) (*entity.AttachableDocument, bool) {
	if x, found := r.cache.Get(r.key(userId, documentId)); found {
		return x.(*entity.AttachableDocument), true
	}
	return nil, false
}

func (r *DocumentRepository) Delete(userId, documentId string) {
	r.cache.Delete(r.key(userId, documentId))
}

// ListByUser returns the user's uploads ordered by upload time.
func (r *DocumentRepository) ListByUser(userId string) []*entity.AttachableDocument {
	prefix := userId + ":"
	var docs []*entity.AttachableDocument
	for k, item := range r.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			docs = append(docs, item.Object.(*entity.AttachableDocument))
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs
}
