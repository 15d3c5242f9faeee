package memory

import (
	"time"

	"strategy-buddy-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository() *ConversationRepository {
	// Conversations live for the session. Idle ones are evicted after a day,
	// expired items purged every hour.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) Save(conversation *entity.Conversation) {
	r.cache.Set(conversation.Id.String(), conversation, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(conversationId string) (*entity.Conversation, bool) {
	if x, found := r.cache.Get(conversationId); found {
		return x.(*entity.Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(conversationId string) {
	r.cache.Delete(conversationId)
}
