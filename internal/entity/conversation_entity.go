package entity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is one message of the displayed transcript.
type Turn struct {
	Text      string
	IsUser    bool
	CreatedAt time.Time
}

// Conversation owns one logical chat: the transcript, the attachment
// selection, and the lazily created server-side thread handle. Each chat view
// gets its own Conversation, so independent views never share a handle.
type Conversation struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	AssistantKey string
	CreatedAt    time.Time

	mu          sync.Mutex
	threadId    string
	turns       []Turn
	selectedIds []string
	inFlight    bool
}

func NewConversation(userId uuid.UUID, assistantKey, greeting string) *Conversation {
	now := time.Now()
	return &Conversation{
		Id:           uuid.New(),
		UserId:       userId,
		AssistantKey: assistantKey,
		CreatedAt:    now,
		turns: []Turn{
			{Text: greeting, IsUser: false, CreatedAt: now},
		},
	}
}

// ThreadId returns the cached server-side handle, empty until the first turn.
func (c *Conversation) ThreadId() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threadId
}

// SetThreadId caches the handle; once set it is never replaced.
func (c *Conversation) SetThreadId(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.threadId == "" {
		c.threadId = id
	}
}

// BeginTurn marks the conversation busy. Returns false when a turn is already
// in flight; the submission invariant is at most one outstanding turn.
func (c *Conversation) BeginTurn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return false
	}
	c.inFlight = true
	return true
}

func (c *Conversation) EndTurn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
}

func (c *Conversation) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// AppendTurn adds to the transcript. Append-only, insertion order is display
// order.
func (c *Conversation) AppendTurn(turn Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turn)
}

func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// SelectDocument adds id to the attachment set (no-op when already selected)
// and returns the full selected-id list in selection order.
func (c *Conversation) SelectDocument(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.selectedIds {
		if existing == id {
			return c.selectedSnapshot()
		}
	}
	c.selectedIds = append(c.selectedIds, id)
	return c.selectedSnapshot()
}

// DeselectDocument removes id from the attachment set, restoring the prior
// list order for the remaining ids.
func (c *Conversation) DeselectDocument(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.selectedIds {
		if existing == id {
			c.selectedIds = append(c.selectedIds[:i], c.selectedIds[i+1:]...)
			break
		}
	}
	return c.selectedSnapshot()
}

func (c *Conversation) SelectedDocumentIds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedSnapshot()
}

// caller must hold mu
func (c *Conversation) selectedSnapshot() []string {
	out := make([]string, len(c.selectedIds))
	copy(out, c.selectedIds)
	return out
}
