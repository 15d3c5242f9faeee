package websocket

import (
	"testing"
	"time"

	"strategy-buddy-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func registeredClient(t *testing.T, h *Hub, userId uuid.UUID, buffer int) *Client {
	t.Helper()
	client := &Client{Hub: h, UserID: userId, Send: make(chan []byte, buffer)}
	h.register <- client
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.clients[userId]) == 1
	}, time.Second, 5*time.Millisecond)
	return client
}

func turnEvent(userId uuid.UUID) dto.TurnCompletedMessage {
	return dto.TurnCompletedMessage{
		ConversationId: uuid.New(),
		UserId:         userId,
		Turn:           dto.TurnDTO{Text: "done", CreatedAt: time.Now()},
	}
}

func TestSendTurnDelivers(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	userId := uuid.New()
	client := registeredClient(t, h, userId, 4)

	h.SendTurn(turnEvent(userId))

	select {
	case data := <-client.Send:
		assert.Contains(t, string(data), `"type":"turn"`)
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
	}
}

// A hung socket must be dropped, not crash the hub: the unregister path owns
// the channel close, and a second delivery against the same stuck client
// must not close it again.
func TestSendTurnFullBufferDropsClient(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	userId := uuid.New()
	client := registeredClient(t, h, userId, 1)
	client.Send <- []byte("undrained")

	h.SendTurn(turnEvent(userId))
	h.SendTurn(turnEvent(userId))

	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.clients[userId]) == 0
	}, time.Second, 5*time.Millisecond)

	// The hub goroutine survived; a healthy client still gets frames.
	other := uuid.New()
	healthy := registeredClient(t, h, other, 4)
	h.SendTurn(turnEvent(other))

	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("hub stopped delivering after dropping a stuck client")
	}
}
