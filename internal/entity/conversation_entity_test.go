package entity

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewConversationSeedsGreeting(t *testing.T) {
	c := NewConversation(uuid.New(), "default", "hello there")

	turns := c.Turns()
	assert.Len(t, turns, 1)
	assert.Equal(t, "hello there", turns[0].Text)
	assert.False(t, turns[0].IsUser)
}

func TestThreadIdSetOnce(t *testing.T) {
	c := NewConversation(uuid.New(), "default", "hi")

	c.SetThreadId("thread_a")
	c.SetThreadId("thread_b")
	assert.Equal(t, "thread_a", c.ThreadId())
}

func TestBeginTurnSingleWinner(t *testing.T) {
	c := NewConversation(uuid.New(), "default", "hi")

	var wg sync.WaitGroup
	wins := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.BeginTurn() {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
	assert.True(t, c.InFlight())

	c.EndTurn()
	assert.True(t, c.BeginTurn())
}

func TestTurnsReturnsCopy(t *testing.T) {
	c := NewConversation(uuid.New(), "default", "hi")
	turns := c.Turns()
	turns[0].Text = "mutated"

	assert.Equal(t, "hi", c.Turns()[0].Text)
}

func TestSelectionToggle(t *testing.T) {
	c := NewConversation(uuid.New(), "default", "hi")

	assert.Equal(t, []string{"a"}, c.SelectDocument("a"))
	assert.Equal(t, []string{"a", "b"}, c.SelectDocument("b"))
	assert.Equal(t, []string{"a", "b"}, c.SelectDocument("a"))
	assert.Equal(t, []string{"b"}, c.DeselectDocument("a"))
	assert.Equal(t, []string{"b"}, c.DeselectDocument("zzz"))
	assert.Equal(t, []string{}, c.DeselectDocument("b"))
}
