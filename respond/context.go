package respond

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Turn is one inquiry/response exchange in a session.
type Turn struct {
	Inquiry   string
	Response  string
	Timestamp time.Time
	Metadata  map[string]string
}

// Conversation is the bounded per-session history feeding topic frequency and
// generation context. The history keeps at most maxTurns turns, oldest
// evicted first.
type Conversation struct {
	SessionID string

	mu             sync.Mutex
	maxTurns       int
	history        []Turn
	topicFrequency map[string]int
}

func newConversation(sessionID string, maxTurns int) *Conversation {
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &Conversation{
		SessionID:      sessionID,
		maxTurns:       maxTurns,
		topicFrequency: make(map[string]int),
	}
}

// AddTurn appends an exchange, evicting the oldest turn beyond the bound.
func (c *Conversation) AddTurn(inquiry, response string, metadata map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, Turn{
		Inquiry:   inquiry,
		Response:  response,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	if len(c.history) > c.maxTurns {
		c.history = c.history[len(c.history)-c.maxTurns:]
	}
}

// RecordTopic bumps the frequency counter for a topic label.
func (c *Conversation) RecordTopic(topic string) {
	if topic == "" {
		return
	}
	c.mu.Lock()
	c.topicFrequency[topic]++
	c.mu.Unlock()
}

// History returns a copy of the retained turns, oldest first.
func (c *Conversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Conversation) HasHistory() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history) > 0
}

// TopicFrequency returns a copy of the per-topic counters.
func (c *Conversation) TopicFrequency() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.topicFrequency))
	for k, v := range c.topicFrequency {
		out[k] = v
	}
	return out
}

// ContextStore holds per-session conversations. The store itself is bounded
// by an LRU so long-running processes do not accumulate sessions forever;
// the history inside each conversation stays bounded separately.
type ContextStore struct {
	sessions *lru.Cache
	maxTurns int
}

func NewContextStore(size, maxTurns int) (*ContextStore, error) {
	sessions, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ContextStore{sessions: sessions, maxTurns: maxTurns}, nil
}

// Get returns the conversation for the session, creating it lazily on first
// interaction.
func (s *ContextStore) Get(sessionID string) *Conversation {
	if v, ok := s.sessions.Get(sessionID); ok {
		return v.(*Conversation)
	}
	conv := newConversation(sessionID, s.maxTurns)
	// A racing creator may have added one in between; prefer the stored copy.
	if existing, ok, _ := s.sessions.PeekOrAdd(sessionID, conv); ok {
		return existing.(*Conversation)
	}
	return conv
}

// Len returns the number of live sessions.
func (s *ContextStore) Len() int {
	return s.sessions.Len()
}
