// Package chat holds the conversation: the ordered message sequence and the
// controller that drives one request/response turn at a time.
package chat

import (
	"sync"

	"github.com/diogo/webhookchat/internal/models"
)

// Store is the ordered, in-memory message sequence of one session.
// Order is insertion order; messages are only appended, removed or replaced.
type Store struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Append adds msg to the end of the sequence
func (s *Store) Append(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// RemoveByID removes the first message with id and reports whether one was found
func (s *Store) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Store) removeLocked(id string) bool {
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Replace removes the message with id and appends msg at the current end.
// The replacement does not take the old message's position.
func (s *Store) Replace(id string, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	s.messages = append(s.messages, msg)
}

// Get returns the message with id
func (s *Store) Get(id string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}

// Messages returns a snapshot of the sequence
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message from sender
func (s *Store) Last(sender models.Sender) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == sender {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// LastWithAudio returns the most recent bot message that carries a clip
func (s *Store) LastWithAudio() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].HasAudio() {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}
