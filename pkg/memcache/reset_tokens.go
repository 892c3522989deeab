package mem

import (
	"sync"
	"time"
)

// ResetTokenStore keeps single-use password reset codes in memory.
type ResetTokenStore interface {
	Set(token string, accountEmail string, ttl time.Duration)

	// Consume returns the email stored for token and removes the token.
	// It returns "" when the token is missing or expired.
	Consume(token string) string

	Peek(token string) (string, bool)
}

type entry struct {
	email     string
	expiresAt time.Time
}

type ResetTokens struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewResetTokens() *ResetTokens {
	return &ResetTokens{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Set stores token for accountEmail. Earlier tokens issued to the same email
// are dropped so only the latest code works.
func (s *ResetTokens) Set(token string, accountEmail string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.data {
		if e.email == accountEmail || now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
	s.data[token] = entry{
		email:     accountEmail,
		expiresAt: now.Add(ttl),
	}
}

func (s *ResetTokens) Consume(token string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[token]
	if !ok {
		return ""
	}
	delete(s.data, token)
	if s.now().After(e.expiresAt) {
		return ""
	}
	return e.email
}

func (s *ResetTokens) Peek(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[token]
	if !ok || s.now().After(e.expiresAt) {
		return "", false
	}
	return e.email, true
}
