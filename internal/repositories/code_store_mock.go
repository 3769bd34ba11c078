package repositories

import (
	"context"
	"sync"
	"time"

	"mall/internal/apperrors"
)

type storedCode struct {
	hash     string
	expireAt time.Time
}

// MockCodeStore is an in-memory implementation of CodeStore.
type MockCodeStore struct {
	mu    sync.Mutex
	codes map[string]storedCode
}

// NewMockCodeStore creates a new instance of MockCodeStore.
func NewMockCodeStore() *MockCodeStore {
	return &MockCodeStore{codes: make(map[string]storedCode)}
}

// Set stores the code hash for the phone with an expiry.
func (s *MockCodeStore) Set(_ context.Context, phone, codeHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[phone] = storedCode{hash: codeHash, expireAt: time.Now().Add(ttl)}
	return nil
}

// Get returns the stored code hash unless it has expired.
func (s *MockCodeStore) Get(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[phone]
	if !ok || time.Now().After(c.expireAt) {
		delete(s.codes, phone)
		return "", apperrors.NotFound("verification code", phone)
	}
	return c.hash, nil
}

// Delete consumes the code.
func (s *MockCodeStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, phone)
	return nil
}
