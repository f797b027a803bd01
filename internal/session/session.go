// Package session maps opaque tokens to the login a client identified with.
// There is no authentication: a session only carries the user identity.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"arbeitszeit/internal/models"
)

var (
	ErrEmptyLogin = errors.New("login must not be empty")
	ErrNotFound   = errors.New("session not found")
)

// Store keeps sessions.
type Store interface {
	Create(ctx context.Context, login string) (*models.Session, error)
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

func newSession(login string) (*models.Session, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, ErrEmptyLogin
	}
	return &models.Session{
		Token:     uuid.NewString(),
		Login:     login,
		CreatedAt: time.Now(),
	}, nil
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]*models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]*models.Session)}
}

func (s *MemoryStore) Create(_ context.Context, login string) (*models.Session, error) {
	sess, err := newSession(login)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.Token] = sess
	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
	return nil
}
