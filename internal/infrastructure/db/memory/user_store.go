package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// UserStore keeps accounts in memory, indexed by id and by normalized email.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

var _ ports.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return nil, domain.ErrUserExists
	}

	stored := user.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, taken := s.byID[stored.ID]; taken {
		return nil, domain.ErrUserExists
	}
	stored.Email = email

	s.byID[stored.ID] = stored
	s.byEmail[email] = stored.ID
	return stored.Clone(), nil
}

func (s *UserStore) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	email := domain.NormalizeEmail(user.Email)
	if owner, taken := s.byEmail[email]; taken && owner != user.ID {
		return nil, domain.ErrUserExists
	}

	stored := user.Clone()
	stored.Email = email
	stored.CreatedAt = current.CreatedAt

	delete(s.byEmail, current.Email)
	s.byID[stored.ID] = stored
	s.byEmail[email] = stored.ID
	return stored.Clone(), nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.byID, id)
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	out := make([]*domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *domain.User) int { return strings.Compare(a.Email, b.Email) })
	return out, nil
}
