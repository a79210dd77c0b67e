package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore usuarios en memoria. Username y email son únicos (email sin distinguir mayúsculas).
type UserStore struct {
	mu    sync.RWMutex
	byID  map[string]entity.User
	names map[string]string // username -> id
	mails map[string]string // email normalizado -> id
}

// NewUserStore construye un store vacío.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:  make(map[string]entity.User),
		names: make(map[string]string),
		mails: make(map[string]string),
	}
}

// Create persiste el usuario. ErrUsernameTaken / ErrEmailTaken si colisiona.
func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	mail := strings.ToLower(user.Email)
	if _, ok := s.mails[mail]; ok {
		return domain.ErrEmailTaken
	}
	s.byID[user.ID] = *user
	s.names[user.Username] = user.ID
	s.mails[mail] = user.ID
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	id, ok := s.names[username]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[username]
	return ok, nil
}

func (s *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mails[strings.ToLower(email)]
	return ok, nil
}
