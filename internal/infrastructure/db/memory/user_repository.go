package memory

import (
	"context"
	"sync"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrEmailTaken
	}
	u := *user
	u.ID = newID()
	r.users[u.ID] = &u
	r.byEmail[u.Email] = u.ID

	out := u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *r.users[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *stored
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil && *patch.Email != stored.Email {
		if _, taken := r.byEmail[*patch.Email]; taken {
			return nil, domain.ErrEmailTaken
		}
		delete(r.byEmail, stored.Email)
		stored.Email = *patch.Email
		r.byEmail[stored.Email] = id
	}
	if patch.Name != nil {
		stored.Name = *patch.Name
	}
	if patch.Bio != nil {
		stored.Bio = *patch.Bio
	}
	if patch.ProfileImage != nil {
		stored.ProfileImage = *patch.ProfileImage
	}
	stored.UpdatedAt = now()

	u := *stored
	return &u, nil
}

func (r *UserRepository) ListIDs(_ context.Context, exclude string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
