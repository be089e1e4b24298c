package users

import (
	"context"
	"sync"

	"github.com/mbaumgart/identity-server/internal/common"
)

// InMemoryRepository is a mutex-guarded map implementation used in tests and
// in the in-memory repository manager.
type InMemoryRepository struct {
	mu    sync.Mutex
	users map[string]*User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Put inserts or replaces a user record.
func (r *InMemoryRepository) Put(user *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *user
	copy.Groups = append([]string(nil), user.Groups...)
	r.users[user.ID] = &copy
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	copy := *user
	copy.Groups = append([]string(nil), user.Groups...)
	return &copy, nil
}
