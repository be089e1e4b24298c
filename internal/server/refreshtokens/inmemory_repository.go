package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mbaumgart/identity-server/internal/common"
)

// InMemoryRepository is a mutex-guarded map implementation used in tests and
// in the in-memory repository manager. It mirrors the semantics of the
// Postgres implementation, including the active-only lookup.
type InMemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{tokens: make(map[string]*RefreshToken)}
}

func (r *InMemoryRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[token]; exists {
		return common.ErrDuplicateToken
	}

	now := time.Now()
	r.tokens[token] = &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		Expires:   now.Add(validity),
		CreatedAt: now,
	}

	return nil
}

func (r *InMemoryRepository) FindActive(ctx context.Context, token string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tokens[token]
	if !ok || rec.Revoked || !rec.Expires.After(time.Now()) {
		return nil, common.ErrorNotFound
	}

	copy := *rec
	return &copy, nil
}

func (r *InMemoryRepository) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.tokens[token]; ok {
		rec.Revoked = true
	}

	return nil
}

func (r *InMemoryRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.tokens {
		if rec.UserID == userID {
			rec.Revoked = true
		}
	}

	return nil
}

func (r *InMemoryRepository) PurgeExpiredOrRevoked(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	now := time.Now()
	for token, rec := range r.tokens {
		if rec.Revoked || !rec.Expires.After(now) {
			delete(r.tokens, token)
			count++
		}
	}

	return count, nil
}

// Len reports the number of stored records, active or not. Test helper.
func (r *InMemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
