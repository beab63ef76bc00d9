package tokenrepo

import (
	"context"
	"sync"

	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/tokenrepo"
)

// Repo is an in-memory implementation of tokenrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byHash map[string]tokenrepo.Token
}

func NewRepo() *Repo {
	return &Repo{byHash: make(map[string]tokenrepo.Token)}
}

func (r *Repo) Create(ctx context.Context, t tokenrepo.Token) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byHash[t.TokenHash]; ok {
		return tokenrepo.ErrAlreadyExists
	}
	r.byHash[t.TokenHash] = t
	return nil
}

func (r *Repo) GetByHash(ctx context.Context, hash string) (tokenrepo.Token, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byHash[hash]
	if !ok {
		return tokenrepo.Token{}, tokenrepo.ErrNotFound
	}
	return t, nil
}

func (r *Repo) DeleteByHash(ctx context.Context, hash string) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byHash[hash]; !ok {
		return false, nil
	}
	delete(r.byHash, hash)
	return true, nil
}
