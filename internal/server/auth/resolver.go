package auth

import (
	"context"
	"errors"
	"time"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/server/models"
	"github.com/mlukyanov/userd/internal/server/repositories/users"
)

// Resolver turns a raw token string into the account it asserts.
type Resolver interface {
	Resolve(ctx context.Context, tokenString string) (*models.User, error)
}

// StoreResolver verifies the token cryptographically and loads the account
// from the user repository. Wrap it in a CachedResolver to avoid repeating
// that work for the same token string.
type StoreResolver struct {
	repo      users.Repository
	jwtSecret []byte
}

func NewStoreResolver(repo users.Repository, secretKey string) *StoreResolver {
	return &StoreResolver{repo: repo, jwtSecret: []byte(secretKey)}
}

func (r *StoreResolver) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	user, _, err := r.ResolveWithExpiry(ctx, tokenString)
	return user, err
}

// ResolveWithExpiry additionally reports the token's own expiry so a caching
// layer can refuse hits for tokens that expired inside the cache window.
func (r *StoreResolver) ResolveWithExpiry(ctx context.Context, tokenString string) (*models.User, time.Time, error) {
	claims, err := ParseToken(tokenString, r.jwtSecret)
	if err != nil {
		return nil, time.Time{}, err
	}

	user, err := r.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, time.Time{}, common.ErrNotFound
		}
		return nil, time.Time{}, common.ErrInternal
	}

	return user, claims.ExpiresAt.Time, nil
}
