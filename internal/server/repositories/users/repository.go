package users

import (
	"context"
	"time"

	"github.com/mlukyanov/userd/internal/server/models"
)

// Patch carries the optional fields of a partial account update. Nil means
// "leave unchanged". UpdatedAt is always written.
type Patch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Avatar       *string
	Twitter      *string
	UpdatedAt    time.Time
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGitID(ctx context.Context, gitID string) (*models.User, error)
	Update(ctx context.Context, id string, patch *Patch) (*models.User, error)

	// AdjustWallet applies the delta as a single store-level increment so
	// concurrent adjustments compose as a sum.
	AdjustWallet(ctx context.Context, id string, delta int64) error
}
