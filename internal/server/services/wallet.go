package services

import (
	"context"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/logging"
	"github.com/mlukyanov/userd/internal/server/repositories/users"
)

// WalletService exposes the atomic balance-adjustment primitive used by the
// payment services.
type WalletService struct {
	repo   users.Repository
	logger logging.Logger
}

func NewWalletService(repo users.Repository, l logging.Logger) *WalletService {
	return &WalletService{repo: repo, logger: l.With("module", "wallet")}
}

// AdjustWallet applies a signed delta as a single store-level increment, so
// concurrent adjustments compose as a sum. The balance may go negative:
// bounds, if any, are the calling service's policy. Store failures of any
// kind are re-signaled as ErrInternal without store detail.
func (s *WalletService) AdjustWallet(ctx context.Context, accountID string, delta int64) error {
	if err := s.repo.AdjustWallet(ctx, accountID, delta); err != nil {
		s.logger.Error(ctx, "wallet adjustment failed", "account_id", accountID, "error", err.Error())
		return common.ErrInternal
	}
	return nil
}
