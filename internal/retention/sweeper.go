package retention

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/metrics"
	"github.com/CodeXGautam/Vocintera/internal/models"
)

// KeepLast is the retention window: sessions kept per candidate, newest
// first by creation time.
const KeepLast = 5

// Store is the persistence surface the sweeper needs.
type Store interface {
	ListByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Interview, error)
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	Owners(ctx context.Context) ([]primitive.ObjectID, error)
}

// Sweeper enforces the keep-last-N policy. It is best-effort: failures are
// logged and never surfaced to the request that triggered the sweep.
// Repeated or concurrent calls are safe; deleting an already deleted
// session is a no-op.
type Sweeper struct {
	store  Store
	logger *zap.Logger
}

func NewSweeper(store Store, logger *zap.Logger) *Sweeper {
	return &Sweeper{store: store, logger: logger}
}

// Enforce deletes every session beyond the candidate's retention window.
func (s *Sweeper) Enforce(ctx context.Context, owner primitive.ObjectID) {
	sessions, err := s.store.ListByOwner(ctx, owner, 0)
	if err != nil {
		s.logger.Warn("retention sweep: list failed",
			zap.String("owner", owner.Hex()), zap.Error(err))
		return
	}

	if len(sessions) <= KeepLast {
		return
	}

	// sessions arrive newest first; everything past the window goes
	ids := make([]primitive.ObjectID, 0, len(sessions)-KeepLast)
	for _, session := range sessions[KeepLast:] {
		ids = append(ids, session.ID)
	}

	deleted, err := s.store.DeleteByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("retention sweep: delete failed",
			zap.String("owner", owner.Hex()), zap.Error(err))
		return
	}

	metrics.SessionsSwept.Add(float64(deleted))
	s.logger.Info("retention sweep completed",
		zap.String("owner", owner.Hex()),
		zap.Int64("deleted", deleted))
}

// EnforceAll sweeps every candidate that owns at least one session.
func (s *Sweeper) EnforceAll(ctx context.Context) {
	owners, err := s.store.Owners(ctx)
	if err != nil {
		s.logger.Warn("retention sweep: owners lookup failed", zap.Error(err))
		return
	}
	for _, owner := range owners {
		s.Enforce(ctx, owner)
	}
}
