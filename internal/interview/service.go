package interview

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/retention"
)

// listLimit caps the session list returned to the client; it matches the
// retention window so the client never sees sessions about to be swept.
const listLimit = retention.KeepLast

// LifecycleStore is the persistence surface for session creation and reads.
type LifecycleStore interface {
	Create(ctx context.Context, session *models.Interview) (*models.Interview, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Interview, error)
}

// Service handles session creation and read operations for a candidate.
type Service struct {
	store   LifecycleStore
	sweeper *retention.Sweeper
	logger  *zap.Logger
}

func NewService(store LifecycleStore, sweeper *retention.Sweeper, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		sweeper: sweeper,
		logger:  logger,
	}
}

// Create records a new scheduled session and then enforces retention for
// the owner.
func (s *Service) Create(ctx context.Context, owner primitive.ObjectID, role string, scheduled time.Time, resumeURL string) (*models.Interview, error) {
	session := &models.Interview{
		Candidate:    owner,
		Role:         role,
		Time:         scheduled,
		Resume:       resumeURL,
		Conversation: []models.Turn{},
	}

	created, err := s.store.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	s.sweeper.Enforce(ctx, owner)

	return created, nil
}

// List returns the owner's sessions, most recent first.
func (s *Service) List(ctx context.Context, owner primitive.ObjectID) ([]models.Interview, error) {
	return s.store.ListByOwner(ctx, owner, listLimit)
}

// Stats aggregates the owner's sessions: counts plus an estimate of the
// bytes used by stored conversations and resume references.
func (s *Service) Stats(ctx context.Context, owner primitive.ObjectID) (*models.InterviewStats, error) {
	sessions, err := s.store.ListByOwner(ctx, owner, 0)
	if err != nil {
		return nil, err
	}

	stats := &models.InterviewStats{Total: len(sessions)}
	for _, session := range sessions {
		if session.Status {
			stats.Completed++
		} else {
			stats.Pending++
		}
		if serialized, err := json.Marshal(session.Conversation); err == nil {
			stats.StorageBytes += int64(len(serialized))
		}
		stats.StorageBytes += int64(len(session.Resume))
	}

	return stats, nil
}
