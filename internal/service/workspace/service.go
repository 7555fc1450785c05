// Package workspace owns the application state of each account. Every
// mutation loads the stored document, applies a reconciliation to a clone and
// commits only after the clone was persisted.
package workspace

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/reconcile"
	"github.com/mamadbah2/stockbook/internal/repository"
	"github.com/mamadbah2/stockbook/internal/service/approval"
)

// Gate authorizes privileged operations.
type Gate interface {
	Authorize(action approval.Action, secret string) error
}

// Service is the single writer of workspaces inside the process.
type Service struct {
	store  repository.WorkspaceStore
	gate   Gate
	logger *zap.Logger
	now    func() time.Time
	locks  keyedMutex
}

// NewService wires a workspace service.
func NewService(store repository.WorkspaceStore, gate Gate, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		gate:   gate,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type mutation func(ws *models.Workspace, now time.Time) (reconcile.Result, error)

// mutate runs fn against a clone of the stored workspace and persists it.
// Nothing is committed when fn or the save fails.
func (s *Service) mutate(ctx context.Context, userID, op string, fn mutation) (*models.Workspace, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	current, err := s.store.Load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load workspace", zap.String("user_id", userID), zap.String("op", op), zap.Error(err))
		return nil, apperror.NewPersistence(err)
	}

	next := current.Clone()
	now := s.now()
	res, err := fn(next, now)
	if err != nil {
		return nil, err
	}
	for _, id := range res.Skipped {
		s.logger.Warn("referenced item no longer in inventory, skipped",
			zap.String("user_id", userID),
			zap.String("op", op),
			zap.Int64("item_id", int64(id)),
		)
	}

	next.LastUpdated = now
	if err := s.store.Save(ctx, next, current.Version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Warn("workspace changed concurrently", zap.String("user_id", userID), zap.String("op", op))
			return nil, apperror.NewConcurrentModification("workspace", userID)
		}
		s.logger.Error("failed to persist workspace", zap.String("user_id", userID), zap.String("op", op), zap.Error(err))
		return nil, apperror.NewPersistence(err)
	}

	s.logger.Info("workspace committed",
		zap.String("user_id", userID),
		zap.String("op", op),
		zap.Int64("version", next.Version),
	)
	return next, nil
}

func (s *Service) authorize(action approval.Action, secret string) error {
	if err := s.gate.Authorize(action, secret); err != nil {
		s.logger.Warn("privileged operation denied", zap.String("action", string(action)))
		return err
	}
	return nil
}

// Snapshot returns the stored workspace.
func (s *Service) Snapshot(ctx context.Context, userID string) (*models.Workspace, error) {
	ws, err := s.store.Load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load workspace", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.NewPersistence(err)
	}
	return ws, nil
}

// Subscribe streams committed versions of the workspace until ctx is done.
func (s *Service) Subscribe(ctx context.Context, userID string) (<-chan *models.Workspace, error) {
	ch, err := s.store.Subscribe(ctx, userID)
	if err != nil {
		s.logger.Error("failed to subscribe to workspace", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.NewPersistence(err)
	}
	return ch, nil
}

// Initialize creates the empty workspace of a new account. Existing
// workspaces are returned unchanged apart from a missing email.
func (s *Service) Initialize(ctx context.Context, id models.Identity) (*models.Workspace, error) {
	unlock := s.locks.Lock(id.UserID)
	current, err := s.store.Load(ctx, id.UserID)
	unlock()
	if err != nil {
		return nil, apperror.NewPersistence(err)
	}
	if current.Version > 0 && current.Email != "" {
		return current, nil
	}

	return s.mutate(ctx, id.UserID, "initialize", func(ws *models.Workspace, _ time.Time) (reconcile.Result, error) {
		if ws.Email == "" {
			ws.Email = id.Email
		}
		return reconcile.Result{}, nil
	})
}

// Sync rewrites the document with a fresh lastUpdated stamp.
func (s *Service) Sync(ctx context.Context, userID string) (*models.Workspace, error) {
	return s.mutate(ctx, userID, "sync", func(*models.Workspace, time.Time) (reconcile.Result, error) {
		return reconcile.Result{}, nil
	})
}

// Reset clears every collection of the workspace.
func (s *Service) Reset(ctx context.Context, userID, secret string) (*models.Workspace, error) {
	if err := s.authorize(approval.ActionReset, secret); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, "reset", func(ws *models.Workspace, _ time.Time) (reconcile.Result, error) {
		reconcile.Reset(ws)
		return reconcile.Result{}, nil
	})
}
