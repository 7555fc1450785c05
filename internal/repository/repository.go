// Package repository defines the persistence contract for workspaces.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// ErrVersionConflict is returned by Save when the stored document no longer
// carries the expected version.
var ErrVersionConflict = errors.New("workspace version conflict")

// WorkspaceStore persists one workspace document per user.
type WorkspaceStore interface {
	// Load returns the stored workspace, or an empty one at version 0.
	Load(ctx context.Context, userID string) (*models.Workspace, error)

	// Save replaces the whole document if its stored version equals
	// expectedVersion. On success ws.Version is advanced.
	Save(ctx context.Context, ws *models.Workspace, expectedVersion int64) error

	// Subscribe streams every committed version of the user's workspace
	// until ctx is done. The channel is closed afterwards.
	Subscribe(ctx context.Context, userID string) (<-chan *models.Workspace, error)

	// ListUserIDs returns the owners of every stored workspace.
	ListUserIDs(ctx context.Context) ([]string, error)

	Close(ctx context.Context) error
}
