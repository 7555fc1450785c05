// Package memory is an in-process WorkspaceStore used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/repository"
)

// Store keeps workspaces in a map and fans committed versions out to
// subscribers.
type Store struct {
	mu          sync.RWMutex
	docs        map[string]*models.Workspace
	subscribers map[string]map[chan *models.Workspace]struct{}
}

var _ repository.WorkspaceStore = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		docs:        make(map[string]*models.Workspace),
		subscribers: make(map[string]map[chan *models.Workspace]struct{}),
	}
}

func (s *Store) Load(ctx context.Context, userID string) (*models.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[userID]
	if !ok {
		return models.NewWorkspace(userID), nil
	}
	return doc.Clone(), nil
}

func (s *Store) Save(ctx context.Context, ws *models.Workspace, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if doc, ok := s.docs[ws.UserID]; ok {
		current = doc.Version
	}
	if current != expectedVersion {
		return repository.ErrVersionConflict
	}

	ws.Version = expectedVersion + 1
	stored := ws.Clone()
	stored.Normalize()
	s.docs[ws.UserID] = stored

	for ch := range s.subscribers[ws.UserID] {
		publish(ch, stored.Clone())
	}
	return nil
}

// publish keeps only the latest version for slow subscribers.
func publish(ch chan *models.Workspace, ws *models.Workspace) {
	for {
		select {
		case ch <- ws:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *Store) Subscribe(ctx context.Context, userID string) (<-chan *models.Workspace, error) {
	ch := make(chan *models.Workspace, 1)

	s.mu.Lock()
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[chan *models.Workspace]struct{})
	}
	s.subscribers[userID][ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subscribers[userID], ch)
		if len(s.subscribers[userID]) == 0 {
			delete(s.subscribers, userID)
		}
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) Close(context.Context) error {
	return nil
}
