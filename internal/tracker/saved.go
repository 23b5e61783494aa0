package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/jimezsa/jobtracker/internal/store"
	"github.com/rs/zerolog"
)

// SavedKey is the slot holding the saved job ids as a JSON array.
const SavedKey = "jobTrackerSavedJobs"

// Saved is the user's set of bookmarked job ids, kept in insertion order.
type Saved struct {
	kv     store.Store
	logger zerolog.Logger
	mu     sync.Mutex
}

func NewSaved(kv store.Store, logger zerolog.Logger) *Saved {
	return &Saved{kv: kv, logger: logger}
}

// IDs returns the saved ids. Malformed content reads as empty.
func (s *Saved) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := store.ReadJSON(ctx, s.kv, SavedKey, &ids)
	if store.IsAbsent(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load saved jobs: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Saved) IsSaved(ctx context.Context, id string) (bool, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(ids, id) >= 0, nil
}

// Save adds id; saving an already saved id is a no-op.
func (s *Saved) Save(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.IDs(ctx)
	if err != nil {
		return err
	}
	if indexOf(ids, id) >= 0 {
		return nil
	}
	return s.write(ctx, append(ids, id))
}

// Remove drops id; removing an unknown id is a no-op.
func (s *Saved) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.IDs(ctx)
	if err != nil {
		return err
	}
	i := indexOf(ids, id)
	if i < 0 {
		return nil
	}
	return s.write(ctx, append(ids[:i], ids[i+1:]...))
}

// Toggle flips id and reports whether it is saved afterwards.
func (s *Saved) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.IDs(ctx)
	if err != nil {
		return false, err
	}
	if i := indexOf(ids, id); i >= 0 {
		return false, s.write(ctx, append(ids[:i], ids[i+1:]...))
	}
	return true, s.write(ctx, append(ids, id))
}

func (s *Saved) write(ctx context.Context, ids []string) error {
	if err := store.WriteJSON(ctx, s.kv, SavedKey, ids); err != nil {
		return fmt.Errorf("save saved jobs: %w", err)
	}
	s.logger.Debug().Int("count", len(ids)).Msg("saved jobs updated")
	return nil
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}
