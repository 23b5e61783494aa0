// Package tracker keeps per-job annotations: the application status map with
// its history log, and the saved-job set.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/store"
	"github.com/rs/zerolog"
)

const (
	StatusKey  = "jobTrackerStatus"
	HistoryKey = "jobTrackerStatusHistory"

	// HistoryLimit is the number of updates kept, newest first.
	HistoryLimit = 20
	// DefaultRecent is the Recent size used when limit <= 0.
	DefaultRecent = 10
)

// Listener is called after a status change has been stored.
type Listener func(models.StatusUpdate)

// Tracker reads and writes job statuses.
type Tracker struct {
	kv     store.Store
	logger zerolog.Logger
	now    func() time.Time

	mu sync.Mutex

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

func New(kv store.Store, logger zerolog.Logger) *Tracker {
	return &Tracker{
		kv:        kv,
		logger:    logger,
		now:       time.Now,
		listeners: map[int]Listener{},
	}
}

// Status returns the current status of id, StatusNotApplied when unknown.
func (t *Tracker) Status(ctx context.Context, id string) (models.JobStatus, error) {
	statuses, err := t.Statuses(ctx)
	if err != nil {
		return models.StatusNotApplied, err
	}
	if status, ok := statuses[id]; ok && status != "" {
		return status, nil
	}
	return models.StatusNotApplied, nil
}

// Statuses returns the whole status map. Malformed content reads as empty.
func (t *Tracker) Statuses(ctx context.Context) (map[string]models.JobStatus, error) {
	var statuses map[string]models.JobStatus
	err := store.ReadJSON(ctx, t.kv, StatusKey, &statuses)
	if store.IsAbsent(err) {
		t.debugAbsent(err, StatusKey)
		return map[string]models.JobStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load statuses: %w", err)
	}
	if statuses == nil {
		statuses = map[string]models.JobStatus{}
	}
	return statuses, nil
}

// History returns the stored updates, newest first.
func (t *Tracker) History(ctx context.Context) ([]models.StatusUpdate, error) {
	var history []models.StatusUpdate
	err := store.ReadJSON(ctx, t.kv, HistoryKey, &history)
	if store.IsAbsent(err) {
		t.debugAbsent(err, HistoryKey)
		return []models.StatusUpdate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	if history == nil {
		history = []models.StatusUpdate{}
	}
	return history, nil
}

// Recent returns at most limit history entries; limit <= 0 means DefaultRecent.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]models.StatusUpdate, error) {
	if limit <= 0 {
		limit = DefaultRecent
	}
	history, err := t.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

// SetStatus records status for job, prepends an update to the history and
// notifies listeners. status is matched case-insensitively and stored in its
// canonical form. Any status, including Not Applied, is logged. When the
// history cannot be saved the previous status map is restored.
func (t *Tracker) SetStatus(ctx context.Context, job models.Job, status models.JobStatus) (models.StatusUpdate, error) {
	canonical, err := models.ParseStatus(string(status))
	if err != nil {
		return models.StatusUpdate{}, err
	}

	t.mu.Lock()
	update, err := t.setStatusLocked(ctx, job, canonical)
	t.mu.Unlock()
	if err != nil {
		return models.StatusUpdate{}, err
	}

	t.notify(update)
	return update, nil
}

func (t *Tracker) setStatusLocked(ctx context.Context, job models.Job, status models.JobStatus) (models.StatusUpdate, error) {
	statuses, err := t.Statuses(ctx)
	if err != nil {
		return models.StatusUpdate{}, err
	}
	history, err := t.History(ctx)
	if err != nil {
		return models.StatusUpdate{}, err
	}

	previous, hadPrevious := statuses[job.ID]
	statuses[job.ID] = status
	if err := store.WriteJSON(ctx, t.kv, StatusKey, statuses); err != nil {
		return models.StatusUpdate{}, fmt.Errorf("save statuses: %w", err)
	}

	update := models.StatusUpdate{
		JobID:     job.ID,
		JobTitle:  job.Title,
		Company:   job.Company,
		Status:    status,
		UpdatedAt: t.now(),
	}

	history = append([]models.StatusUpdate{update}, history...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	if err := store.WriteJSON(ctx, t.kv, HistoryKey, history); err != nil {
		if hadPrevious {
			statuses[job.ID] = previous
		} else {
			delete(statuses, job.ID)
		}
		if restoreErr := store.WriteJSON(ctx, t.kv, StatusKey, statuses); restoreErr != nil {
			t.logger.Warn().Err(restoreErr).Str("job", job.ID).Msg("could not restore status after failed history write")
		}
		return models.StatusUpdate{}, fmt.Errorf("save status history: %w", err)
	}

	t.logger.Debug().
		Str("job", job.ID).
		Str("status", string(status)).
		Msg("status updated")
	return update, nil
}

// Subscribe registers fn for status changes made through this Tracker. The
// returned func removes it.
func (t *Tracker) Subscribe(fn Listener) func() {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	id := t.nextID
	t.nextID++
	t.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			t.listenersMu.Lock()
			delete(t.listeners, id)
			t.listenersMu.Unlock()
		})
	}
}

func (t *Tracker) notify(update models.StatusUpdate) {
	t.listenersMu.Lock()
	ids := make([]int, 0, len(t.listeners))
	for id := range t.listeners {
		ids = append(ids, id)
	}
	fns := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, t.listeners[id])
	}
	t.listenersMu.Unlock()

	for _, fn := range fns {
		fn(update)
	}
}

func (t *Tracker) debugAbsent(err error, key string) {
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	t.logger.Debug().Err(err).Str("key", key).Msg("slot unreadable, using empty value")
}
