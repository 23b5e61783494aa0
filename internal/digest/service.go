package digest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/store"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Load when no digest was generated for the date.
var ErrNotFound = errors.New("digest not found")

// PreferenceSource supplies the current preferences.
type PreferenceSource interface {
	Load(ctx context.Context) (models.Preferences, error)
}

// CatalogSource supplies the full job catalog.
type CatalogSource interface {
	Jobs() []models.Job
}

// Service generates and persists daily digests.
type Service struct {
	kv      store.Store
	prefs   PreferenceSource
	catalog CatalogSource
	logger  zerolog.Logger
	delay   time.Duration
	now     func() time.Time

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDelay sets the simulated generation delay.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(kv store.Store, prefs PreferenceSource, catalog CatalogSource, opts ...Option) *Service {
	s := &Service{
		kv:      kv,
		prefs:   prefs,
		catalog: catalog,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the date key for the current local day.
func (s *Service) Today() string {
	return DateKey(s.now())
}

// Generate builds today's digest and replaces whatever was stored for the
// date. Calls on one Service run one at a time; a context cancelled during the
// delay returns ctx.Err() and writes nothing.
func (s *Service) Generate(ctx context.Context) (models.Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		return models.Digest{}, fmt.Errorf("load preferences: %w", err)
	}
	jobs := s.catalog.Jobs()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return models.Digest{}, ctx.Err()
		case <-timer.C:
		}
	}

	d := Generate(jobs, prefs, s.now())
	if err := store.WriteJSON(ctx, s.kv, Key(d.Date), d); err != nil {
		return models.Digest{}, fmt.Errorf("save digest: %w", err)
	}

	s.logger.Info().
		Str("date", d.Date).
		Int("jobs", len(d.Jobs)).
		Int("catalog", len(jobs)).
		Msg("digest generated")
	return d, nil
}

// Load returns the digest stored for date. Malformed content, and content
// without a date such as a JSON null, reads as ErrNotFound.
func (s *Service) Load(ctx context.Context, date string) (models.Digest, error) {
	var d models.Digest
	err := store.ReadJSON(ctx, s.kv, Key(date), &d)
	if store.IsAbsent(err) {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Debug().Err(err).Str("date", date).Msg("stored digest unreadable")
		}
		return models.Digest{}, ErrNotFound
	}
	if err != nil {
		return models.Digest{}, fmt.Errorf("load digest: %w", err)
	}
	if d.Date == "" {
		s.logger.Debug().Str("date", date).Msg("stored digest has no date")
		return models.Digest{}, ErrNotFound
	}
	if d.Jobs == nil {
		d.Jobs = []models.DigestJob{}
	}
	return d, nil
}

// LoadToday is Load for Today.
func (s *Service) LoadToday(ctx context.Context) (models.Digest, error) {
	return s.Load(ctx, s.Today())
}
