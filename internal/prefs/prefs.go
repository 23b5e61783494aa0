// Package prefs persists the user's matching preferences in a single slot.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/store"
	"github.com/rs/zerolog"
)

// Key is the slot holding the preferences blob.
const Key = "jobTrackerPreferences"

// Store loads and saves Preferences.
type Store struct {
	kv     store.Store
	logger zerolog.Logger
}

func New(kv store.Store, logger zerolog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load returns the stored preferences merged over the defaults. A missing or
// malformed blob yields the defaults.
func (s *Store) Load(ctx context.Context) (models.Preferences, error) {
	p := models.DefaultPreferences()
	err := store.ReadJSON(ctx, s.kv, Key, &p)
	if store.IsAbsent(err) {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Debug().Err(err).Msg("preferences unreadable, using defaults")
		}
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.DefaultPreferences(), fmt.Errorf("load preferences: %w", err)
	}
	return Normalize(p), nil
}

// Save normalizes p and replaces the stored blob. It returns what was written.
func (s *Store) Save(ctx context.Context, p models.Preferences) (models.Preferences, error) {
	p = Normalize(p)
	if err := store.WriteJSON(ctx, s.kv, Key, p); err != nil {
		return p, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}

// Reset clears the stored blob so the next Load returns the defaults.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	return nil
}

// Normalize trims text fields, dedupes the location and mode sets, and
// clamps MinMatchScore into [0,100].
func Normalize(p models.Preferences) models.Preferences {
	p.RoleKeywords = strings.TrimSpace(p.RoleKeywords)
	p.Skills = strings.TrimSpace(p.Skills)
	p.ExperienceLevel = strings.TrimSpace(p.ExperienceLevel)
	p.PreferredLocations = normalizeSet(p.PreferredLocations)
	p.PreferredMode = normalizeSet(p.PreferredMode)
	switch {
	case p.MinMatchScore < 0:
		p.MinMatchScore = 0
	case p.MinMatchScore > 100:
		p.MinMatchScore = 100
	}
	return p
}

func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// Changes is a partial edit. Nil fields are left untouched.
type Changes struct {
	RoleKeywords       *string
	PreferredLocations *[]string
	PreferredMode      *[]string
	ExperienceLevel    *string
	Skills             *string
	MinMatchScore      *int
}

// Apply returns a copy of p with the non-nil changes applied.
func Apply(p models.Preferences, c Changes) models.Preferences {
	if c.RoleKeywords != nil {
		p.RoleKeywords = *c.RoleKeywords
	}
	if c.PreferredLocations != nil {
		p.PreferredLocations = append([]string(nil), (*c.PreferredLocations)...)
	}
	if c.PreferredMode != nil {
		p.PreferredMode = append([]string(nil), (*c.PreferredMode)...)
	}
	if c.ExperienceLevel != nil {
		p.ExperienceLevel = *c.ExperienceLevel
	}
	if c.Skills != nil {
		p.Skills = *c.Skills
	}
	if c.MinMatchScore != nil {
		p.MinMatchScore = *c.MinMatchScore
	}
	return Normalize(p)
}

// Validate rejects values outside the enumerated location, mode and
// experience sets. Save does not call it; the CLI does before saving.
func Validate(p models.Preferences) error {
	for _, location := range p.PreferredLocations {
		if !models.Contains(models.Locations, location) {
			return fmt.Errorf("unknown location %q", location)
		}
	}
	for _, mode := range p.PreferredMode {
		if !models.Contains(models.Modes, mode) {
			return fmt.Errorf("unknown mode %q", mode)
		}
	}
	if p.ExperienceLevel != "" && !models.Contains(models.ExperienceLevels, p.ExperienceLevel) {
		return fmt.Errorf("unknown experience level %q", p.ExperienceLevel)
	}
	return nil
}
