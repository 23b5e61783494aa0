// Package digest ranks the catalog against the user's preferences and keeps
// one top-N snapshot per calendar day.
package digest

import (
	"sort"
	"time"

	"github.com/jimezsa/jobtracker/internal/match"
	"github.com/jimezsa/jobtracker/internal/models"
)

const (
	// Size is the maximum number of jobs in a digest.
	Size = 10
	// DateLayout is the calendar-day key format.
	DateLayout = "2006-01-02"
	keyPrefix  = "jobTrackerDigest_"
)

// Key returns the slot holding the digest for date.
func Key(date string) string {
	return keyPrefix + date
}

// DateKey formats the local calendar day of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Rank scores every job and orders them by score descending, then by
// postedDaysAgo ascending. Remaining ties keep catalog order.
func Rank(jobs []models.Job, prefs models.Preferences) []models.ScoredJob {
	scored := match.ScoreAll(jobs, prefs)
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		return scored[i].PostedDaysAgo < scored[j].PostedDaysAgo
	})
	return scored
}

// Generate builds the digest for the day of now. Low scores are not gated:
// a zero-score job appears when fewer than Size jobs rank above it.
func Generate(jobs []models.Job, prefs models.Preferences, now time.Time) models.Digest {
	ranked := Rank(jobs, prefs)
	if len(ranked) > Size {
		ranked = ranked[:Size]
	}

	selected := make([]models.DigestJob, 0, len(ranked))
	for _, job := range ranked {
		selected = append(selected, models.DigestJobFrom(job))
	}

	return models.Digest{
		Date:        DateKey(now),
		Jobs:        selected,
		GeneratedAt: now,
	}
}
