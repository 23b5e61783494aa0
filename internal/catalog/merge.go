package catalog

import (
	"strings"

	"github.com/jimezsa/jobtracker/internal/models"
)

// MergeStats summarizes a catalog merge.
type MergeStats struct {
	TotalExisting   int
	TotalIncoming   int
	InvalidIncoming int
	Added           int
	TotalOut        int
}

// Merge appends incoming jobs whose id is not already present. Existing
// entries win collisions and keep their order; incoming jobs without an id
// are skipped.
func Merge(existing []models.Job, incoming []models.Job) ([]models.Job, MergeStats) {
	stats := MergeStats{
		TotalExisting: len(existing),
		TotalIncoming: len(incoming),
	}

	ids := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]models.Job, 0, len(existing)+len(incoming))

	for _, job := range existing {
		if id := strings.TrimSpace(job.ID); id != "" {
			ids[id] = struct{}{}
		}
		out = append(out, job)
	}

	for _, job := range incoming {
		id := strings.TrimSpace(job.ID)
		if id == "" {
			stats.InvalidIncoming++
			continue
		}
		if _, exists := ids[id]; exists {
			continue
		}
		ids[id] = struct{}{}
		out = append(out, job)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
