package models

import (
	"fmt"
	"strings"
	"time"
)

// JobStatus is a job's application-pipeline stage.
type JobStatus string

const (
	StatusNotApplied JobStatus = "Not Applied"
	StatusApplied    JobStatus = "Applied"
	StatusRejected   JobStatus = "Rejected"
	StatusSelected   JobStatus = "Selected"
)

var Statuses = []JobStatus{StatusNotApplied, StatusApplied, StatusRejected, StatusSelected}

// ParseStatus accepts any of the four statuses case-insensitively. Hyphens and
// underscores are treated as spaces so "not-applied" works on the command line.
func ParseStatus(s string) (JobStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")
	for _, status := range Statuses {
		if strings.ToLower(string(status)) == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// StatusUpdate is one entry in the status history log.
type StatusUpdate struct {
	JobID     string    `json:"jobId" yaml:"jobId"`
	JobTitle  string    `json:"jobTitle" yaml:"jobTitle"`
	Company   string    `json:"company" yaml:"company"`
	Status    JobStatus `json:"status" yaml:"status"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}
