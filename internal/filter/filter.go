// Package filter narrows and orders scored jobs for list views.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jimezsa/jobtracker/internal/models"
)

// All is the "no filter" sentinel for the exact-match criteria.
const All = "All"

// SortKey selects the list order.
type SortKey string

const (
	SortLatest     SortKey = "latest"
	SortOldest     SortKey = "oldest"
	SortScore      SortKey = "score"
	SortSalaryHigh SortKey = "salary-high"
	SortSalaryLow  SortKey = "salary-low"
)

var SortKeys = []SortKey{SortLatest, SortOldest, SortScore, SortSalaryHigh, SortSalaryLow}

// ParseSort maps a flag value to a SortKey; empty means SortLatest.
func ParseSort(value string) (SortKey, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortLatest, nil
	}
	for _, key := range SortKeys {
		if string(key) == value {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want latest, oldest, score, salary-high or salary-low)", value)
}

// Criteria holds the list filters. Empty or All fields do not filter.
type Criteria struct {
	Keyword    string
	Location   string
	Mode       string
	Experience string
	Source     string
	Status     string
	Sort       SortKey
}

// Apply filters scored by every active criterion, then sorts. Jobs without
// an entry in statuses count as Not Applied. With onlyMatches, jobs scoring
// below threshold are dropped. The input slice is not modified.
func Apply(scored []models.ScoredJob, c Criteria, statuses map[string]models.JobStatus, threshold int, onlyMatches bool) []models.ScoredJob {
	keyword := strings.ToLower(strings.TrimSpace(c.Keyword))

	out := make([]models.ScoredJob, 0, len(scored))
	for _, job := range scored {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(job.Title), keyword) &&
			!strings.Contains(strings.ToLower(job.Company), keyword) {
			continue
		}
		if !matches(c.Location, job.Location) ||
			!matches(c.Mode, job.Mode) ||
			!matches(c.Experience, job.Experience) ||
			!matches(c.Source, job.Source) {
			continue
		}
		if active(c.Status) && string(statusOf(statuses, job.ID)) != c.Status {
			continue
		}
		if onlyMatches && job.MatchScore < threshold {
			continue
		}
		out = append(out, job)
	}

	Sort(out, c.Sort)
	return out
}

// Sort orders jobs in place, stable for equal keys.
func Sort(jobs []models.ScoredJob, key SortKey) {
	var less func(a, b models.ScoredJob) bool
	switch key {
	case SortOldest:
		less = func(a, b models.ScoredJob) bool { return a.PostedDaysAgo > b.PostedDaysAgo }
	case SortScore:
		less = func(a, b models.ScoredJob) bool { return a.MatchScore > b.MatchScore }
	case SortSalaryHigh:
		less = func(a, b models.ScoredJob) bool { return Salary(a.SalaryRange) > Salary(b.SalaryRange) }
	case SortSalaryLow:
		less = func(a, b models.ScoredJob) bool { return Salary(a.SalaryRange) < Salary(b.SalaryRange) }
	default:
		less = func(a, b models.ScoredJob) bool { return a.PostedDaysAgo < b.PostedDaysAgo }
	}
	sort.SliceStable(jobs, func(i, j int) bool { return less(jobs[i], jobs[j]) })
}

var firstNumber = regexp.MustCompile(`\d+`)

// Salary extracts the first integer token of a salary range. Ranges without a
// number, or with one too large for int, sort as 0.
func Salary(salaryRange string) int {
	token := firstNumber.FindString(salaryRange)
	if token == "" {
		return 0
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return value
}

func active(criterion string) bool {
	criterion = strings.TrimSpace(criterion)
	return criterion != "" && criterion != All
}

func matches(criterion, value string) bool {
	return !active(criterion) || strings.TrimSpace(criterion) == value
}

func statusOf(statuses map[string]models.JobStatus, id string) models.JobStatus {
	if status, ok := statuses[id]; ok && status != "" {
		return status
	}
	return models.StatusNotApplied
}
