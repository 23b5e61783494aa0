package filter

import (
	"reflect"
	"testing"

	"github.com/jimezsa/jobtracker/internal/models"
)

func scoredJob(id string, mutate func(*models.ScoredJob)) models.ScoredJob {
	job := models.ScoredJob{
		Job: models.Job{
			ID:            id,
			Title:         "Engineer",
			Company:       "Acme",
			Location:      "Pune",
			Mode:          models.ModeRemote,
			Experience:    "1-3",
			SalaryRange:   "10-15 LPA",
			Source:        models.SourceLinkedIn,
			PostedDaysAgo: 1,
		},
		MatchScore: 50,
	}
	if mutate != nil {
		mutate(&job)
	}
	return job
}

func fixture() []models.ScoredJob {
	return []models.ScoredJob{
		scoredJob("a", func(j *models.ScoredJob) {
			j.Title = "Go Developer"
			j.PostedDaysAgo = 3
			j.MatchScore = 80
			j.SalaryRange = "₹18–24 LPA"
		}),
		scoredJob("b", func(j *models.ScoredJob) {
			j.Company = "Developer Labs"
			j.Location = "Bangalore"
			j.Mode = models.ModeHybrid
			j.PostedDaysAgo = 0
			j.MatchScore = 40
			j.SalaryRange = "Competitive"
		}),
		scoredJob("c", func(j *models.ScoredJob) {
			j.Experience = "Fresher"
			j.Source = models.SourceNaukri
			j.PostedDaysAgo = 7
			j.MatchScore = 39
			j.SalaryRange = "3-5 LPA"
		}),
		scoredJob("d", func(j *models.ScoredJob) {
			j.Title = "Data Analyst"
			j.Source = models.SourceIndeed
			j.PostedDaysAgo = 3
			j.MatchScore = 80
			j.SalaryRange = "12 LPA"
		}),
	}
}

func ids(jobs []models.ScoredJob) []string {
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.ID)
	}
	return out
}

func TestApplyIndividualFilters(t *testing.T) {
	statuses := map[string]models.JobStatus{"a": models.StatusApplied, "d": models.StatusRejected}
	tests := []struct {
		name     string
		criteria Criteria
		only     bool
		want     []string
	}{
		{name: "no filters", want: []string{"b", "a", "d", "c"}},
		{name: "all sentinels", criteria: Criteria{Location: All, Mode: All, Experience: All, Source: All, Status: All}, want: []string{"b", "a", "d", "c"}},
		{name: "keyword title", criteria: Criteria{Keyword: "DEVELOPER"}, want: []string{"b", "a"}},
		{name: "keyword company", criteria: Criteria{Keyword: "labs"}, want: []string{"b"}},
		{name: "location", criteria: Criteria{Location: "Bangalore"}, want: []string{"b"}},
		{name: "mode", criteria: Criteria{Mode: models.ModeRemote}, want: []string{"a", "d", "c"}},
		{name: "experience", criteria: Criteria{Experience: "Fresher"}, want: []string{"c"}},
		{name: "source", criteria: Criteria{Source: models.SourceIndeed}, want: []string{"d"}},
		{name: "status default", criteria: Criteria{Status: string(models.StatusNotApplied)}, want: []string{"b", "c"}},
		{name: "status applied", criteria: Criteria{Status: string(models.StatusApplied)}, want: []string{"a"}},
		{name: "threshold inclusive", only: true, want: []string{"b", "a", "d"}},
		{name: "conjunction", criteria: Criteria{Keyword: "developer", Mode: models.ModeRemote}, want: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(fixture(), tt.criteria, statuses, 40, tt.only))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyIsIntersectionOfPredicates(t *testing.T) {
	statuses := map[string]models.JobStatus{"a": models.StatusApplied}
	parts := []Criteria{
		{Keyword: "engineer"},
		{Mode: models.ModeRemote},
		{Source: models.SourceNaukri},
		{Status: string(models.StatusNotApplied)},
	}

	combined := Criteria{}
	want := map[string]bool{"a": true, "b": true, "c": true, "d": true}
	for _, part := range parts {
		subset := map[string]bool{}
		for _, id := range ids(Apply(fixture(), part, statuses, 0, false)) {
			subset[id] = true
		}
		for id := range want {
			if !subset[id] {
				delete(want, id)
			}
		}
		if part.Keyword != "" {
			combined.Keyword = part.Keyword
		}
		if part.Mode != "" {
			combined.Mode = part.Mode
		}
		if part.Source != "" {
			combined.Source = part.Source
		}
		if part.Status != "" {
			combined.Status = part.Status
		}
	}

	got := ids(Apply(fixture(), combined, statuses, 0, false))
	if len(got) != len(want) {
		t.Fatalf("Apply(combined) = %v, want ids %v", got, want)
	}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("Apply(combined) contains %q outside the intersection", id)
		}
	}
}

func TestSortKeys(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{key: SortLatest, want: []string{"b", "a", "d", "c"}},
		{key: "", want: []string{"b", "a", "d", "c"}},
		{key: SortOldest, want: []string{"c", "a", "d", "b"}},
		{key: SortScore, want: []string{"a", "d", "b", "c"}},
		{key: SortSalaryHigh, want: []string{"a", "d", "c", "b"}},
		{key: SortSalaryLow, want: []string{"b", "c", "d", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(Apply(fixture(), Criteria{Sort: tt.key}, nil, 0, false))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Apply(sort=%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	in := fixture()
	Apply(in, Criteria{Sort: SortScore}, nil, 0, false)
	if got := ids(in); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("input reordered to %v", got)
	}
}

func TestSalary(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "10-15 LPA", want: 10},
		{in: "₹18–24 LPA", want: 18},
		{in: "Competitive", want: 0},
		{in: "", want: 0},
		{in: "99999999999999999999999 LPA", want: 0},
		{in: "Up to 40k/month", want: 40},
	}
	for _, tt := range tests {
		if got := Salary(tt.in); got != tt.want {
			t.Fatalf("Salary(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseSort(t *testing.T) {
	for _, key := range SortKeys {
		got, err := ParseSort(string(key))
		if err != nil || got != key {
			t.Fatalf("ParseSort(%q) = %q, %v", key, got, err)
		}
	}
	if got, err := ParseSort(""); err != nil || got != SortLatest {
		t.Fatalf("ParseSort(\"\") = %q, %v; want latest", got, err)
	}
	if _, err := ParseSort("random"); err == nil {
		t.Fatalf("ParseSort(random) error = nil, want error")
	}
}
