package models

// Job is a catalog posting. Catalog entries are never mutated after load.
type Job struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Company       string   `json:"company" yaml:"company"`
	Location      string   `json:"location" yaml:"location"`
	Mode          string   `json:"mode" yaml:"mode"`
	Experience    string   `json:"experience" yaml:"experience"`
	SalaryRange   string   `json:"salaryRange" yaml:"salaryRange"`
	Skills        []string `json:"skills" yaml:"skills"`
	Description   string   `json:"description" yaml:"description"`
	Source        string   `json:"source" yaml:"source"`
	PostedDaysAgo int      `json:"postedDaysAgo" yaml:"postedDaysAgo"`
	ApplyURL      string   `json:"applyUrl" yaml:"applyUrl"`
}

// ScoredJob is a Job with its match score attached. It is recomputed on
// demand and only persisted as part of a Digest.
type ScoredJob struct {
	Job        `yaml:",inline"`
	MatchScore int `json:"matchScore" yaml:"matchScore"`
}

const (
	ModeRemote = "Remote"
	ModeHybrid = "Hybrid"
	ModeOnsite = "Onsite"
)

const (
	SourceLinkedIn = "LinkedIn"
	SourceNaukri   = "Naukri"
	SourceIndeed   = "Indeed"
)

var (
	Locations = []string{
		"Bangalore",
		"Hyderabad",
		"Pune",
		"Chennai",
		"Gurgaon",
		"Mumbai",
		"Noida",
		"Delhi",
		"Kolkata",
		"Faridabad",
		"Patna",
	}
	Modes            = []string{ModeRemote, ModeHybrid, ModeOnsite}
	ExperienceLevels = []string{"Fresher", "0-1", "1-3", "3-5"}
	Sources          = []string{SourceLinkedIn, SourceNaukri, SourceIndeed}
)

// Contains reports whether value is one of options (exact match).
func Contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
