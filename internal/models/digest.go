package models

import "time"

// DigestJob is the display subset of a scored job kept in a persisted digest.
type DigestJob struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company" yaml:"company"`
	Location    string `json:"location" yaml:"location"`
	Mode        string `json:"mode" yaml:"mode"`
	Experience  string `json:"experience" yaml:"experience"`
	SalaryRange string `json:"salaryRange" yaml:"salaryRange"`
	MatchScore  int    `json:"matchScore" yaml:"matchScore"`
	ApplyURL    string `json:"applyUrl" yaml:"applyUrl"`
}

// Digest is the ranked top-N snapshot for one calendar day.
type Digest struct {
	Date        string      `json:"date" yaml:"date"`
	Jobs        []DigestJob `json:"jobs" yaml:"jobs"`
	GeneratedAt time.Time   `json:"generatedAt" yaml:"generatedAt"`
}

// DigestJobFrom drops description and skills from a scored job.
func DigestJobFrom(job ScoredJob) DigestJob {
	return DigestJob{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Mode:        job.Mode,
		Experience:  job.Experience,
		SalaryRange: job.SalaryRange,
		MatchScore:  job.MatchScore,
		ApplyURL:    job.ApplyURL,
	}
}
