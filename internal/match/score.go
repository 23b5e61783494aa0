// Package match scores catalog jobs against the user's preferences.
package match

import (
	"strings"

	"github.com/jimezsa/jobtracker/internal/models"
)

const (
	pointsTitleKeyword       = 25
	pointsDescriptionKeyword = 15
	pointsLocation           = 15
	pointsMode               = 10
	pointsExperience         = 10
	pointsSkillOverlap       = 15
	pointsRecency            = 5
	pointsSource             = 5

	recentDays = 2
	maxScore   = 100
)

// Score returns how well job fits prefs as an integer in [0, 100].
// Every signal is evaluated independently and the sum is capped at 100.
func Score(job models.Job, prefs models.Preferences) int {
	score := 0

	keywords := ParseTokens(prefs.RoleKeywords)
	if containsAny(strings.ToLower(job.Title), keywords) {
		score += pointsTitleKeyword
	}
	if containsAny(strings.ToLower(job.Description), keywords) {
		score += pointsDescriptionKeyword
	}

	if len(prefs.PreferredLocations) > 0 && models.Contains(prefs.PreferredLocations, job.Location) {
		score += pointsLocation
	}
	if len(prefs.PreferredMode) > 0 && models.Contains(prefs.PreferredMode, job.Mode) {
		score += pointsMode
	}
	if prefs.ExperienceLevel != "" && job.Experience == prefs.ExperienceLevel {
		score += pointsExperience
	}

	if skillsOverlap(ParseTokens(prefs.Skills), job.Skills) {
		score += pointsSkillOverlap
	}

	if job.PostedDaysAgo <= recentDays {
		score += pointsRecency
	}
	if job.Source == models.SourceLinkedIn {
		score += pointsSource
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

// ScoreAll scores every job, preserving catalog order.
func ScoreAll(jobs []models.Job, prefs models.Preferences) []models.ScoredJob {
	scored := make([]models.ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		scored = append(scored, models.ScoredJob{Job: job, MatchScore: Score(job, prefs)})
	}
	return scored
}

// ParseTokens splits a comma-separated list into trimmed, lower-cased,
// non-empty tokens.
func ParseTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func containsAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

// skillsOverlap matches in both directions: "react" hits "React Native" and
// "reactjs developer" hits "ReactJS".
func skillsOverlap(userSkills []string, jobSkills []string) bool {
	for _, skill := range userSkills {
		for _, raw := range jobSkills {
			jobSkill := strings.ToLower(strings.TrimSpace(raw))
			if jobSkill == "" {
				continue
			}
			if strings.Contains(jobSkill, skill) || strings.Contains(skill, jobSkill) {
				return true
			}
		}
	}
	return false
}
