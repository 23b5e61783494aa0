package models

// DefaultMinMatchScore is the threshold used by "only matches" views.
const DefaultMinMatchScore = 40

// Preferences holds the user's matching criteria.
type Preferences struct {
	RoleKeywords       string   `json:"roleKeywords" yaml:"roleKeywords"`
	PreferredLocations []string `json:"preferredLocations" yaml:"preferredLocations"`
	PreferredMode      []string `json:"preferredMode" yaml:"preferredMode"`
	ExperienceLevel    string   `json:"experienceLevel" yaml:"experienceLevel"`
	Skills             string   `json:"skills" yaml:"skills"`
	MinMatchScore      int      `json:"minMatchScore" yaml:"minMatchScore"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		PreferredLocations: []string{},
		PreferredMode:      []string{},
		MinMatchScore:      DefaultMinMatchScore,
	}
}

// IsEmpty reports whether no matching criterion is set.
func (p Preferences) IsEmpty() bool {
	return p.RoleKeywords == "" &&
		len(p.PreferredLocations) == 0 &&
		len(p.PreferredMode) == 0 &&
		p.ExperienceLevel == "" &&
		p.Skills == ""
}
