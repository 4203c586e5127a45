package mmdf

import "golang.org/x/exp/slices"

// UserPreferences are the rider supplied constraints and weights for one
// planning request. MaxCost and RequireRealtime are hard filters, the
// priority flags only adjust scoring weights and PreferredModes only nudges
// the score.
type UserPreferences struct {
	MaxWalkingDistanceKm float64 `groups:"basic"`

	PreferredModes []ModeCategory `groups:"basic"`
	AvoidModes     []ModeCategory `groups:"basic"`

	// MaxCost of zero means no cost ceiling
	MaxCost float64 `groups:"basic"`

	PrioritizeSpeed       bool `groups:"basic"`
	PrioritizeCost        bool `groups:"basic"`
	PrioritizeComfort     bool `groups:"basic"`
	PrioritizeEnvironment bool `groups:"basic"`

	AccessibilityNeeds []string `groups:"basic"`

	// RequireRealtime drops any plan containing a segment without live
	// update coverage
	RequireRealtime bool `groups:"basic"`
}

// Avoids reports whether the rider has excluded the mode category. Providers
// must treat this as authoritative and never return a segment in an avoided
// category.
func (p UserPreferences) Avoids(category ModeCategory) bool {
	return slices.Contains(p.AvoidModes, category)
}

func (p UserPreferences) Prefers(category ModeCategory) bool {
	return slices.Contains(p.PreferredModes, category)
}
