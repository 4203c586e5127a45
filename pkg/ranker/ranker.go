// Package ranker scores candidate journey plans against rider preferences and
// filters them down to a bounded shortlist.
package ranker

import (
	"sort"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
)

// MaxResults caps how many plans one planning request returns. It bounds the
// work the monitoring loop does per journey.
const MaxResults = 5

const (
	baselineWeight = 0.15
	boostedWeight  = 0.3

	reliabilityWeight = 0.2

	accessibilityBaselineWeight = 0.1
	accessibilityBoostedWeight  = 0.3

	// preferredModeBonus is scaled by the fraction of the plan's segments in a
	// preferred mode category. Small on purpose - a preference nudges ties and
	// near ties, it never outranks the weighted terms.
	preferredModeBonus = 0.05
)

// Saturation points for the normalized score terms - a plan longer than two
// hours, dearer than 50 currency units or above 5kg CO2 contributes nothing on
// that term.
const (
	durationSaturationMinutes = 120
	costSaturation            = 50
	emissionsSaturationGrams  = 5000
)

// Rank scores every candidate, applies the hard filters, sorts by score
// descending and returns at most MaxResults. A zero MaxCost means no cost
// ceiling; RequireRealtime drops any plan with a segment lacking live update
// coverage. The sort is stable, so equal-scoring plans keep their candidate
// order and ranking is fully deterministic for deterministic provider output.
func Rank(plans []*mmdf.JourneyPlan, preferences mmdf.UserPreferences) []*mmdf.JourneyPlan {
	var ranked []*mmdf.JourneyPlan

	for _, plan := range plans {
		if preferences.MaxCost > 0 && plan.TotalCost > preferences.MaxCost {
			continue
		}

		if preferences.RequireRealtime && !allRealtime(plan) {
			continue
		}

		plan.MatchScore = Score(plan, preferences)
		ranked = append(ranked, plan)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}

	return ranked
}

// Score computes the plan's match score in [0,1] as a weighted sum of six
// normalized terms, plus a small bonus for segments in the rider's preferred
// mode categories. The reliability term averages per-segment reliability
// rather than using the plan's own min-based field - the displayed guarantee
// is pessimistic, the ranking signal is representative.
func Score(plan *mmdf.JourneyPlan, preferences mmdf.UserPreferences) float64 {
	speedTerm := saturating(durationSaturationMinutes - plan.TotalDuration.Minutes())
	costTerm := saturating(costSaturation - plan.TotalCost)
	environmentTerm := saturating(emissionsSaturationGrams - plan.TotalEmissionsGrams)

	comfortTerm := plan.Comfort / 10
	accessibilityTerm := float64(plan.Accessibility) / 10

	reliabilitySum := 0.0
	for _, segment := range plan.Segments {
		reliabilitySum += segment.Reliability
	}
	reliabilityTerm := reliabilitySum / float64(len(plan.Segments))

	score := speedTerm/durationSaturationMinutes*weightFor(preferences.PrioritizeSpeed) +
		costTerm/costSaturation*weightFor(preferences.PrioritizeCost) +
		environmentTerm/emissionsSaturationGrams*weightFor(preferences.PrioritizeEnvironment) +
		comfortTerm*weightFor(preferences.PrioritizeComfort) +
		reliabilityTerm*reliabilityWeight

	if len(preferences.AccessibilityNeeds) > 0 {
		score += accessibilityTerm * accessibilityBoostedWeight
	} else {
		score += accessibilityTerm * accessibilityBaselineWeight
	}

	if len(preferences.PreferredModes) > 0 {
		preferredSegments := 0
		for _, segment := range plan.Segments {
			if segment.Mode != nil && preferences.Prefers(segment.Mode.Category) {
				preferredSegments++
			}
		}

		score += preferredModeBonus * float64(preferredSegments) / float64(len(plan.Segments))
	}

	if score > 1 {
		score = 1
	} else if score < 0 {
		score = 0
	}

	return score
}

func allRealtime(plan *mmdf.JourneyPlan) bool {
	for _, segment := range plan.Segments {
		if !segment.RealtimeAvailable {
			return false
		}
	}

	return true
}

func weightFor(prioritized bool) float64 {
	if prioritized {
		return boostedWeight
	}

	return baselineWeight
}

func saturating(value float64) float64 {
	if value < 0 {
		return 0
	}

	return value
}
