// Package assembler combines the segments returned by planning providers into
// candidate multi-modal journey plans and computes their aggregate metrics.
// It does pure combination - geographic feasibility is the providers' job, a
// provider should never return a last-mile segment that cannot connect to the
// request's destination.
package assembler

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"golang.org/x/exp/slices"
)

// TransferPenalty is added to the total duration of every two-segment plan to
// account for the interchange between modes.
const TransferPenalty = 5 * time.Minute

// PlanValidityWindow bounds how long a plan's quotes are trusted. Ride-hail
// surge pricing and bike dock availability are assumed stale past this.
const PlanValidityWindow = 30 * time.Minute

// ErrNoSegments is an internal invariant failure - a plan was about to be
// constructed with zero segments. The ranker and the monitoring loop both
// depend on plans being non-empty, so construction fails fast instead of
// silently dropping the plan.
var ErrNoSegments = errors.New("journey plan must contain at least one segment")

var lastMileCategories = []mmdf.ModeCategory{
	mmdf.ModeCategoryBikeShare,
	mmdf.ModeCategoryScooter,
	mmdf.ModeCategoryWalking,
}

// BuildPlans generates every candidate plan from the flattened segment list of
// one planning request: one single-segment plan per segment, plus one
// two-segment plan per (public trunk x active/shared last-mile) pairing.
func BuildPlans(segments []*mmdf.JourneySegment) ([]*mmdf.JourneyPlan, error) {
	var plans []*mmdf.JourneyPlan

	for _, segment := range segments {
		plan, err := NewPlan(segment)
		if err != nil {
			return nil, err
		}

		plans = append(plans, plan)
	}

	for _, trunk := range segments {
		if !isTrunk(trunk) {
			continue
		}

		for _, lastMile := range segments {
			if !isLastMile(lastMile) {
				continue
			}

			plan, err := NewPlan(trunk, lastMile)
			if err != nil {
				return nil, err
			}

			plans = append(plans, plan)
		}
	}

	return plans, nil
}

// NewPlan constructs a plan over the given segments and computes its
// aggregates. Totals are simple sums (plus the transfer penalty on duration
// for multi-segment plans), reliability and accessibility take the minimum
// across segments, comfort the average.
func NewPlan(segments ...*mmdf.JourneySegment) (*mmdf.JourneyPlan, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	creationTime := time.Now()

	plan := &mmdf.JourneyPlan{
		PrimaryIdentifier: uuid.New().String(),
		Segments:          segments,

		Reliability:   segments[0].Reliability,
		Accessibility: segments[0].AccessibilityScore,

		CreationDateTime: creationTime,
		ValidUntil:       creationTime.Add(PlanValidityWindow),
	}

	comfortSum := 0

	for _, segment := range segments {
		plan.TotalDuration += segment.Duration
		plan.TotalCost += segment.Cost
		plan.TotalDistanceKm += segment.DistanceKm
		plan.TotalEmissionsGrams += segment.EmissionsGrams

		if segment.Reliability < plan.Reliability {
			plan.Reliability = segment.Reliability
		}
		if segment.AccessibilityScore < plan.Accessibility {
			plan.Accessibility = segment.AccessibilityScore
		}

		comfortSum += segment.ComfortScore
	}

	plan.Comfort = float64(comfortSum) / float64(len(segments))

	if len(segments) > 1 {
		plan.TotalDuration += time.Duration(len(segments)-1) * TransferPenalty
	}

	return plan, nil
}

func isTrunk(segment *mmdf.JourneySegment) bool {
	return segment.Mode != nil && segment.Mode.Class == mmdf.ModeClassPublic
}

func isLastMile(segment *mmdf.JourneySegment) bool {
	return segment.Mode != nil && slices.Contains(lastMileCategories, segment.Mode.Category)
}
