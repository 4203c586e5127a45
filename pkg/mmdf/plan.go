package mmdf

import "time"

// JourneyPlan is an ordered sequence of 1-2 segments representing one complete
// journey option, plus the aggregates the assembler computed over them.
//
// Reliability and Accessibility use the minimum across segments - the worst
// segment bounds the guarantee the plan can make. Comfort is the average.
type JourneyPlan struct {
	PrimaryIdentifier string `groups:"basic"`

	Segments []*JourneySegment `groups:"basic"`

	TotalDuration       time.Duration `groups:"basic"`
	TotalCost           float64       `groups:"basic"`
	TotalDistanceKm     float64       `groups:"basic"`
	TotalEmissionsGrams float64       `groups:"basic"`

	Reliability   float64 `groups:"basic"` // min across segments, 0-1
	Comfort       float64 `groups:"basic"` // average across segments, 1-10
	Accessibility int     `groups:"basic"` // min across segments, 1-10

	MatchScore float64 `groups:"basic"`

	CreationDateTime time.Time `groups:"detailed"`
	ValidUntil       time.Time `groups:"basic"`
}

func (p *JourneyPlan) HasExpired(checkTime time.Time) bool {
	return !checkTime.Before(p.ValidUntil)
}

// ContainsSegment reports whether the plan references the given segment
// identity
func (p *JourneyPlan) ContainsSegment(segmentID string) bool {
	for _, segment := range p.Segments {
		if segment.PrimaryIdentifier == segmentID {
			return true
		}
	}

	return false
}
