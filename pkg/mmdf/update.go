package mmdf

import "time"

type UpdateType string

const (
	UpdateTypeDelay          UpdateType = "Delay"
	UpdateTypeCancellation              = "Cancellation"
	UpdateTypePlatformChange            = "PlatformChange"
	UpdateTypeDisruption                = "Disruption"
	UpdateTypeCapacity                  = "Capacity"
)

type UpdateSeverity string

const (
	UpdateSeverityLow      UpdateSeverity = "Low"
	UpdateSeverityMedium                  = "Medium"
	UpdateSeverityHigh                    = "High"
	UpdateSeverityCritical                = "Critical"
)

// RealTimeUpdate is a live condition event a provider raises about a segment
// it previously returned. Never mutated after creation.
type RealTimeUpdate struct {
	SegmentID string `groups:"basic"`

	Type     UpdateType     `groups:"basic"`
	Severity UpdateSeverity `groups:"basic"`

	Message string `groups:"basic"`

	EstimatedDelay time.Duration `groups:"basic" json:",omitempty"`

	// Alternatives the provider already computed itself, if any
	Alternatives []*JourneySegment `groups:"detailed" json:",omitempty"`

	Timestamp time.Time `groups:"basic"`
}

// IsDisruption reports whether the update is severe enough to trigger
// alternative discovery for the affected segment
func (u *RealTimeUpdate) IsDisruption() bool {
	return u.Severity == UpdateSeverityCritical || u.Type == UpdateTypeCancellation
}
