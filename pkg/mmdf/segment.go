package mmdf

import "time"

// JourneySegment is one leg of travel using a single transport mode. Created
// by a provider in response to a planning request and immutable once returned,
// except Booking which the provider attaches after a successful reservation.
//
// PrimaryIdentifier is provider-scoped and stays stable for the lifetime of
// any plan referencing the segment, so later RealTimeUpdates can be correlated
// back to it.
type JourneySegment struct {
	PrimaryIdentifier string `groups:"basic"`
	ProviderName      string `groups:"basic"`

	Mode *TransportMode `groups:"basic"`

	Origin      LocationPoint `groups:"basic"`
	Destination LocationPoint `groups:"basic"`

	DepartureTime time.Time `groups:"basic"`
	ArrivalTime   time.Time `groups:"basic"`

	Duration   time.Duration `groups:"basic"`
	DistanceKm float64       `groups:"basic"`

	Cost           float64 `groups:"basic"`
	EmissionsGrams float64 `groups:"detailed"`

	Reliability        float64 `groups:"detailed"` // 0-1
	ComfortScore       int     `groups:"detailed"` // 1-10
	AccessibilityScore int     `groups:"detailed"` // 1-10

	RealtimeAvailable bool `groups:"detailed"`

	Booking *BookingInfo `groups:"detailed" json:",omitempty"`
}
