package provider

import (
	"context"
	"errors"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
)

var ErrBookingUnavailable = errors.New("provider has no remaining capacity for this segment")

type Capability string

const (
	CapabilityPlan                Capability = "Plan"
	CapabilityReportUpdates                  = "ReportUpdates"
	CapabilityBook                           = "Book"
	CapabilitySuggestAlternatives            = "SuggestAlternatives"
)

// Capabilities are declared once at provider construction and never change at
// runtime. A provider that becomes unavailable reports empty results, it does
// not change its declared capability set.
type Capabilities struct {
	CanPlan                    bool
	CanReportUpdates           bool
	CanBook                    bool
	CanSuggestAlternatives     bool
	CanIntegrateWithOtherModes bool

	CoverageArea string
}

func (c Capabilities) Has(capability Capability) bool {
	switch capability {
	case CapabilityPlan:
		return c.CanPlan
	case CapabilityReportUpdates:
		return c.CanReportUpdates
	case CapabilityBook:
		return c.CanBook
	case CapabilitySuggestAlternatives:
		return c.CanSuggestAlternatives
	}

	return false
}

// Provider is a single transportation service adapter.
//
// Plan must return an empty list - never an error - when the provider has
// nothing suitable for the request: preferences exclude its mode, the distance
// is outside its serviceable range, and so on. An error means the provider
// itself failed and the coordinator treats it as unavailable for that round.
// Segment identifiers must be stable and unique within the provider.
type Provider interface {
	Name() string
	Capabilities() Capabilities

	Plan(ctx context.Context, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) ([]*mmdf.JourneySegment, error)

	ReportUpdates(ctx context.Context, segmentID string) ([]*mmdf.RealTimeUpdate, error)

	Book(ctx context.Context, segment *mmdf.JourneySegment) (*mmdf.BookingInfo, error)

	Alternatives(ctx context.Context, segment *mmdf.JourneySegment) ([]*mmdf.JourneySegment, error)
}
