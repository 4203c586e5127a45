package simulated

import (
	"context"
	"fmt"
	"time"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

// BikeShareProvider simulates a docked bike or scooter share scheme. It only
// serves short hops, making it the usual last-mile pairing for a public
// transport trunk.
type BikeShareProvider struct {
	baseProvider
}

const defaultBikeShareRangeKm = 5.0

func NewBikeShareProvider(config ProviderConfig) *BikeShareProvider {
	return &BikeShareProvider{
		baseProvider: newBaseProvider(config, mmdf.ModeClassShared),
	}
}

func (p *BikeShareProvider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		CanPlan:                    true,
		CanReportUpdates:           true,
		CanSuggestAlternatives:     true,
		CanIntegrateWithOtherModes: true,

		CoverageArea: p.config.CoverageArea,
	}
}

func (p *BikeShareProvider) Plan(_ context.Context, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) ([]*mmdf.JourneySegment, error) {
	if preferences.Avoids(p.config.Category) {
		return nil, nil
	}

	if !p.covers(origin, destination) {
		return nil, nil
	}

	maxRange := p.config.RangeKm
	if maxRange == 0 {
		maxRange = defaultBikeShareRangeKm
	}

	if origin.DistanceKm(destination) > maxRange {
		return nil, nil
	}

	segment := p.buildSegment(origin, destination, time.Now().Add(2*time.Minute))
	segment.RealtimeAvailable = true

	return []*mmdf.JourneySegment{segment}, nil
}

func (p *BikeShareProvider) Book(_ context.Context, _ *mmdf.JourneySegment) (*mmdf.BookingInfo, error) {
	return nil, fmt.Errorf("%s does not take bookings", p.Name())
}

func (p *BikeShareProvider) Alternatives(_ context.Context, segment *mmdf.JourneySegment) ([]*mmdf.JourneySegment, error) {
	if !p.covers(segment.Origin, segment.Destination) {
		return nil, nil
	}

	replacement := p.buildSegment(segment.Origin, segment.Destination, time.Now().Add(4*time.Minute))
	replacement.RealtimeAvailable = true

	return []*mmdf.JourneySegment{replacement}, nil
}
