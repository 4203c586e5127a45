package simulated

import (
	"context"
	"fmt"
	"time"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

// WalkingProvider produces walking segments for short distances. No live
// updates, no booking - pavement conditions are nobody's responsibility.
type WalkingProvider struct {
	baseProvider
}

const defaultWalkingRangeKm = 2.0

func NewWalkingProvider(config ProviderConfig) *WalkingProvider {
	return &WalkingProvider{
		baseProvider: newBaseProvider(config, mmdf.ModeClassActive),
	}
}

func (p *WalkingProvider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		CanPlan:                    true,
		CanIntegrateWithOtherModes: true,

		CoverageArea: p.config.CoverageArea,
	}
}

func (p *WalkingProvider) Plan(_ context.Context, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) ([]*mmdf.JourneySegment, error) {
	if preferences.Avoids(p.config.Category) {
		return nil, nil
	}

	maxRange := p.config.RangeKm
	if maxRange == 0 {
		maxRange = defaultWalkingRangeKm
	}
	if preferences.MaxWalkingDistanceKm > 0 && preferences.MaxWalkingDistanceKm < maxRange {
		maxRange = preferences.MaxWalkingDistanceKm
	}

	if origin.DistanceKm(destination) > maxRange {
		return nil, nil
	}

	segment := p.buildSegment(origin, destination, time.Now())
	segment.Cost = 0
	segment.EmissionsGrams = 0

	return []*mmdf.JourneySegment{segment}, nil
}

func (p *WalkingProvider) Book(_ context.Context, _ *mmdf.JourneySegment) (*mmdf.BookingInfo, error) {
	return nil, fmt.Errorf("%s does not take bookings", p.Name())
}

func (p *WalkingProvider) Alternatives(_ context.Context, _ *mmdf.JourneySegment) ([]*mmdf.JourneySegment, error) {
	return nil, nil
}
