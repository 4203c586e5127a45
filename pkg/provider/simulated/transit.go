package simulated

import (
	"context"
	"fmt"
	"time"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

// TransitProvider simulates a scheduled public transport operator. Departures
// run on a fixed headway, so each planning request gets the next few services
// after the request time.
type TransitProvider struct {
	baseProvider

	headway time.Duration
}

const transitDeparturesPerRequest = 2

func NewTransitProvider(config ProviderConfig) (*TransitProvider, error) {
	headway, err := config.headway()
	if err != nil {
		return nil, err
	}

	return &TransitProvider{
		baseProvider: newBaseProvider(config, mmdf.ModeClassPublic),
		headway:      headway,
	}, nil
}

func (p *TransitProvider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		CanPlan:                    true,
		CanReportUpdates:           true,
		CanSuggestAlternatives:     true,
		CanIntegrateWithOtherModes: true,

		CoverageArea: p.config.CoverageArea,
	}
}

func (p *TransitProvider) Plan(_ context.Context, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) ([]*mmdf.JourneySegment, error) {
	if preferences.Avoids(p.config.Category) {
		return nil, nil
	}

	if !p.covers(origin, destination) {
		return nil, nil
	}

	var segments []*mmdf.JourneySegment

	nextDeparture := time.Now().Add(p.headway / 2)
	for i := 0; i < transitDeparturesPerRequest; i++ {
		segment := p.buildSegment(origin, destination, nextDeparture)
		segment.RealtimeAvailable = true

		segments = append(segments, segment)

		nextDeparture = nextDeparture.Add(p.headway)
	}

	return segments, nil
}

func (p *TransitProvider) Book(_ context.Context, _ *mmdf.JourneySegment) (*mmdf.BookingInfo, error) {
	return nil, fmt.Errorf("%s does not take bookings", p.Name())
}

// Alternatives proposes the next scheduled services for the disrupted
// segment's origin and destination
func (p *TransitProvider) Alternatives(_ context.Context, segment *mmdf.JourneySegment) ([]*mmdf.JourneySegment, error) {
	if !p.covers(segment.Origin, segment.Destination) {
		return nil, nil
	}

	replacement := p.buildSegment(segment.Origin, segment.Destination, time.Now().Add(p.headway))
	replacement.RealtimeAvailable = true

	return []*mmdf.JourneySegment{replacement}, nil
}
