package simulated

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
	"github.com/modalmesh/modalmesh/pkg/redis_client"
)

// RideHailProvider simulates an on-demand car service. Segments require a
// booking, fares carry a surge multiplier, and quotes are held in the quote
// cache when redis is connected so back to back requests price consistently.
type RideHailProvider struct {
	baseProvider

	quoteCache QuoteCache

	capacityMutex sync.Mutex
	hasCapacity   bool
}

func NewRideHailProvider(config ProviderConfig) *RideHailProvider {
	p := &RideHailProvider{
		baseProvider: newBaseProvider(config, mmdf.ModeClassShared),
		hasCapacity:  true,
	}

	if redis_client.Client != nil {
		p.quoteCache.Setup()
	}

	return p
}

func (p *RideHailProvider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		CanPlan:                    true,
		CanReportUpdates:           true,
		CanBook:                    true,
		CanSuggestAlternatives:     true,
		CanIntegrateWithOtherModes: true,

		CoverageArea: p.config.CoverageArea,
	}
}

// SetCapacity flips whether booking attempts succeed. Capacity disappearing
// between planning and booking is exactly the window this simulates.
func (p *RideHailProvider) SetCapacity(available bool) {
	p.capacityMutex.Lock()
	defer p.capacityMutex.Unlock()

	p.hasCapacity = available
}

func (p *RideHailProvider) Plan(_ context.Context, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) ([]*mmdf.JourneySegment, error) {
	if preferences.Avoids(p.config.Category) {
		return nil, nil
	}

	if !p.covers(origin, destination) {
		return nil, nil
	}

	segment := p.buildSegment(origin, destination, time.Now().Add(3*time.Minute))
	segment.RealtimeAvailable = true
	segment.Cost = p.quotedFare(origin, destination, segment.Cost)

	segment.Booking = &mmdf.BookingInfo{
		Required:     true,
		ProviderName: p.Name(),

		EstimatedWaitTime: 3 * time.Minute,

		CancellationPolicy: "Free cancellation up to 2 minutes after booking",
	}

	return []*mmdf.JourneySegment{segment}, nil
}

func (p *RideHailProvider) quotedFare(origin mmdf.LocationPoint, destination mmdf.LocationPoint, baseFare float64) float64 {
	quoteKey := fmt.Sprintf("quote/%s/%.4f,%.4f/%.4f,%.4f",
		p.Name(), origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)

	if fare, cached := p.quoteCache.Get(quoteKey); cached {
		return fare
	}

	fare := baseFare * p.surgeMultiplier(time.Now())
	p.quoteCache.Set(quoteKey, fare)

	return fare
}

// surgeMultiplier bumps fares during the morning and evening peaks
func (p *RideHailProvider) surgeMultiplier(at time.Time) float64 {
	hour := at.Hour()

	if (hour >= 7 && hour < 10) || (hour >= 16 && hour < 19) {
		return 1.5
	}

	return 1
}

func (p *RideHailProvider) Book(_ context.Context, segment *mmdf.JourneySegment) (*mmdf.BookingInfo, error) {
	p.capacityMutex.Lock()
	defer p.capacityMutex.Unlock()

	if !p.hasCapacity {
		return nil, provider.ErrBookingUnavailable
	}

	return &mmdf.BookingInfo{
		Required:     true,
		ProviderName: p.Name(),

		BookingReference: fmt.Sprintf("RH-%s", uuid.New().String()),

		EstimatedWaitTime: 3 * time.Minute,

		CancellationPolicy: "Free cancellation up to 2 minutes after booking",
	}, nil
}

func (p *RideHailProvider) Alternatives(_ context.Context, segment *mmdf.JourneySegment) ([]*mmdf.JourneySegment, error) {
	if !p.covers(segment.Origin, segment.Destination) {
		return nil, nil
	}

	replacement := p.buildSegment(segment.Origin, segment.Destination, time.Now().Add(5*time.Minute))
	replacement.RealtimeAvailable = true
	replacement.Cost = p.quotedFare(segment.Origin, segment.Destination, replacement.Cost)
	replacement.Booking = &mmdf.BookingInfo{
		Required:     true,
		ProviderName: p.Name(),

		EstimatedWaitTime: 5 * time.Minute,
	}

	return []*mmdf.JourneySegment{replacement}, nil
}
