package simulated

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
)

// baseProvider carries the pieces every simulated provider shares: its fleet
// config, the mode descriptor its segments reference, and the injected update
// log that backs ReportUpdates.
type baseProvider struct {
	config ProviderConfig
	mode   *mmdf.TransportMode

	updatesMutex sync.Mutex
	updates      map[string][]*mmdf.RealTimeUpdate
}

func newBaseProvider(config ProviderConfig, class mmdf.ModeClass) baseProvider {
	return baseProvider{
		config: config,
		mode: &mmdf.TransportMode{
			PrimaryIdentifier: fmt.Sprintf("SIM:MODE:%s", strings.ToUpper(config.Name)),
			Name:              config.Name,

			Category: config.Category,
			Class:    class,

			CostPerKm:       config.CostPerKm,
			AverageSpeedKph: config.AverageSpeedKph,
			EmissionsPerKm:  config.EmissionsPerKm,

			AccessibilityScore: config.AccessibilityScore,
		},
		updates: map[string][]*mmdf.RealTimeUpdate{},
	}
}

func (p *baseProvider) Name() string {
	return p.config.Name
}

// InjectUpdate queues a real time update to be returned on the next
// ReportUpdates call for that segment. Demo commands and tests use this to
// script disruptions.
func (p *baseProvider) InjectUpdate(update *mmdf.RealTimeUpdate) {
	p.updatesMutex.Lock()
	defer p.updatesMutex.Unlock()

	p.updates[update.SegmentID] = append(p.updates[update.SegmentID], update)
}

// ReportUpdates drains the pending updates for the segment. Safe to call
// repeatedly and concurrently for different segment ids.
func (p *baseProvider) ReportUpdates(_ context.Context, segmentID string) ([]*mmdf.RealTimeUpdate, error) {
	p.updatesMutex.Lock()
	defer p.updatesMutex.Unlock()

	pending := p.updates[segmentID]
	delete(p.updates, segmentID)

	return pending, nil
}

// covers checks both endpoints sit within the provider's coverage circle. A
// zero range means the provider covers everywhere.
func (p *baseProvider) covers(origin mmdf.LocationPoint, destination mmdf.LocationPoint) bool {
	if p.config.RangeKm == 0 {
		return true
	}

	centre := mmdf.LocationPoint{Latitude: p.config.CentreLat, Longitude: p.config.CentreLon}

	return centre.DistanceKm(origin) <= p.config.RangeKm && centre.DistanceKm(destination) <= p.config.RangeKm
}

// buildSegment generates one segment between the two points using the
// provider's mode economics
func (p *baseProvider) buildSegment(origin mmdf.LocationPoint, destination mmdf.LocationPoint, departureTime time.Time) *mmdf.JourneySegment {
	distanceKm := origin.DistanceKm(destination)

	speed := p.config.AverageSpeedKph
	if speed == 0 {
		speed = 20
	}

	duration := time.Duration(distanceKm / speed * float64(time.Hour))

	return &mmdf.JourneySegment{
		PrimaryIdentifier: fmt.Sprintf("SIM:%s:%s", strings.ToUpper(string(p.config.Category)), uuid.New().String()),
		ProviderName:      p.config.Name,

		Mode: p.mode,

		Origin:      origin,
		Destination: destination,

		DepartureTime: departureTime,
		ArrivalTime:   departureTime.Add(duration),

		Duration:   duration,
		DistanceKm: distanceKm,

		Cost:           p.config.BaseFare + p.config.CostPerKm*distanceKm,
		EmissionsGrams: p.config.EmissionsPerKm * distanceKm,

		Reliability:        p.config.Reliability,
		ComfortScore:       p.config.ComfortScore,
		AccessibilityScore: p.config.AccessibilityScore,
	}
}
