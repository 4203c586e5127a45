// Package coordinator owns the provider registry, drives concurrent provider
// queries, assembles and ranks candidate plans, and keeps returned plans under
// real time monitoring until they expire.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/modalmesh/modalmesh/pkg/assembler"
	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
	"github.com/modalmesh/modalmesh/pkg/ranker"
)

var (
	ErrNoProvidersAvailable = errors.New("no registered provider supports the requested capability")
	ErrJourneyNotFound      = errors.New("journey plan is not tracked")
)

type JourneyState string

const (
	StatePlanned   JourneyState = "Planned"
	StateMonitored              = "Monitored"
	StateDisrupted              = "Disrupted"
	StateExpired                = "Expired"
	StateDropped                = "Dropped"
)

type TrackedJourney struct {
	Plan        *mmdf.JourneyPlan
	State       JourneyState
	Preferences mmdf.UserPreferences
}

type Config struct {
	// ProviderTimeout bounds every individual provider call so a slow provider
	// contributes nothing rather than stalling the whole request
	ProviderTimeout time.Duration

	MonitorInterval time.Duration

	// PlanRetries is how many times a failing plan call is retried (with
	// exponential backoff) before the provider is written off for the round
	PlanRetries uint64
}

const (
	defaultProviderTimeout = 10 * time.Second
	defaultMonitorInterval = 30 * time.Second
	defaultPlanRetries     = 2
)

type Coordinator struct {
	Registry *provider.Registry

	config Config

	trackedMutex sync.Mutex
	tracked      map[string]*TrackedJourney

	sinkMutex sync.Mutex
	sinks     []EventSink

	// overridden in tests to drive the monitoring loop deterministically
	now func() time.Time

	monitorMutex  sync.Mutex
	monitorCancel context.CancelFunc
	monitorDone   chan struct{}
}

func New(registry *provider.Registry, config Config) *Coordinator {
	if config.ProviderTimeout == 0 {
		config.ProviderTimeout = defaultProviderTimeout
	}
	if config.MonitorInterval == 0 {
		config.MonitorInterval = defaultMonitorInterval
	}
	if config.PlanRetries == 0 {
		config.PlanRetries = defaultPlanRetries
	}

	return &Coordinator{
		Registry: registry,
		config:   config,
		tracked:  map[string]*TrackedJourney{},
		now:      time.Now,
	}
}

func (c *Coordinator) RegisterProvider(p provider.Provider) {
	c.Registry.Register(p)

	c.emit(mmdf.EventTypeProviderStatusChanged, mmdf.ProviderStatusChangedEvent{
		ProviderID: p.Name(),
		Active:     true,
	})
}

func (c *Coordinator) UnregisterProvider(name string) {
	if !c.Registry.Unregister(name) {
		return
	}

	c.emit(mmdf.EventTypeProviderStatusChanged, mmdf.ProviderStatusChangedEvent{
		ProviderID: name,
		Active:     false,
	})
}

// PlanJourney queries every planning capable provider concurrently, combines
// their segments into candidate plans, ranks them and registers the shortlist
// for monitoring. An individual provider failing is logged and contributes
// zero segments - the call only fails if no provider can plan at all.
func (c *Coordinator) PlanJourney(ctx context.Context, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) ([]*mmdf.JourneyPlan, error) {
	planners := c.Registry.WithCapability(provider.CapabilityPlan)
	if len(planners) == 0 {
		return nil, ErrNoProvidersAvailable
	}

	// Indexed by planner so the segment union always concatenates in registry
	// order, whatever order the providers answer in. The registry sorts by
	// name, which makes the candidate list (and stable-sort tie-breaking)
	// repeatable across identical requests.
	providerSegments := make([][]*mmdf.JourneySegment, len(planners))

	p := pool.New()

	for i, planner := range planners {
		p.Go(func() {
			providerSegments[i] = c.planWithProvider(ctx, planner, origin, destination, preferences)
		})
	}

	p.Wait()

	var segments []*mmdf.JourneySegment
	for _, plannerSegments := range providerSegments {
		segments = append(segments, plannerSegments...)
	}

	plans, err := assembler.BuildPlans(segments)
	if err != nil {
		return nil, err
	}

	ranked := ranker.Rank(plans, preferences)

	c.trackedMutex.Lock()
	for _, plan := range ranked {
		c.tracked[plan.PrimaryIdentifier] = &TrackedJourney{
			Plan:        plan,
			State:       StatePlanned,
			Preferences: preferences,
		}
	}
	c.trackedMutex.Unlock()

	log.Info().
		Int("providers", len(planners)).
		Int("segments", len(segments)).
		Int("plans", len(ranked)).
		Msg("Journey planning complete")

	return ranked, nil
}

func (c *Coordinator) planWithProvider(ctx context.Context, p provider.Provider, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) []*mmdf.JourneySegment {
	callCtx, cancel := context.WithTimeout(ctx, c.config.ProviderTimeout)
	defer cancel()

	var segments []*mmdf.JourneySegment

	retryBackoff := backoff.WithMaxRetries(backoff.WithContext(backoff.NewExponentialBackOff(), callCtx), c.config.PlanRetries)

	err := backoff.Retry(func() error {
		var planErr error
		segments, planErr = p.Plan(callCtx, origin, destination, preferences)

		return planErr
	}, retryBackoff)

	if err != nil {
		log.Error().Err(err).Str("provider", p.Name()).Msg("Provider failed to plan - continuing without it")
		return nil
	}

	return segments
}

// BookJourney reserves every segment of the tracked plan that requires
// booking. Booking is best effort with no compensating rollback - on failure
// the bookings made so far are returned alongside the error so the caller can
// decide whether to cancel them through the providers directly.
func (c *Coordinator) BookJourney(ctx context.Context, planID string) ([]*mmdf.BookingInfo, error) {
	c.trackedMutex.Lock()
	journey := c.tracked[planID]
	c.trackedMutex.Unlock()

	if journey == nil {
		return nil, fmt.Errorf("%w: %s", ErrJourneyNotFound, planID)
	}

	bookers := c.Registry.WithCapability(provider.CapabilityBook)

	var bookings []*mmdf.BookingInfo

	for _, segment := range journey.Plan.Segments {
		if segment.Booking == nil || !segment.Booking.Required {
			continue
		}

		var bookingProvider provider.Provider
		for _, booker := range bookers {
			if booker.Name() == segment.ProviderName {
				bookingProvider = booker
				break
			}
		}

		if bookingProvider == nil {
			return bookings, fmt.Errorf("no booking capable provider for segment %s", segment.PrimaryIdentifier)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.config.ProviderTimeout)
		booking, err := bookingProvider.Book(callCtx, segment)
		cancel()

		if err != nil {
			return bookings, fmt.Errorf("booking segment %s with %s: %w", segment.PrimaryIdentifier, bookingProvider.Name(), err)
		}

		// The segment is shared with the monitoring tick, which copies the
		// whole plan when emitting events - the write has to be under the
		// same lock as that copy
		c.trackedMutex.Lock()
		segment.Booking = booking
		c.trackedMutex.Unlock()

		bookings = append(bookings, booking)

		log.Info().
			Str("plan", planID).
			Str("segment", segment.PrimaryIdentifier).
			Str("provider", bookingProvider.Name()).
			Str("reference", booking.BookingReference).
			Msg("Segment booked")
	}

	return bookings, nil
}

// CancelJourneyMonitoring drops the plan from the tracked table. A straggler
// update for the plan already in flight this tick is discarded on arrival.
func (c *Coordinator) CancelJourneyMonitoring(planID string) {
	c.trackedMutex.Lock()
	defer c.trackedMutex.Unlock()

	if journey := c.tracked[planID]; journey != nil {
		journey.State = StateDropped
		delete(c.tracked, planID)

		log.Debug().Str("plan", planID).Msg("Journey monitoring cancelled")
	}
}

func (c *Coordinator) GetTrackedJourney(planID string) (*TrackedJourney, error) {
	c.trackedMutex.Lock()
	defer c.trackedMutex.Unlock()

	journey := c.tracked[planID]
	if journey == nil {
		return nil, fmt.Errorf("%w: %s", ErrJourneyNotFound, planID)
	}

	return journey, nil
}

// TrackedJourneys snapshots the tracked table sorted by plan identifier
func (c *Coordinator) TrackedJourneys() []*TrackedJourney {
	c.trackedMutex.Lock()
	defer c.trackedMutex.Unlock()

	journeys := make([]*TrackedJourney, 0, len(c.tracked))
	for _, journey := range c.tracked {
		journeys = append(journeys, journey)
	}

	sortTrackedJourneys(journeys)

	return journeys
}
