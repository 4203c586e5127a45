package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

type fakeProvider struct {
	name         string
	capabilities provider.Capabilities

	planSegments []*mmdf.JourneySegment
	planErr      error
	planDelay    time.Duration
	planCalls    int

	updates          []*mmdf.RealTimeUpdate
	updatesBySegment map[string][]*mmdf.RealTimeUpdate
	updateDelays     map[string]time.Duration
	updatesErr       error

	booking *mmdf.BookingInfo
	bookErr error

	alternatives    []*mmdf.JourneySegment
	alternativesErr error
}

func (f *fakeProvider) Name() string                        { return f.name }
func (f *fakeProvider) Capabilities() provider.Capabilities { return f.capabilities }

func (f *fakeProvider) Plan(ctx context.Context, origin mmdf.LocationPoint, destination mmdf.LocationPoint, preferences mmdf.UserPreferences) ([]*mmdf.JourneySegment, error) {
	f.planCalls++
	time.Sleep(f.planDelay)
	return f.planSegments, f.planErr
}

func (f *fakeProvider) ReportUpdates(ctx context.Context, segmentID string) ([]*mmdf.RealTimeUpdate, error) {
	time.Sleep(f.updateDelays[segmentID])

	if f.updatesBySegment != nil {
		return f.updatesBySegment[segmentID], f.updatesErr
	}

	return f.updates, f.updatesErr
}

func (f *fakeProvider) Book(ctx context.Context, segment *mmdf.JourneySegment) (*mmdf.BookingInfo, error) {
	return f.booking, f.bookErr
}

func (f *fakeProvider) Alternatives(ctx context.Context, segment *mmdf.JourneySegment) ([]*mmdf.JourneySegment, error) {
	return f.alternatives, f.alternativesErr
}

func metroSegment(id string, providerName string) *mmdf.JourneySegment {
	return &mmdf.JourneySegment{
		PrimaryIdentifier: id,
		ProviderName:      providerName,

		Mode: &mmdf.TransportMode{
			Category: mmdf.ModeCategoryMetro,
			Class:    mmdf.ModeClassPublic,
		},

		Duration:   20 * time.Minute,
		DistanceKm: 8,
		Cost:       2.5,

		EmissionsGrams: 200,

		Reliability:        0.9,
		ComfortScore:       6,
		AccessibilityScore: 7,
	}
}

func trackedPlanFixture(planID string, segments ...*mmdf.JourneySegment) *mmdf.JourneyPlan {
	return &mmdf.JourneyPlan{
		PrimaryIdentifier: planID,
		Segments:          segments,

		Reliability: 0.9,

		ValidUntil: time.Now().Add(30 * time.Minute),
	}
}

func (c *Coordinator) track(plan *mmdf.JourneyPlan, state JourneyState) {
	c.trackedMutex.Lock()
	c.tracked[plan.PrimaryIdentifier] = &TrackedJourney{Plan: plan, State: state}
	c.trackedMutex.Unlock()
}

func drainEvents(sink *ChannelSink) []mmdf.Event {
	var events []mmdf.Event
	for {
		select {
		case event := <-sink.Events():
			events = append(events, event)
		default:
			return events
		}
	}
}

var testOrigin = mmdf.LocationPoint{Latitude: 51.5074, Longitude: -0.1278}
var testDestination = mmdf.LocationPoint{Latitude: 51.5154, Longitude: -0.1755}

func TestPlanJourneyNoProviders(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	_, err := coordinator.PlanJourney(context.Background(), testOrigin, testDestination, mmdf.UserPreferences{})

	assert.ErrorIs(t, err, ErrNoProvidersAvailable)
}

func TestPlanJourneyTracksRankedPlans(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	coordinator.RegisterProvider(&fakeProvider{
		name:         "city-metro",
		capabilities: provider.Capabilities{CanPlan: true},
		planSegments: []*mmdf.JourneySegment{metroSegment("SIM:METRO:1", "city-metro")},
	})

	plans, err := coordinator.PlanJourney(context.Background(), testOrigin, testDestination, mmdf.UserPreferences{})

	require.NoError(t, err)
	require.Len(t, plans, 1)

	journey, err := coordinator.GetTrackedJourney(plans[0].PrimaryIdentifier)
	require.NoError(t, err)
	assert.Equal(t, StatePlanned, journey.State)
}

func TestPlanJourneyAbsorbsFailingProvider(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{PlanRetries: 1})

	working := &fakeProvider{
		name:         "city-metro",
		capabilities: provider.Capabilities{CanPlan: true},
		planSegments: []*mmdf.JourneySegment{metroSegment("SIM:METRO:1", "city-metro")},
	}
	broken := &fakeProvider{
		name:         "flaky-rides",
		capabilities: provider.Capabilities{CanPlan: true},
		planErr:      errors.New("upstream down"),
	}

	coordinator.RegisterProvider(working)
	coordinator.RegisterProvider(broken)

	plans, err := coordinator.PlanJourney(context.Background(), testOrigin, testDestination, mmdf.UserPreferences{})

	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "SIM:METRO:1", plans[0].Segments[0].PrimaryIdentifier)

	assert.GreaterOrEqual(t, broken.planCalls, 1)
}

func TestPlanJourneySegmentOrderIndependentOfProviderLatency(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	// alpha answers last - its segments must still come first because the
	// registry orders planners by name
	coordinator.RegisterProvider(&fakeProvider{
		name:         "alpha-metro",
		capabilities: provider.Capabilities{CanPlan: true},
		planSegments: []*mmdf.JourneySegment{metroSegment("SIM:METRO:ALPHA", "alpha-metro")},
		planDelay:    30 * time.Millisecond,
	})
	coordinator.RegisterProvider(&fakeProvider{
		name:         "beta-metro",
		capabilities: provider.Capabilities{CanPlan: true},
		planSegments: []*mmdf.JourneySegment{metroSegment("SIM:METRO:BETA", "beta-metro")},
	})

	plans, err := coordinator.PlanJourney(context.Background(), testOrigin, testDestination, mmdf.UserPreferences{})

	require.NoError(t, err)
	require.Len(t, plans, 2)

	// identical economics tie on score, so the stable sort preserves
	// candidate order and the slower provider cannot reshuffle the result
	assert.Equal(t, "SIM:METRO:ALPHA", plans[0].Segments[0].PrimaryIdentifier)
	assert.Equal(t, "SIM:METRO:BETA", plans[1].Segments[0].PrimaryIdentifier)
}

func TestPlanJourneySkipsNonPlanningProviders(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	updatesOnly := &fakeProvider{
		name:         "status-feed",
		capabilities: provider.Capabilities{CanReportUpdates: true},
	}
	coordinator.RegisterProvider(updatesOnly)

	_, err := coordinator.PlanJourney(context.Background(), testOrigin, testDestination, mmdf.UserPreferences{})

	assert.ErrorIs(t, err, ErrNoProvidersAvailable)
	assert.Zero(t, updatesOnly.planCalls)
}

func TestRegisterProviderEmitsStatusEvent(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	sink := NewChannelSink(8)
	coordinator.AddEventSink(sink)

	coordinator.RegisterProvider(&fakeProvider{name: "city-metro"})
	coordinator.UnregisterProvider("city-metro")
	coordinator.UnregisterProvider("never-registered")

	events := drainEvents(sink)

	require.Len(t, events, 2)

	registered := events[0].Body.(mmdf.ProviderStatusChangedEvent)
	assert.Equal(t, "city-metro", registered.ProviderID)
	assert.True(t, registered.Active)

	unregistered := events[1].Body.(mmdf.ProviderStatusChangedEvent)
	assert.False(t, unregistered.Active)
}

func TestBookJourneyUnknownPlan(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	_, err := coordinator.BookJourney(context.Background(), "no-such-plan")

	assert.ErrorIs(t, err, ErrJourneyNotFound)
}

func TestBookJourneyBooksRequiredSegments(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	coordinator.RegisterProvider(&fakeProvider{
		name:         "swift-rides",
		capabilities: provider.Capabilities{CanBook: true},
		booking: &mmdf.BookingInfo{
			Required:         true,
			ProviderName:     "swift-rides",
			BookingReference: "RH-1234",
		},
	})

	rideSegment := metroSegment("SIM:RIDEHAIL:1", "swift-rides")
	rideSegment.Booking = &mmdf.BookingInfo{Required: true, ProviderName: "swift-rides"}

	walkSegment := metroSegment("SIM:WALKING:1", "on-foot")

	plan := trackedPlanFixture("plan-1", rideSegment, walkSegment)
	coordinator.track(plan, StatePlanned)

	bookings, err := coordinator.BookJourney(context.Background(), "plan-1")

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "RH-1234", bookings[0].BookingReference)

	// confirmed booking is attached back onto the segment
	assert.Equal(t, "RH-1234", rideSegment.Booking.BookingReference)
	assert.Nil(t, walkSegment.Booking)
}

func TestBookJourneyReturnsPartialBookingsOnFailure(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	coordinator.RegisterProvider(&fakeProvider{
		name:         "swift-rides",
		capabilities: provider.Capabilities{CanBook: true},
		booking: &mmdf.BookingInfo{
			Required:         true,
			ProviderName:     "swift-rides",
			BookingReference: "RH-1234",
		},
	})
	coordinator.RegisterProvider(&fakeProvider{
		name:         "dock-cycles",
		capabilities: provider.Capabilities{CanBook: true},
		bookErr:      provider.ErrBookingUnavailable,
	})

	firstSegment := metroSegment("SIM:RIDEHAIL:1", "swift-rides")
	firstSegment.Booking = &mmdf.BookingInfo{Required: true, ProviderName: "swift-rides"}

	secondSegment := metroSegment("SIM:BIKESHARE:1", "dock-cycles")
	secondSegment.Booking = &mmdf.BookingInfo{Required: true, ProviderName: "dock-cycles"}

	plan := trackedPlanFixture("plan-1", firstSegment, secondSegment)
	coordinator.track(plan, StatePlanned)

	bookings, err := coordinator.BookJourney(context.Background(), "plan-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrBookingUnavailable)

	// the first segment booked before the failure and stays booked
	require.Len(t, bookings, 1)
	assert.Equal(t, "RH-1234", bookings[0].BookingReference)
}

func TestBookJourneyNoBookingProviderForSegment(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	segment := metroSegment("SIM:RIDEHAIL:1", "swift-rides")
	segment.Booking = &mmdf.BookingInfo{Required: true, ProviderName: "swift-rides"}

	plan := trackedPlanFixture("plan-1", segment)
	coordinator.track(plan, StatePlanned)

	bookings, err := coordinator.BookJourney(context.Background(), "plan-1")

	assert.Error(t, err)
	assert.Empty(t, bookings)
}

func TestMonitoringTickExpiresStalePlans(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	plan := trackedPlanFixture("plan-1", metroSegment("SIM:METRO:1", "city-metro"))
	coordinator.track(plan, StatePlanned)

	coordinator.monitoringTick(plan.ValidUntil.Add(time.Minute))

	_, err := coordinator.GetTrackedJourney("plan-1")
	assert.ErrorIs(t, err, ErrJourneyNotFound)

	_, err = coordinator.BookJourney(context.Background(), "plan-1")
	assert.ErrorIs(t, err, ErrJourneyNotFound)
}

func TestMonitoringTickMovesPlannedToMonitored(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	coordinator.RegisterProvider(&fakeProvider{
		name:         "city-metro",
		capabilities: provider.Capabilities{CanReportUpdates: true},
	})

	plan := trackedPlanFixture("plan-1", metroSegment("SIM:METRO:1", "city-metro"))
	coordinator.track(plan, StatePlanned)

	coordinator.monitoringTick(time.Now())

	journey, err := coordinator.GetTrackedJourney("plan-1")
	require.NoError(t, err)
	assert.Equal(t, JourneyState(StateMonitored), journey.State)
}

func TestMonitoringTickDisruptionTriggersAlternatives(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	sink := NewChannelSink(32)
	coordinator.AddEventSink(sink)

	disruption := &mmdf.RealTimeUpdate{
		SegmentID: "SIM:METRO:1",
		Type:      mmdf.UpdateTypeCancellation,
		Severity:  mmdf.UpdateSeverityCritical,
		Message:   "line suspended",
	}

	coordinator.RegisterProvider(&fakeProvider{
		name:         "city-metro",
		capabilities: provider.Capabilities{CanReportUpdates: true},
		updates:      []*mmdf.RealTimeUpdate{disruption},
	})
	coordinator.RegisterProvider(&fakeProvider{
		name:         "crosstown-bus",
		capabilities: provider.Capabilities{CanSuggestAlternatives: true},
		alternatives: []*mmdf.JourneySegment{metroSegment("SIM:BUS:9", "crosstown-bus")},
	})
	coordinator.RegisterProvider(&fakeProvider{
		name:            "dock-cycles",
		capabilities:    provider.Capabilities{CanSuggestAlternatives: true},
		alternativesErr: errors.New("no docks nearby"),
	})

	plan := trackedPlanFixture("plan-1", metroSegment("SIM:METRO:1", "city-metro"))
	coordinator.track(plan, StateMonitored)

	coordinator.monitoringTick(time.Now())

	journey, err := coordinator.GetTrackedJourney("plan-1")
	require.NoError(t, err)
	assert.Equal(t, JourneyState(StateDisrupted), journey.State)

	events := drainEvents(sink)

	var journeyUpdates []mmdf.JourneyUpdateEvent
	var alternativesFound []mmdf.AlternativesFoundEvent
	for _, event := range events {
		switch body := event.Body.(type) {
		case mmdf.JourneyUpdateEvent:
			journeyUpdates = append(journeyUpdates, body)
		case mmdf.AlternativesFoundEvent:
			alternativesFound = append(alternativesFound, body)
		}
	}

	require.Len(t, journeyUpdates, 1)
	assert.Equal(t, "plan-1", journeyUpdates[0].PlanID)
	assert.Equal(t, disruption, journeyUpdates[0].Update)

	// the failing alternatives provider is skipped, one event per responder
	require.Len(t, alternativesFound, 1)
	assert.Equal(t, "crosstown-bus", alternativesFound[0].ProviderName)
	assert.Equal(t, "SIM:METRO:1", alternativesFound[0].OriginalSegmentID)
	require.Len(t, alternativesFound[0].Alternatives, 1)

	// subscribers get a copy, not a window into tracked state
	journeyUpdates[0].Plan.Segments[0].PrimaryIdentifier = "mutated"
	assert.Equal(t, "SIM:METRO:1", plan.Segments[0].PrimaryIdentifier)
}

func TestMonitoringTickAttributesUpdatesToTheQueriedPlan(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	sink := NewChannelSink(32)
	coordinator.AddEventSink(sink)

	disruption := &mmdf.RealTimeUpdate{
		SegmentID: "SIM:METRO:A",
		Type:      mmdf.UpdateTypeCancellation,
		Severity:  mmdf.UpdateSeverityCritical,
		Message:   "line suspended",
	}

	// the disrupted segment's query resolves last, so a completion-ordered
	// result join would pin its update on the other plan
	coordinator.RegisterProvider(&fakeProvider{
		name:         "status-feed",
		capabilities: provider.Capabilities{CanReportUpdates: true},
		updatesBySegment: map[string][]*mmdf.RealTimeUpdate{
			"SIM:METRO:A": {disruption},
		},
		updateDelays: map[string]time.Duration{
			"SIM:METRO:A": 40 * time.Millisecond,
		},
	})
	coordinator.RegisterProvider(&fakeProvider{
		name:         "crosstown-bus",
		capabilities: provider.Capabilities{CanSuggestAlternatives: true},
		alternatives: []*mmdf.JourneySegment{metroSegment("SIM:BUS:9", "crosstown-bus")},
	})

	planA := trackedPlanFixture("plan-a", metroSegment("SIM:METRO:A", "city-metro"))
	planB := trackedPlanFixture("plan-b", metroSegment("SIM:METRO:B", "city-metro"))
	coordinator.track(planA, StateMonitored)
	coordinator.track(planB, StateMonitored)

	coordinator.monitoringTick(time.Now())

	journeyA, err := coordinator.GetTrackedJourney("plan-a")
	require.NoError(t, err)
	assert.Equal(t, JourneyState(StateDisrupted), journeyA.State)

	journeyB, err := coordinator.GetTrackedJourney("plan-b")
	require.NoError(t, err)
	assert.Equal(t, JourneyState(StateMonitored), journeyB.State)

	var journeyUpdates []mmdf.JourneyUpdateEvent
	var alternativesFound []mmdf.AlternativesFoundEvent
	for _, event := range drainEvents(sink) {
		switch body := event.Body.(type) {
		case mmdf.JourneyUpdateEvent:
			journeyUpdates = append(journeyUpdates, body)
		case mmdf.AlternativesFoundEvent:
			alternativesFound = append(alternativesFound, body)
		}
	}

	require.Len(t, journeyUpdates, 1)
	assert.Equal(t, "plan-a", journeyUpdates[0].PlanID)
	assert.True(t, journeyUpdates[0].Plan.ContainsSegment("SIM:METRO:A"))

	// alternatives discovery located the disrupted segment in the right plan
	require.Len(t, alternativesFound, 1)
	assert.Equal(t, "SIM:METRO:A", alternativesFound[0].OriginalSegmentID)
}

func TestBookJourneyDuringMonitoringTick(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	coordinator.RegisterProvider(&fakeProvider{
		name:         "swift-rides",
		capabilities: provider.Capabilities{CanBook: true},
		booking: &mmdf.BookingInfo{
			Required:         true,
			ProviderName:     "swift-rides",
			BookingReference: "RH-1234",
		},
	})
	coordinator.RegisterProvider(&fakeProvider{
		name:         "status-feed",
		capabilities: provider.Capabilities{CanReportUpdates: true},
		updates: []*mmdf.RealTimeUpdate{{
			SegmentID: "SIM:RIDEHAIL:1",
			Type:      mmdf.UpdateTypeDelay,
			Severity:  mmdf.UpdateSeverityLow,
		}},
	})

	segment := metroSegment("SIM:RIDEHAIL:1", "swift-rides")
	segment.Booking = &mmdf.BookingInfo{Required: true, ProviderName: "swift-rides"}

	plan := trackedPlanFixture("plan-1", segment)
	coordinator.track(plan, StateMonitored)

	// ticks deep-copy the plan for events while the booking write lands
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 25; i++ {
			coordinator.monitoringTick(time.Now())
		}
	}()

	bookings, err := coordinator.BookJourney(context.Background(), "plan-1")
	<-done

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "RH-1234", segment.Booking.BookingReference)
}

func TestHandleUpdateDiscardsStragglers(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	sink := NewChannelSink(8)
	coordinator.AddEventSink(sink)

	coordinator.handleUpdate("already-dropped", &mmdf.RealTimeUpdate{
		SegmentID: "SIM:METRO:1",
		Type:      mmdf.UpdateTypeDelay,
		Severity:  mmdf.UpdateSeverityLow,
	})

	assert.Empty(t, drainEvents(sink))
}

func TestCancelJourneyMonitoring(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	plan := trackedPlanFixture("plan-1", metroSegment("SIM:METRO:1", "city-metro"))
	coordinator.track(plan, StateMonitored)

	coordinator.CancelJourneyMonitoring("plan-1")

	_, err := coordinator.GetTrackedJourney("plan-1")
	assert.ErrorIs(t, err, ErrJourneyNotFound)

	// cancelling an unknown plan is a no-op
	coordinator.CancelJourneyMonitoring("plan-1")
}

func TestTrackedJourneysSortedSnapshot(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{})

	coordinator.track(trackedPlanFixture("plan-b", metroSegment("SIM:METRO:2", "city-metro")), StatePlanned)
	coordinator.track(trackedPlanFixture("plan-a", metroSegment("SIM:METRO:1", "city-metro")), StatePlanned)

	journeys := coordinator.TrackedJourneys()

	require.Len(t, journeys, 2)
	assert.Equal(t, "plan-a", journeys[0].Plan.PrimaryIdentifier)
	assert.Equal(t, "plan-b", journeys[1].Plan.PrimaryIdentifier)
}

func TestStartMonitoringLifecycle(t *testing.T) {
	coordinator := New(provider.NewRegistry(), Config{MonitorInterval: 5 * time.Millisecond})

	coordinator.StartMonitoring(context.Background())
	// second start is a no-op rather than a second loop
	coordinator.StartMonitoring(context.Background())

	time.Sleep(20 * time.Millisecond)

	coordinator.StopMonitoring()
	// stop when already stopped is safe
	coordinator.StopMonitoring()
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)

	sink.Emit(mmdf.Event{Type: mmdf.EventTypeJourneyUpdate})
	sink.Emit(mmdf.Event{Type: mmdf.EventTypeProviderStatusChanged})

	events := drainEvents(sink)

	require.Len(t, events, 1)
	assert.Equal(t, mmdf.EventType(mmdf.EventTypeJourneyUpdate), events[0].Type)
}
