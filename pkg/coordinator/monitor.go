package coordinator

import (
	"context"
	"sort"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

const maxMonitorGoroutines = 50

// StartMonitoring runs the recurring monitoring loop until the context is
// cancelled or StopMonitoring is called. Starting an already running loop is a
// no-op.
func (c *Coordinator) StartMonitoring(ctx context.Context) {
	c.monitorMutex.Lock()
	defer c.monitorMutex.Unlock()

	if c.monitorCancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.monitorCancel = cancel
	c.monitorDone = make(chan struct{})

	log.Info().Str("interval", c.config.MonitorInterval.String()).Msg("Starting journey monitoring")

	go c.runMonitoring(loopCtx)
}

func (c *Coordinator) StopMonitoring() {
	c.monitorMutex.Lock()
	cancel := c.monitorCancel
	done := c.monitorDone
	c.monitorCancel = nil
	c.monitorDone = nil
	c.monitorMutex.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	log.Info().Msg("Journey monitoring stopped")
}

func (c *Coordinator) runMonitoring(ctx context.Context) {
	ticker := time.NewTicker(c.config.MonitorInterval)
	defer ticker.Stop()
	defer close(c.monitorDone)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.monitoringTick(c.now())
		}
	}
}

type segmentQuery struct {
	planID   string
	segment  *mmdf.JourneySegment
	provider provider.Provider
}

// monitoringTick expires stale plans, then fans out one update query per
// (tracked segment x update capable provider) pair and processes the joined
// results sequentially so event order within a tick is deterministic.
func (c *Coordinator) monitoringTick(now time.Time) {
	var activeJourneys []*TrackedJourney

	c.trackedMutex.Lock()
	for planID, journey := range c.tracked {
		if journey.Plan.HasExpired(now) {
			journey.State = StateExpired

			log.Info().Str("plan", planID).Msg("Journey plan expired - dropping from monitoring")

			journey.State = StateDropped
			delete(c.tracked, planID)
			continue
		}

		if journey.State == StatePlanned {
			journey.State = StateMonitored
		}

		activeJourneys = append(activeJourneys, journey)
	}
	c.trackedMutex.Unlock()

	if len(activeJourneys) == 0 {
		return
	}

	sortTrackedJourneys(activeJourneys)

	updaters := c.Registry.WithCapability(provider.CapabilityReportUpdates)
	if len(updaters) == 0 {
		return
	}

	var queries []segmentQuery
	for _, journey := range activeJourneys {
		for _, segment := range journey.Plan.Segments {
			for _, updater := range updaters {
				queries = append(queries, segmentQuery{
					planID:   journey.Plan.PrimaryIdentifier,
					segment:  segment,
					provider: updater,
				})
			}
		}
	}

	// Results are collected by query index - the pool finishes tasks in
	// completion order, so an indexed slice is what keeps an update tied to
	// the plan whose segment was queried
	results := make([][]*mmdf.RealTimeUpdate, len(queries))

	p := pool.New().WithMaxGoroutines(maxMonitorGoroutines)

	for i, query := range queries {
		p.Go(func() {
			callCtx, cancel := context.WithTimeout(context.Background(), c.config.ProviderTimeout)
			defer cancel()

			updates, err := query.provider.ReportUpdates(callCtx, query.segment.PrimaryIdentifier)
			if err != nil {
				// Never surfaced to anyone - the tick carries on for every other segment
				log.Error().
					Err(err).
					Str("provider", query.provider.Name()).
					Str("segment", query.segment.PrimaryIdentifier).
					Msg("Update query failed - skipping")
				return
			}

			results[i] = updates
		})
	}

	p.Wait()

	for i, updates := range results {
		for _, update := range updates {
			c.handleUpdate(queries[i].planID, update)
		}
	}
}

func (c *Coordinator) handleUpdate(planID string, update *mmdf.RealTimeUpdate) {
	c.trackedMutex.Lock()
	journey := c.tracked[planID]
	if journey == nil {
		// plan was dropped while the query was in flight
		c.trackedMutex.Unlock()
		return
	}

	disrupted := update.IsDisruption()
	if disrupted {
		journey.State = StateDisrupted
	}

	plan := journey.Plan

	// Subscribers get their own deep copy so they can never reach into the
	// coordinator's tracked state. Copied under the lock because BookJourney
	// mutates segment booking metadata on the same plan.
	var planCopy mmdf.JourneyPlan
	copyErr := copier.CopyWithOption(&planCopy, plan, copier.Option{DeepCopy: true})
	c.trackedMutex.Unlock()

	log.Info().
		Str("plan", planID).
		Str("segment", update.SegmentID).
		Str("type", string(update.Type)).
		Str("severity", string(update.Severity)).
		Msg("Real time update for tracked journey")

	if copyErr != nil {
		log.Error().Err(copyErr).Str("plan", planID).Msg("Failed to copy plan for event")
		return
	}

	c.emit(mmdf.EventTypeJourneyUpdate, mmdf.JourneyUpdateEvent{
		PlanID: planID,
		Update: update,
		Plan:   &planCopy,
	})

	if disrupted {
		for _, segment := range plan.Segments {
			if segment.PrimaryIdentifier == update.SegmentID {
				c.findAlternatives(segment, update)
				break
			}
		}
	}
}

// findAlternatives asks every alternatives capable provider for replacements
// for the disrupted segment. Discovery is advisory - one AlternativesFound
// event per responding provider, and it is up to the caller to request a fresh
// plan.
func (c *Coordinator) findAlternatives(segment *mmdf.JourneySegment, update *mmdf.RealTimeUpdate) {
	for _, alternativesProvider := range c.Registry.WithCapability(provider.CapabilitySuggestAlternatives) {
		callCtx, cancel := context.WithTimeout(context.Background(), c.config.ProviderTimeout)
		alternatives, err := alternativesProvider.Alternatives(callCtx, segment)
		cancel()

		if err != nil {
			log.Error().
				Err(err).
				Str("provider", alternativesProvider.Name()).
				Str("segment", segment.PrimaryIdentifier).
				Msg("Alternatives query failed - skipping")
			continue
		}

		c.emit(mmdf.EventTypeAlternativesFound, mmdf.AlternativesFoundEvent{
			OriginalSegmentID: segment.PrimaryIdentifier,
			ProviderName:      alternativesProvider.Name(),
			Alternatives:      alternatives,
			Update:            update,
		})
	}
}

func sortTrackedJourneys(journeys []*TrackedJourney) {
	sort.Slice(journeys, func(i, j int) bool {
		return journeys[i].Plan.PrimaryIdentifier < journeys[j].Plan.PrimaryIdentifier
	})
}
