package coordinator

import (
	"github.com/rs/zerolog/log"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
)

// EventSink receives every event the coordinator emits. Emit must not block -
// a slow sink is expected to drop rather than stall the monitoring loop.
type EventSink interface {
	Emit(event mmdf.Event)
}

func (c *Coordinator) AddEventSink(sink EventSink) {
	c.sinkMutex.Lock()
	defer c.sinkMutex.Unlock()

	c.sinks = append(c.sinks, sink)
}

func (c *Coordinator) emit(eventType mmdf.EventType, body interface{}) {
	event := mmdf.Event{
		Type:      eventType,
		Timestamp: c.now(),
		Body:      body,
	}

	c.sinkMutex.Lock()
	sinks := c.sinks
	c.sinkMutex.Unlock()

	for _, sink := range sinks {
		sink.Emit(event)
	}
}

// ChannelSink delivers events to a subscriber over a buffered channel,
// dropping when the subscriber falls behind.
type ChannelSink struct {
	events chan mmdf.Event
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{
		events: make(chan mmdf.Event, buffer),
	}
}

func (s *ChannelSink) Events() <-chan mmdf.Event {
	return s.events
}

func (s *ChannelSink) Emit(event mmdf.Event) {
	select {
	case s.events <- event:
	default:
		log.Warn().Str("type", string(event.Type)).Msg("Event subscriber not keeping up - dropping event")
	}
}
