// Package events bridges coordinator events onto the shared redis queue and
// consumes them for notification delivery.
package events

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/redis_client"
)

const queueName = "events-queue"

// QueueSink publishes every coordinator event onto the events queue as JSON so
// out of process consumers (notification delivery, audit) can pick them up.
type QueueSink struct {
	EventQueue rmq.Queue
}

func NewQueueSink() (*QueueSink, error) {
	eventQueue, err := redis_client.QueueConnection.OpenQueue(queueName)
	if err != nil {
		return nil, err
	}

	return &QueueSink{
		EventQueue: eventQueue,
	}, nil
}

func (s *QueueSink) Emit(event mmdf.Event) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to marshal event")
		return
	}

	if err := s.EventQueue.PublishBytes(eventBytes); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to publish event")
	}
}
