package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/redis_client"
)

const numConsumers = 5

func StartConsumers() {
	// Run the background consumers
	log.Info().Msg("Starting events consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(queueName)
	if err != nil {
		panic(err)
	}
	if err := queue.StartConsuming(numConsumers*200, 1*time.Second); err != nil {
		panic(err)
	}

	for i := 0; i < numConsumers; i++ {
		go startEventConsumer(queue, i)
	}
}
func startEventConsumer(queue rmq.Queue, id int) {
	log.Info().Msgf("Starting events consumer %d", id)

	if _, err := queue.AddBatchConsumer(fmt.Sprintf("event-queue-%d", id), 20, 2*time.Second, NewBatchConsumer(id)); err != nil {
		panic(err)
	}
}

type BatchConsumer struct {
	id int
}

func NewBatchConsumer(id int) *BatchConsumer {
	return &BatchConsumer{id: id}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		var event mmdf.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal event")
			continue
		}

		notification := event.GetNotificationData()
		if notification.Title == "" {
			continue
		}

		pretty.Println(notification)

		log.Info().
			Str("type", string(event.Type)).
			Str("title", notification.Title).
			Msg("Event notification")
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Fatal().Err(err).Msg("Failed to consume event")
		}
	}
}
