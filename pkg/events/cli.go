package events

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/redis_client"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run events consumer",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					StartConsumers()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "generate a test event",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					update := mmdf.RealTimeUpdate{
						SegmentID: "SIM:METRO:TEST",

						Type:     mmdf.UpdateTypeCancellation,
						Severity: mmdf.UpdateSeverityCritical,

						Message: "Northbound service cancelled due to a fault on the line",

						Timestamp: time.Now(),
					}

					eventsQueue, err := redis_client.QueueConnection.OpenQueue(queueName)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to start event queue")
					}

					event := mmdf.Event{
						Type:      mmdf.EventTypeJourneyUpdate,
						Timestamp: time.Now(),
						Body: mmdf.JourneyUpdateEvent{
							PlanID: "test-plan",
							Update: &update,
						},
					}

					eventBytes, _ := json.Marshal(event)

					eventsQueue.PublishBytes(eventBytes)

					return nil
				},
			},
		},
	}
}
