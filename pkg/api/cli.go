package api

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/modalmesh/modalmesh/pkg/coordinator"
	"github.com/modalmesh/modalmesh/pkg/events"
	"github.com/modalmesh/modalmesh/pkg/provider"
	"github.com/modalmesh/modalmesh/pkg/provider/simulated"
	"github.com/modalmesh/modalmesh/pkg/redis_client"
	"github.com/modalmesh/modalmesh/pkg/util"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "fleet",
						Usage: "path to a provider fleet config file (defaults to the built in fleet)",
					},
				},
				Action: func(c *cli.Context) error {
					// Redis is optional - without it the event queue sink and
					// the ride-hail quote cache just stay disabled
					if err := redis_client.Connect(); err != nil {
						log.Info().Err(err).Msg("Skipping redis setup")
					}

					var fleet []provider.Provider
					if fleetPath := c.String("fleet"); fleetPath != "" {
						fleetConfig, err := simulated.LoadFleetConfig(fleetPath)
						if err != nil {
							return err
						}

						fleet, err = fleetConfig.Build()
						if err != nil {
							return err
						}
					} else {
						fleet = simulated.DefaultFleet()
					}

					monitorInterval, err := time.ParseDuration(
						util.GetEnvironmentVariable("MODALMESH_MONITOR_INTERVAL", "30s"))
					if err != nil {
						return err
					}

					coord := coordinator.New(provider.NewRegistry(), coordinator.Config{
						MonitorInterval: monitorInterval,
					})

					if redis_client.QueueConnection != nil {
						queueSink, err := events.NewQueueSink()
						if err != nil {
							return err
						}

						coord.AddEventSink(queueSink)
					}

					for _, fleetProvider := range fleet {
						coord.RegisterProvider(fleetProvider)
					}

					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()

					coord.StartMonitoring(ctx)
					defer coord.StopMonitoring()

					return SetupServer(c.String("listen"), coord)
				},
			},
		},
	}
}
