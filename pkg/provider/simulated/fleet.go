package simulated

import (
	"github.com/rs/zerolog/log"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

// DefaultFleet is the built in provider set used when no fleet config file is
// given - one provider per transport category covering a shared metro area.
func DefaultFleet() []provider.Provider {
	fleet := FleetConfig{
		Providers: []ProviderConfig{
			{
				Name:     "city-metro",
				Type:     "transit",
				Category: mmdf.ModeCategoryMetro,

				CoverageArea: "metro-area",
				Headway:      "PT8M",

				BaseFare:        1.8,
				CostPerKm:       0.12,
				AverageSpeedKph: 35,
				EmissionsPerKm:  30,

				Reliability:        0.92,
				ComfortScore:       6,
				AccessibilityScore: 8,
			},
			{
				Name:     "crosstown-bus",
				Type:     "transit",
				Category: mmdf.ModeCategoryBus,

				CoverageArea: "metro-area",
				Headway:      "PT12M",

				BaseFare:        1.5,
				CostPerKm:       0.1,
				AverageSpeedKph: 18,
				EmissionsPerKm:  80,

				Reliability:        0.85,
				ComfortScore:       5,
				AccessibilityScore: 7,
			},
			{
				Name:     "swift-rides",
				Type:     "ridehail",
				Category: mmdf.ModeCategoryRideHail,

				CoverageArea: "metro-area",

				BaseFare:        3.5,
				CostPerKm:       1.4,
				AverageSpeedKph: 30,
				EmissionsPerKm:  170,

				Reliability:        0.95,
				ComfortScore:       9,
				AccessibilityScore: 6,
			},
			{
				Name:     "dock-cycles",
				Type:     "bikeshare",
				Category: mmdf.ModeCategoryBikeShare,

				CoverageArea: "metro-area",
				RangeKm:      6,

				BaseFare:        1,
				CostPerKm:       0.5,
				AverageSpeedKph: 14,
				EmissionsPerKm:  0,

				Reliability:        0.88,
				ComfortScore:       6,
				AccessibilityScore: 3,
			},
			{
				Name:     "on-foot",
				Type:     "walking",
				Category: mmdf.ModeCategoryWalking,

				CoverageArea: "everywhere",
				RangeKm:      2.5,

				AverageSpeedKph: 4.5,

				Reliability:        0.99,
				ComfortScore:       4,
				AccessibilityScore: 5,
			},
		},
	}

	providers, err := fleet.Build()
	if err != nil {
		// The built in fleet is static - failing to build it is a programming error
		log.Fatal().Err(err).Msg("Failed to build default fleet")
	}

	return providers
}
