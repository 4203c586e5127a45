// Package simulated provides self-contained providers for every transport
// category. They generate plausible journey segments from configured mode
// economics instead of calling a real operator API, which makes them suitable
// for local runs and for exercising the coordination layer end to end.
package simulated

import (
	"fmt"
	"os"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

type FleetConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

type ProviderConfig struct {
	Name     string            `yaml:"name"`
	Type     string            `yaml:"type"` // transit | ridehail | bikeshare | walking
	Category mmdf.ModeCategory `yaml:"category"`

	CoverageArea string  `yaml:"coverage_area"`
	CentreLat    float64 `yaml:"centre_lat"`
	CentreLon    float64 `yaml:"centre_lon"`
	RangeKm      float64 `yaml:"range_km"`

	// Headway between consecutive departures, ISO 8601 (eg PT10M)
	Headway string `yaml:"headway"`

	BaseFare        float64 `yaml:"base_fare"`
	CostPerKm       float64 `yaml:"cost_per_km"`
	AverageSpeedKph float64 `yaml:"average_speed_kph"`
	EmissionsPerKm  float64 `yaml:"emissions_per_km"`

	Reliability        float64 `yaml:"reliability"`
	ComfortScore       int     `yaml:"comfort"`
	AccessibilityScore int     `yaml:"accessibility"`
}

func LoadFleetConfig(path string) (*FleetConfig, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config FleetConfig
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Build constructs one provider per fleet entry
func (c *FleetConfig) Build() ([]provider.Provider, error) {
	var providers []provider.Provider

	for _, providerConfig := range c.Providers {
		built, err := providerConfig.Build()
		if err != nil {
			return nil, err
		}

		providers = append(providers, built)
	}

	return providers, nil
}

func (c ProviderConfig) Build() (provider.Provider, error) {
	switch c.Type {
	case "transit":
		return NewTransitProvider(c)
	case "ridehail":
		return NewRideHailProvider(c), nil
	case "bikeshare":
		return NewBikeShareProvider(c), nil
	case "walking":
		return NewWalkingProvider(c), nil
	default:
		return nil, fmt.Errorf("unknown provider type %s for %s", c.Type, c.Name)
	}
}

func (c ProviderConfig) headway() (time.Duration, error) {
	if c.Headway == "" {
		return 10 * time.Minute, nil
	}

	parsed, err := iso8601.ParseISO8601(c.Headway)
	if err != nil {
		return 0, fmt.Errorf("parsing headway for %s: %w", c.Name, err)
	}

	epoch := time.Time{}

	return parsed.Shift(epoch).Sub(epoch), nil
}
