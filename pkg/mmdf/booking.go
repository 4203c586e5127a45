package mmdf

import "time"

// BookingInfo describes the reservation requirements or outcome for a segment
type BookingInfo struct {
	Required bool `groups:"basic"`

	ProviderName string `groups:"basic"`

	BookingReference string `groups:"basic" json:",omitempty"`
	BookingURL       string `groups:"basic" json:",omitempty"`

	EstimatedWaitTime time.Duration `groups:"basic" json:",omitempty"`

	CancellationPolicy string `groups:"detailed" json:",omitempty"`
}
