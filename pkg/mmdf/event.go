package mmdf

import (
	"fmt"
	"time"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Body      interface{}
}

type EventType string

const (
	EventTypeProviderStatusChanged EventType = "ProviderStatusChanged"

	EventTypeJourneyUpdate     = "JourneyUpdate"
	EventTypeAlternativesFound = "AlternativesFound"
)

type ProviderStatusChangedEvent struct {
	ProviderID string
	Active     bool
}

type JourneyUpdateEvent struct {
	PlanID string
	Update *RealTimeUpdate
	Plan   *JourneyPlan
}

type AlternativesFoundEvent struct {
	OriginalSegmentID string
	ProviderName      string
	Alternatives      []*JourneySegment
	Update            *RealTimeUpdate
}

// GetNotificationData turns an event that has been through a JSON round trip
// (Body is a map) into human readable notification text
func (e *Event) GetNotificationData() EventNotificationData {
	eventNotificationData := EventNotificationData{}

	eventBody, ok := e.Body.(map[string]interface{})
	if !ok {
		return eventNotificationData
	}

	switch e.Type {
	case EventTypeProviderStatusChanged:
		providerID := eventBody["ProviderID"].(string)

		if eventBody["Active"].(bool) {
			eventNotificationData.Title = "Provider available"
			eventNotificationData.Message = fmt.Sprintf("%s is now answering journey requests", providerID)
		} else {
			eventNotificationData.Title = "Provider withdrawn"
			eventNotificationData.Message = fmt.Sprintf("%s is no longer answering journey requests", providerID)
		}
	case EventTypeJourneyUpdate:
		update := eventBody["Update"].(map[string]interface{})

		eventNotificationData.Title = fmt.Sprintf("Journey %s", update["Type"].(string))
		eventNotificationData.Message = update["Message"].(string)
	case EventTypeAlternativesFound:
		alternatives, _ := eventBody["Alternatives"].([]interface{})

		eventNotificationData.Title = "Alternative routes available"
		eventNotificationData.Message = fmt.Sprintf(
			"%s found %d alternatives for your disrupted journey leg",
			eventBody["ProviderName"], len(alternatives),
		)
	}

	return eventNotificationData
}

type EventNotificationData struct {
	Title   string
	Message string
}
