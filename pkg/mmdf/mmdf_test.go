package mmdf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/modalmesh/modalmesh/pkg/mmdf"
)

func TestLocationPointDistanceKm(t *testing.T) {
	kingsCross := mmdf.LocationPoint{Name: "Kings Cross", Latitude: 51.5308, Longitude: -0.1238}
	paddington := mmdf.LocationPoint{Name: "Paddington", Latitude: 51.5154, Longitude: -0.1755}

	distance := kingsCross.DistanceKm(paddington)

	assert.InDelta(t, 3.9, distance, 0.3)
	assert.Zero(t, kingsCross.DistanceKm(kingsCross))

	// symmetric
	assert.InDelta(t, distance, paddington.DistanceKm(kingsCross), 0.0001)
}

func TestRealTimeUpdateIsDisruption(t *testing.T) {
	testCases := []struct {
		name       string
		update     mmdf.RealTimeUpdate
		disruption bool
	}{
		{"critical severity", mmdf.RealTimeUpdate{Type: mmdf.UpdateTypeDelay, Severity: mmdf.UpdateSeverityCritical}, true},
		{"cancellation", mmdf.RealTimeUpdate{Type: mmdf.UpdateTypeCancellation, Severity: mmdf.UpdateSeverityLow}, true},
		{"minor delay", mmdf.RealTimeUpdate{Type: mmdf.UpdateTypeDelay, Severity: mmdf.UpdateSeverityLow}, false},
		{"high severity capacity", mmdf.RealTimeUpdate{Type: mmdf.UpdateTypeCapacity, Severity: mmdf.UpdateSeverityHigh}, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.disruption, testCase.update.IsDisruption())
		})
	}
}

func TestJourneyPlanHasExpired(t *testing.T) {
	validUntil := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	plan := mmdf.JourneyPlan{ValidUntil: validUntil}

	assert.False(t, plan.HasExpired(validUntil.Add(-time.Second)))
	assert.True(t, plan.HasExpired(validUntil))
	assert.True(t, plan.HasExpired(validUntil.Add(time.Hour)))
}

func TestJourneyPlanContainsSegment(t *testing.T) {
	plan := mmdf.JourneyPlan{
		Segments: []*mmdf.JourneySegment{
			{PrimaryIdentifier: "SIM:METRO:one"},
			{PrimaryIdentifier: "SIM:BIKESHARE:two"},
		},
	}

	assert.True(t, plan.ContainsSegment("SIM:METRO:one"))
	assert.True(t, plan.ContainsSegment("SIM:BIKESHARE:two"))
	assert.False(t, plan.ContainsSegment("SIM:BUS:three"))
}

func TestUserPreferencesAvoids(t *testing.T) {
	preferences := mmdf.UserPreferences{
		AvoidModes: []mmdf.ModeCategory{mmdf.ModeCategoryRideHail},
	}

	assert.True(t, preferences.Avoids(mmdf.ModeCategoryRideHail))
	assert.False(t, preferences.Avoids(mmdf.ModeCategoryBus))
	assert.False(t, mmdf.UserPreferences{}.Avoids(mmdf.ModeCategoryBus))
}

func TestEventGetNotificationData(t *testing.T) {
	event := mmdf.Event{
		Type: mmdf.EventTypeJourneyUpdate,
		Body: map[string]interface{}{
			"PlanID": "plan-1",
			"Update": map[string]interface{}{
				"Type":    "Cancellation",
				"Message": "Service withdrawn",
			},
		},
	}

	notification := event.GetNotificationData()

	assert.Equal(t, "Journey Cancellation", notification.Title)
	assert.Equal(t, "Service withdrawn", notification.Message)
}
