package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeServiceAlertsArray(t *testing.T) {
	body := []byte(`{
		"ServiceDelivery": {
			"SituationExchangeDelivery": {
				"Situations": {
					"PtSituationElement": [
						{
							"SituationNumber": "CT-2025-001",
							"Severity": "severe",
							"Summary": [{"_": "Single tracking between Hillsdale and Belmont"}],
							"Description": [{"_": "Expect delays in both directions"}]
						},
						{
							"SituationNumber": "CT-2025-002",
							"Severity": "normal",
							"Summary": [{"_": "Weekend schedule in effect"}]
						}
					]
				}
			}
		}
	}`)

	alerts, err := decodeServiceAlerts(body)

	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, "CT-2025-001", alerts[0].ID)
	assert.Equal(t, AlertSeverityCritical, alerts[0].Severity)
	assert.Equal(t, "Single tracking between Hillsdale and Belmont", alerts[0].Title)
	assert.Equal(t, "Expect delays in both directions", alerts[0].Description)

	assert.Equal(t, AlertSeverityInfo, alerts[1].Severity)
	assert.Empty(t, alerts[1].Description)
}

// A lone situation arrives as a bare object rather than a one-element array.
func TestDecodeServiceAlertsSingleObject(t *testing.T) {
	body := []byte(`{
		"ServiceDelivery": {
			"SituationExchangeDelivery": {
				"Situations": {
					"PtSituationElement": {
						"SituationNumber": "CT-2025-003",
						"Severity": "moderate",
						"Summary": [{"_": "Elevator outage at Millbrae"}]
					}
				}
			}
		}
	}`)

	alerts, err := decodeServiceAlerts(body)

	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "CT-2025-003", alerts[0].ID)
	assert.Equal(t, AlertSeverityWarning, alerts[0].Severity)
}

func TestDecodeServiceAlertsEmpty(t *testing.T) {
	alerts, err := decodeServiceAlerts([]byte(`{"ServiceDelivery": {}}`))

	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, AlertSeverityCritical, mapSeverity("Severe"))
	assert.Equal(t, AlertSeverityCritical, mapSeverity("critical"))
	assert.Equal(t, AlertSeverityWarning, mapSeverity("Warning"))
	assert.Equal(t, AlertSeverityWarning, mapSeverity("moderate"))
	assert.Equal(t, AlertSeverityInfo, mapSeverity("normal"))
	assert.Equal(t, AlertSeverityInfo, mapSeverity(""))
}
