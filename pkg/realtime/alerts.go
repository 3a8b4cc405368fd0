package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bayrail/bayrail/pkg/cache"
)

const alertsCacheExpiry = 5 * time.Minute

type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

type ServiceAlert struct {
	ID          string        `json:"id" groups:"basic"`
	Severity    AlertSeverity `json:"severity" groups:"basic"`
	Title       string        `json:"title" groups:"basic"`
	Description string        `json:"description" groups:"basic"`
	URL         string        `json:"url,omitempty" groups:"basic"`
	Timestamp   string        `json:"timestamp" groups:"basic"`
}

// situationExchange mirrors the SIRI-flavoured JSON shape the 511 service
// alerts endpoint responds with.
type situationExchange struct {
	ServiceDelivery struct {
		SituationExchangeDelivery struct {
			Situations struct {
				PtSituationElement json.RawMessage `json:"PtSituationElement"`
			} `json:"Situations"`
		} `json:"SituationExchangeDelivery"`
	} `json:"ServiceDelivery"`
}

type situation struct {
	SituationNumber string `json:"SituationNumber"`
	Severity        string `json:"Severity"`
	Summary         []struct {
		Text string `json:"_"`
	} `json:"Summary"`
	Description []struct {
		Text string `json:"_"`
	} `json:"Description"`
}

// AlertsClient fetches operator service alerts, cached for 5 minutes.
type AlertsClient struct {
	APIBase string
	APIKey  string
	Agency  string

	HTTPClient *http.Client

	cached *cache.TTL[[]ServiceAlert]
}

func NewAlertsClient(apiBase string, apiKey string, agency string) *AlertsClient {
	return &AlertsClient{
		APIBase:    apiBase,
		APIKey:     apiKey,
		Agency:     agency,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		cached:     cache.NewTTL[[]ServiceAlert](alertsCacheExpiry),
	}
}

// FetchServiceAlerts never errors; unconfigured or failing sources degrade to
// an empty alert list.
func (c *AlertsClient) FetchServiceAlerts(ctx context.Context) []ServiceAlert {
	if c.APIKey == "" {
		return nil
	}

	alerts, err := c.cached.Fetch(func() ([]ServiceAlert, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch service alerts")
		return nil
	}

	return alerts
}

func (c *AlertsClient) fetch(ctx context.Context) ([]ServiceAlert, error) {
	url := fmt.Sprintf("%s/servicealerts?api_key=%s&agency=%s&format=json", c.APIBase, c.APIKey, c.Agency)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service alerts endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return decodeServiceAlerts(body)
}

func decodeServiceAlerts(body []byte) ([]ServiceAlert, error) {
	var envelope situationExchange
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	raw := envelope.ServiceDelivery.SituationExchangeDelivery.Situations.PtSituationElement
	if len(raw) == 0 {
		return nil, nil
	}

	// The feed serialises a single situation as an object, several as an array
	var situations []situation
	if err := json.Unmarshal(raw, &situations); err != nil {
		var single situation
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		situations = []situation{single}
	}

	var alerts []ServiceAlert
	for _, element := range situations {
		alert := ServiceAlert{
			ID:        element.SituationNumber,
			Severity:  mapSeverity(element.Severity),
			Title:     "Service Alert",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		if len(element.Summary) > 0 {
			alert.Title = element.Summary[0].Text
		}
		if len(element.Description) > 0 {
			alert.Description = element.Description[0].Text
		}

		alerts = append(alerts, alert)
	}

	return alerts, nil
}

func mapSeverity(severity string) AlertSeverity {
	lower := strings.ToLower(severity)

	if strings.Contains(lower, "severe") || strings.Contains(lower, "critical") {
		return AlertSeverityCritical
	}
	if strings.Contains(lower, "warning") || strings.Contains(lower, "moderate") {
		return AlertSeverityWarning
	}

	return AlertSeverityInfo
}
