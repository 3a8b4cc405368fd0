package alertscraper

import (
	"regexp"
	"strconv"
	"strings"
)

type AlertType string

const (
	AlertTypeDelay        AlertType = "delay"
	AlertTypeRunningAhead AlertType = "running-ahead"
	AlertTypeCancellation AlertType = "cancellation"
	AlertTypeElevator     AlertType = "elevator"
	AlertTypeGeneral      AlertType = "general"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const SourceName = "caltrain-alerts"

// Alert is one classified sentence from the operator's alerts page.
type Alert struct {
	TrainNumber  string    `json:"train_number,omitempty" groups:"basic"`
	DelayMinutes int       `json:"delay_minutes,omitempty" groups:"basic"`
	Text         string    `json:"text" groups:"basic"`
	Type         AlertType `json:"type" groups:"basic"`
	Severity     Severity  `json:"severity" groups:"basic"`

	SystemWide bool   `json:"system_wide,omitempty" groups:"basic"`
	Location   string `json:"location,omitempty" groups:"basic"`
	Direction  string `json:"direction,omitempty" groups:"basic"`
}

// TrainDelay is a train-specific delay statement extracted from an alert.
type TrainDelay struct {
	TrainNumber  string
	DelayMinutes int
	Source       string
}

var (
	// "Please Expect Up To 40-45 Minute Delay for Train 165"
	delayForTrainPattern = regexp.MustCompile(`(?i)(?:expect|up to)\s+(?:up to\s+)?(\d+)(?:-(\d+))?\s*minute\s*delay\s+for\s+train\s+(\d+)`)
	// "Train 123 is delayed by 15 minutes"
	trainDelayedByPattern = regexp.MustCompile(`(?i)train\s+(\d+)\s+is\s+delayed\s+by\s+(\d+)\s*minutes?`)
	// "Train 123: 15 minute delay"
	trainColonDelayPattern = regexp.MustCompile(`(?i)train\s+(\d+):\s*(\d+)\s*minute\s*delay`)

	trainNumberPattern = regexp.MustCompile(`(?i)train\s+(\d+)`)
	// "minute" is optional here: system-wide notices sometimes read
	// "Expect Up to 30-60 Delay for All Trains".
	minuteDelayPattern      = regexp.MustCompile(`(?i)(\d+)(?:-(\d+))?\s*(?:minute\s*)?delay`)
	delayMagnitudePattern   = regexp.MustCompile(`(?i)(\d+)(?:-(\d+))?\s*minute`)
	affectedLocationPattern = regexp.MustCompile(`(?i)(?:near|at|around)\s+([A-Za-z\s]+?)(?:\.|$|,)`)
)

// ParseTrainDelay extracts a train-specific delay from a single alert
// sentence, or nil when the sentence carries none. Delay ranges ("40-45
// minute delay") resolve to the maximum as the conservative estimate.
func ParseTrainDelay(text string) *TrainDelay {
	if match := delayForTrainPattern.FindStringSubmatch(text); match != nil {
		return &TrainDelay{
			TrainNumber:  match[3],
			DelayMinutes: maxOfRange(match[1], match[2]),
			Source:       SourceName,
		}
	}

	if match := trainDelayedByPattern.FindStringSubmatch(text); match != nil {
		minutes, _ := strconv.Atoi(match[2])
		return &TrainDelay{TrainNumber: match[1], DelayMinutes: minutes, Source: SourceName}
	}

	if match := trainColonDelayPattern.FindStringSubmatch(text); match != nil {
		minutes, _ := strconv.Atoi(match[2])
		return &TrainDelay{TrainNumber: match[1], DelayMinutes: minutes, Source: SourceName}
	}

	return nil
}

// parseSystemWide recognises delay statements that apply to all trains
// rather than a named one, optionally qualified by direction and location.
func parseSystemWide(text string) (minutes int, location string, direction string, ok bool) {
	lower := strings.ToLower(text)

	if !strings.Contains(lower, "all trains") &&
		!strings.Contains(lower, "all northbound") &&
		!strings.Contains(lower, "all southbound") {
		return 0, "", "", false
	}

	match := minuteDelayPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, "", "", false
	}

	minutes = maxOfRange(match[1], match[2])

	if locationMatch := affectedLocationPattern.FindStringSubmatch(text); locationMatch != nil {
		location = strings.TrimSpace(locationMatch[1])
	}

	direction = "both"
	if strings.Contains(lower, "northbound") {
		direction = "northbound"
	} else if strings.Contains(lower, "southbound") {
		direction = "southbound"
	}

	return minutes, location, direction, true
}

func categorise(text string) AlertType {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "elevator"):
		return AlertTypeElevator
	case strings.Contains(lower, "cancel"):
		return AlertTypeCancellation
	case strings.Contains(lower, "run ahead"), strings.Contains(lower, "running ahead"):
		return AlertTypeRunningAhead
	case strings.Contains(lower, "delay"):
		return AlertTypeDelay
	}

	return AlertTypeGeneral
}

func severityFor(text string, alertType AlertType) Severity {
	switch alertType {
	case AlertTypeCancellation:
		return SeverityCritical
	case AlertTypeElevator:
		return SeverityInfo
	case AlertTypeDelay:
		if match := delayMagnitudePattern.FindStringSubmatch(text); match != nil {
			maxDelay := maxOfRange(match[1], match[2])
			if maxDelay >= 30 {
				return SeverityCritical
			}
		}
		return SeverityWarning
	}

	return SeverityInfo
}

// ParseAlert classifies one alert sentence.
func ParseAlert(text string) Alert {
	alertType := categorise(text)

	alert := Alert{
		Text:     strings.TrimSpace(text),
		Type:     alertType,
		Severity: severityFor(text, alertType),
	}

	if match := trainNumberPattern.FindStringSubmatch(text); match != nil {
		alert.TrainNumber = match[1]
	}

	if delay := ParseTrainDelay(text); delay != nil {
		alert.DelayMinutes = delay.DelayMinutes
	}

	if minutes, location, direction, ok := parseSystemWide(text); ok {
		alert.SystemWide = true
		alert.Location = location
		alert.Direction = direction
		if alert.DelayMinutes == 0 {
			alert.DelayMinutes = minutes
		}
	}

	return alert
}

// ParseAlertsFromText splits raw page text into candidate alert sentences
// (periods and newlines both terminate a sentence, fragments of 10
// characters or fewer are noise) and classifies each independently.
func ParseAlertsFromText(text string) []Alert {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '\n'
	})

	var alerts []Alert
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if len(trimmed) <= 10 {
			continue
		}

		alerts = append(alerts, ParseAlert(trimmed))
	}

	return alerts
}

// ExtractTrainDelays reduces a set of alerts to one delay per train number,
// keeping the maximum when several alerts mention the same train.
func ExtractTrainDelays(alerts []Alert) map[string]TrainDelay {
	delays := map[string]TrainDelay{}

	for _, alert := range alerts {
		delay := ParseTrainDelay(alert.Text)
		if delay == nil {
			continue
		}

		existing, exists := delays[delay.TrainNumber]
		if !exists || delay.DelayMinutes > existing.DelayMinutes {
			delays[delay.TrainNumber] = *delay
		}
	}

	return delays
}

// SystemWideDelays filters to alerts that carry a delay applying to all
// trains, preserving their original order.
func SystemWideDelays(alerts []Alert) []Alert {
	var systemWide []Alert
	for _, alert := range alerts {
		if alert.SystemWide && alert.DelayMinutes > 0 {
			systemWide = append(systemWide, alert)
		}
	}

	return systemWide
}

func maxOfRange(low string, high string) int {
	lowValue, _ := strconv.Atoi(low)
	if high == "" {
		return lowValue
	}

	highValue, _ := strconv.Atoi(high)
	if highValue > lowValue {
		return highValue
	}
	return lowValue
}
