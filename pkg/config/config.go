package config

import (
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide application configuration
var Config AppConfig

type TransitConfig struct {
	APIKey          string `yaml:"api_key"`
	RealtimeAPIBase string `yaml:"realtime_api_base"`
	ScheduleURL     string `yaml:"schedule_url"`
	LocalGTFSDir    string `yaml:"local_gtfs_dir"`
	Agency          string `yaml:"agency"`
}

type ScrapersConfig struct {
	AlertsURL   string `yaml:"alerts_url"`
	TimelineURL string `yaml:"timeline_url"`
}

type EnrichmentConfig struct {
	WeatherAPIKey      string `yaml:"weather_api_key"`
	TicketmasterAPIKey string `yaml:"ticketmaster_api_key"`
}

type AppConfig struct {
	Transit    TransitConfig    `yaml:"transit"`
	Scrapers   ScrapersConfig   `yaml:"scrapers"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// Load reads config.yaml (if present) and then applies environment variable
// overrides. A missing file is not an error as every value has either a
// default or an env fallback.
func Load() {
	Config = AppConfig{
		Transit: TransitConfig{
			RealtimeAPIBase: "http://api.511.org/transit",
			ScheduleURL:     "https://data.trilliumtransit.com/gtfs/caltrain-ca-us/caltrain-ca-us.zip",
			LocalGTFSDir:    "data/gtfs",
			Agency:          "CT",
		},
		Scrapers: ScrapersConfig{
			AlertsURL:   "https://www.caltrain.com/alerts",
			TimelineURL: "https://x.com/CaltrainAlerts/with_replies",
		},
	}

	for _, path := range []string{"config.yaml", "config.yml"} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := yaml.Unmarshal(data, &Config); err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to parse config file")
		}
		break
	}

	overrideFromEnv(&Config.Transit.APIKey, "BAYRAIL_TRANSIT_API_KEY")
	overrideFromEnv(&Config.Transit.ScheduleURL, "BAYRAIL_GTFS_SCHEDULE_URL")
	overrideFromEnv(&Config.Transit.LocalGTFSDir, "BAYRAIL_GTFS_LOCAL_DIR")
	overrideFromEnv(&Config.Scrapers.AlertsURL, "BAYRAIL_ALERTS_URL")
	overrideFromEnv(&Config.Scrapers.TimelineURL, "BAYRAIL_TIMELINE_URL")
	overrideFromEnv(&Config.Enrichment.WeatherAPIKey, "BAYRAIL_WEATHER_API_KEY")
	overrideFromEnv(&Config.Enrichment.TicketmasterAPIKey, "BAYRAIL_TICKETMASTER_API_KEY")
}

func overrideFromEnv(target *string, key string) {
	if value, exists := os.LookupEnv(key); exists {
		*target = value
	}
}
