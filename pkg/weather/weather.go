package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bayrail/bayrail/pkg/cache"
	"github.com/bayrail/bayrail/pkg/stations"
)

const cacheExpiry = 10 * time.Minute

type Data struct {
	Temperature int    `json:"temperature" groups:"basic"`
	Description string `json:"description" groups:"basic"`
	Icon        string `json:"icon" groups:"basic"`
	WindSpeed   int    `json:"wind_speed" groups:"basic"`
	Humidity    int    `json:"humidity" groups:"basic"`
}

type openWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Client looks up current conditions by station coordinate, cached for 10
// minutes per station. Without an API key it serves mock data.
type Client struct {
	APIKey     string
	HTTPClient *http.Client

	caches sync.Map // station ID -> *cache.TTL[Data]
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ForStation returns the weather at a station plus whether the data is mock.
func (c *Client) ForStation(ctx context.Context, station *stations.Station) (Data, bool) {
	if c.APIKey == "" {
		return mockWeather(station.Latitude), true
	}

	entry, _ := c.caches.LoadOrStore(station.ID, cache.NewTTL[Data](cacheExpiry))
	stationCache := entry.(*cache.TTL[Data])

	data, err := stationCache.Fetch(func() (Data, error) {
		return c.fetch(ctx, station)
	})
	if err != nil {
		log.Error().Err(err).Str("station", station.ID).Msg("Weather lookup failed, using mock data")
		return mockWeather(station.Latitude), true
	}

	return data, false
}

func (c *Client) fetch(ctx context.Context, station *stations.Station) (Data, error) {
	url := fmt.Sprintf(
		"https://api.openweathermap.org/data/2.5/weather?lat=%f&lon=%f&appid=%s&units=metric",
		station.Latitude, station.Longitude, c.APIKey,
	)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Data{}, err
	}

	resp, err := c.HTTPClient.Do(request)
	if err != nil {
		return Data{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Data{}, fmt.Errorf("weather api returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Data{}, err
	}

	var decoded openWeatherResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Data{}, err
	}
	if len(decoded.Weather) == 0 {
		return Data{}, fmt.Errorf("weather api returned no conditions")
	}

	return Data{
		Temperature: celsiusToFahrenheit(decoded.Main.Temp),
		Description: decoded.Weather[0].Description,
		Icon:        decoded.Weather[0].Icon,
		WindSpeed:   mpsToMph(decoded.Wind.Speed),
		Humidity:    decoded.Main.Humidity,
	}, nil
}

func celsiusToFahrenheit(celsius float64) int {
	return int(celsius*9/5 + 32 + 0.5)
}

func mpsToMph(mps float64) int {
	return int(mps*2.237 + 0.5)
}

// mockWeather follows the line's real microclimate: San Francisco runs
// cooler than San Jose, so temperature climbs as latitude drops.
func mockWeather(latitude float64) Data {
	baseTemp := 65 + (37.77-latitude)*20

	conditions := []struct {
		description string
		icon        string
	}{
		{"clear sky", "01d"},
		{"few clouds", "02d"},
		{"scattered clouds", "03d"},
		{"overcast clouds", "04d"},
	}
	condition := conditions[rand.Intn(len(conditions))]

	return Data{
		Temperature: int(baseTemp) + rand.Intn(6),
		Description: condition.description,
		Icon:        condition.icon,
		WindSpeed:   5 + rand.Intn(11),
		Humidity:    55 + rand.Intn(31),
	}
}
