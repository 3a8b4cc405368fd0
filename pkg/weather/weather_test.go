package weather

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayrail/bayrail/pkg/stations"
)

func TestUnitConversions(t *testing.T) {
	assert.Equal(t, 32, celsiusToFahrenheit(0))
	assert.Equal(t, 68, celsiusToFahrenheit(20))
	assert.Equal(t, 59, celsiusToFahrenheit(15.2))

	assert.Equal(t, 0, mpsToMph(0))
	assert.Equal(t, 11, mpsToMph(5))
	assert.Equal(t, 22, mpsToMph(10))
}

func TestMockWeatherLatitudeGradient(t *testing.T) {
	sanFrancisco := stations.GetByID("sf")
	gilroy := stations.GetByID("gilroy")
	require.NotNil(t, sanFrancisco)
	require.NotNil(t, gilroy)

	// Sample repeatedly to see past the random jitter
	minimumSpread := 0
	for i := 0; i < 20; i++ {
		north := mockWeather(sanFrancisco.Latitude)
		south := mockWeather(gilroy.Latitude)

		assert.NotEmpty(t, north.Description)
		assert.GreaterOrEqual(t, north.Humidity, 55)

		if south.Temperature-north.Temperature > minimumSpread {
			minimumSpread = south.Temperature - north.Temperature
		}
	}

	assert.Greater(t, minimumSpread, 0, "inland stations should run warmer than the city")
}

func TestForStationWithoutKeyIsMock(t *testing.T) {
	client := NewClient("")

	_, mock := client.ForStation(context.Background(), stations.GetByID("pa"))

	assert.True(t, mock)
}
