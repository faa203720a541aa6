// Package weather fetches daily-averaged atmospheric conditions from the
// open-meteo forecast API. The scheduler uses a snapshot to scale the daily
// hydration target; a snapshot is fetched at most once per calendar date
// and cached on the water document.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Snapshot holds one day's averaged conditions.
type Snapshot struct {
	Temperature         float64 `json:"temperature"`         // °C
	ApparentTemperature float64 `json:"apparentTemperature"` // °C
	Humidity            float64 `json:"humidity"`            // %
	WindSpeed           float64 `json:"windSpeed"`           // km/h
	WindDirection       float64 `json:"windDirection"`       // degrees
	Pressure            float64 `json:"pressure"`            // hPa
	CloudCover          float64 `json:"cloudCover"`          // %
	Precipitation       float64 `json:"precipitation"`       // mm
	Visibility          float64 `json:"visibility"`          // m
	UVIndex             float64 `json:"uvIndex"`
	IsDay               bool    `json:"isDay"`
	WeatherCode         int     `json:"weatherCode"`
	Date                string  `json:"date,omitempty"` // YYYY-MM-DD the averages cover
}

// Neutral returns the snapshot used when no weather data is available.
// The values are chosen so each environmental multiplier that depends on a
// deviation (temperature, humidity, wind, UV) comes out at exactly 1.0.
func Neutral() Snapshot {
	return Snapshot{
		Temperature:         20,
		ApparentTemperature: 20,
		Humidity:            50,
		WindSpeed:           10,
		Pressure:            1013,
		CloudCover:          50,
		UVIndex:             3,
		IsDay:               true,
	}
}

const (
	defaultBaseURL = "https://api.open-meteo.com"
	fetchTimeout   = 10 * time.Second

	hourlyVars = "temperature_2m,apparent_temperature,relative_humidity_2m," +
		"wind_speed_10m,wind_direction_10m,surface_pressure,cloud_cover," +
		"precipitation,visibility,uv_index,is_day,weather_code"
)

// Client talks to the open-meteo forecast endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: fetchTimeout},
		log:     log,
	}
}

type forecastResponse struct {
	Hourly struct {
		Temperature   []float64 `json:"temperature_2m"`
		Apparent      []float64 `json:"apparent_temperature"`
		Humidity      []float64 `json:"relative_humidity_2m"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
		WindDirection []float64 `json:"wind_direction_10m"`
		Pressure      []float64 `json:"surface_pressure"`
		CloudCover    []float64 `json:"cloud_cover"`
		Precipitation []float64 `json:"precipitation"`
		Visibility    []float64 `json:"visibility"`
		UVIndex       []float64 `json:"uv_index"`
		IsDay         []float64 `json:"is_day"`
		WeatherCode   []float64 `json:"weather_code"`
	} `json:"hourly"`
}

// Fetch returns today's conditions for the given coordinates, averaged over
// the hourly forecast. The caller owns caching; Fetch always hits the API.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&hourly=%s&forecast_days=1",
		c.baseURL, lat, lon, hourlyVars,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request returned %s", resp.Status)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	h := body.Hourly
	if len(h.Temperature) == 0 {
		return nil, fmt.Errorf("forecast response has no hourly data")
	}

	snap := &Snapshot{
		Temperature:         mean(h.Temperature),
		ApparentTemperature: mean(h.Apparent),
		Humidity:            mean(h.Humidity),
		WindSpeed:           mean(h.WindSpeed),
		WindDirection:       mean(h.WindDirection),
		Pressure:            mean(h.Pressure),
		CloudCover:          mean(h.CloudCover),
		Precipitation:       mean(h.Precipitation),
		Visibility:          mean(h.Visibility),
		UVIndex:             mean(h.UVIndex),
		IsDay:               mean(h.IsDay) > 0.5,
		WeatherCode:         int(maxOf(h.WeatherCode)),
	}

	c.log.Debug("fetched weather snapshot",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Float64("temperature", snap.Temperature),
	)
	return snap, nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	m := sum / float64(len(vals))
	// One decimal is plenty for display and keeps the cached JSON tidy.
	return math.Round(m*10) / 10
}

func maxOf(vals []float64) float64 {
	var m float64
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
