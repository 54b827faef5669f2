package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"sabuzz/internal/cache"
	"sabuzz/internal/config"
	"sabuzz/internal/observability"
)

// Weather is the current conditions plus a short daily outlook, shaped
// for the site header widget.
type Weather struct {
	Temperature float64      `json:"temperature"`
	WindSpeed   float64      `json:"wind_speed"`
	WeatherCode int          `json:"weather_code"`
	Time        string       `json:"time"`
	Daily       []DailyEntry `json:"daily,omitempty"`
}

// DailyEntry is one day of forecast.
type DailyEntry struct {
	Date        string  `json:"date"`
	TempMax     float64 `json:"temp_max"`
	TempMin     float64 `json:"temp_min"`
	WeatherCode int     `json:"weather_code"`
}

// WeatherClient talks to the open-meteo forecast API. The API is keyless.
type WeatherClient struct {
	baseURL  string
	lat, lon float64
	timezone string
	http     *http.Client
}

func NewWeatherClient(cfg *config.Config) *WeatherClient {
	return &WeatherClient{
		baseURL:  cfg.WeatherAPIBase,
		lat:      cfg.WeatherLat,
		lon:      cfg.WeatherLon,
		timezone: cfg.WeatherTZ,
		http:     &http.Client{Timeout: fetchTimeout},
	}
}

type weatherResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"daily"`
}

// Current returns current conditions for the configured location.
func (c *WeatherClient) Current(ctx context.Context) (*Weather, error) {
	lat := strconv.FormatFloat(c.lat, 'f', 4, 64)
	lon := strconv.FormatFloat(c.lon, 'f', 4, 64)

	var weather Weather
	err := cache.Aside(ctx, cache.WeatherKey(lat, lon), &weather, cache.WeatherTTL, func() error {
		fetched, fetchErr := c.fetch(ctx, lat, lon)
		if fetchErr != nil {
			return fetchErr
		}
		weather = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &weather, nil
}

func (c *WeatherClient) fetch(ctx context.Context, lat, lon string) (*Weather, error) {
	params := url.Values{}
	params.Set("latitude", lat)
	params.Set("longitude", lon)
	params.Set("current_weather", "true")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	if c.timezone != "" {
		params.Set("timezone", c.timezone)
	}
	endpoint := fmt.Sprintf("%s/forecast?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.RecordExternalFetch("open-meteo", "error")
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		observability.RecordExternalFetch("open-meteo", "error")
		return nil, fmt.Errorf("fetch weather: upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		observability.RecordExternalFetch("open-meteo", "error")
		return nil, fmt.Errorf("read weather response: %w", err)
	}

	var parsed weatherResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observability.RecordExternalFetch("open-meteo", "error")
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	observability.RecordExternalFetch("open-meteo", "success")
	weather := &Weather{
		Temperature: parsed.CurrentWeather.Temperature,
		WindSpeed:   parsed.CurrentWeather.WindSpeed,
		WeatherCode: parsed.CurrentWeather.WeatherCode,
		Time:        parsed.CurrentWeather.Time,
	}
	for i, day := range parsed.Daily.Time {
		entry := DailyEntry{Date: day}
		if i < len(parsed.Daily.TempMax) {
			entry.TempMax = parsed.Daily.TempMax[i]
		}
		if i < len(parsed.Daily.TempMin) {
			entry.TempMin = parsed.Daily.TempMin[i]
		}
		if i < len(parsed.Daily.WeatherCode) {
			entry.WeatherCode = parsed.Daily.WeatherCode[i]
		}
		weather.Daily = append(weather.Daily, entry)
	}
	return weather, nil
}
