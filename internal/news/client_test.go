package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sabuzz/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsFixture = `{
	"status": "success",
	"totalResults": 2,
	"results": [
		{
			"title": "Load shedding suspended",
			"link": "https://example.com/a",
			"description": "Stage 0 through the weekend.",
			"image_url": "https://example.com/a.jpg",
			"source_id": "example",
			"pubDate": "2026-08-30 06:00:00",
			"category": ["top"]
		},
		{
			"title": "Springboks name squad",
			"link": "https://example.com/b",
			"source_id": "example",
			"pubDate": "2026-08-30 07:30:00",
			"category": ["sports"]
		}
	]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	client := NewClient(&config.Config{
		NewsAPIBase: ts.URL,
		NewsAPIKey:  "test-key",
		NewsCountry: "za",
	})
	return client, ts
}

func TestHeadlines(t *testing.T) {
	var gotQuery map[string]string
	client, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"apikey":  r.URL.Query().Get("apikey"),
			"country": r.URL.Query().Get("country"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsFixture))
	})
	defer ts.Close()

	articles, err := client.Headlines(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "test-key", gotQuery["apikey"])
	assert.Equal(t, "za", gotQuery["country"])

	assert.Equal(t, "Load shedding suspended", articles[0].Title)
	assert.Equal(t, "https://example.com/a", articles[0].Link)
	assert.Equal(t, "2026-08-30 06:00:00", articles[0].PubDate)
	assert.Equal(t, []string{"top"}, articles[0].Categories)
	assert.Empty(t, articles[1].Description)
}

func TestCategoryAndSearchParams(t *testing.T) {
	var category, query string
	client, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		category = r.URL.Query().Get("category")
		query = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"status":"success","totalResults":0,"results":[]}`))
	})
	defer ts.Close()

	_, err := client.Category(context.Background(), "business")
	require.NoError(t, err)
	assert.Equal(t, "business", category)

	_, err = client.Search(context.Background(), "elections")
	require.NoError(t, err)
	assert.Equal(t, "elections", query)
}

func TestHeadlinesUpstreamFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "HTTP Error Status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "Upstream Reports Failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"error","results":[]}`))
			},
		},
		{
			name: "Malformed Body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, ts := newTestClient(tt.handler)
			defer ts.Close()

			_, err := client.Headlines(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestWeatherCurrent(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latitude":        r.URL.Query().Get("latitude"),
			"current_weather": r.URL.Query().Get("current_weather"),
			"timezone":        r.URL.Query().Get("timezone"),
		}
		_, _ = w.Write([]byte(`{
			"current_weather": {"temperature": 21.5, "windspeed": 12.3, "weathercode": 3, "time": "2026-08-30T08:00"},
			"daily": {
				"time": ["2026-08-30", "2026-08-31"],
				"temperature_2m_max": [24.1, 22.8],
				"temperature_2m_min": [9.2, 8.7],
				"weathercode": [3, 61]
			}
		}`))
	}))
	defer ts.Close()

	client := NewWeatherClient(&config.Config{
		WeatherAPIBase: ts.URL,
		WeatherLat:     -26.2041,
		WeatherLon:     28.0473,
		WeatherTZ:      "Africa/Johannesburg",
	})

	weather, err := client.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "-26.2041", gotQuery["latitude"])
	assert.Equal(t, "true", gotQuery["current_weather"])
	assert.Equal(t, "Africa/Johannesburg", gotQuery["timezone"])

	assert.Equal(t, 21.5, weather.Temperature)
	assert.Equal(t, 3, weather.WeatherCode)
	require.Len(t, weather.Daily, 2)
	assert.Equal(t, "2026-08-31", weather.Daily[1].Date)
	assert.Equal(t, 61, weather.Daily[1].WeatherCode)
}

func TestWeatherUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewWeatherClient(&config.Config{WeatherAPIBase: ts.URL})
	_, err := client.Current(context.Background())
	assert.Error(t, err)
}
