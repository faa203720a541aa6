package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleForecast = `{
	"hourly": {
		"temperature_2m": [20, 30, 40],
		"apparent_temperature": [22, 32, 42],
		"relative_humidity_2m": [40, 50, 60],
		"wind_speed_10m": [5, 10, 15],
		"wind_direction_10m": [90, 180, 270],
		"surface_pressure": [1000, 1010, 1020],
		"cloud_cover": [0, 50, 100],
		"precipitation": [0, 0, 3],
		"visibility": [10000, 20000, 30000],
		"uv_index": [1, 2, 3],
		"is_day": [1, 1, 0],
		"weather_code": [0, 3, 61]
	}
}`

// ============================================================
// Fetch
// ============================================================

func TestFetchAverages(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(sampleForecast))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	snap, err := c.Fetch(context.Background(), 41.0, 29.0)
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/v1/forecast" {
		t.Fatalf("path = %q", gotPath)
	}
	if snap.Temperature != 30 {
		t.Fatalf("temperature = %v", snap.Temperature)
	}
	if snap.Humidity != 50 {
		t.Fatalf("humidity = %v", snap.Humidity)
	}
	if snap.WindSpeed != 10 {
		t.Fatalf("wind = %v", snap.WindSpeed)
	}
	if snap.Precipitation != 1 {
		t.Fatalf("precipitation = %v", snap.Precipitation)
	}
	// Majority of hours are daytime
	if !snap.IsDay {
		t.Fatal("expected IsDay")
	}
	// Weather code is the worst seen, not the mean
	if snap.WeatherCode != 61 {
		t.Fatalf("code = %d", snap.WeatherCode)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.Fetch(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchEmptyHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly": {}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.Fetch(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleForecast))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, nil)
	if _, err := c.Fetch(ctx, 0, 0); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

// ============================================================
// Neutral snapshot
// ============================================================

func TestNeutral(t *testing.T) {
	n := Neutral()
	if n.Temperature != 20 || n.Humidity != 50 || n.WindSpeed != 10 || n.UVIndex != 3 {
		t.Fatalf("neutral = %+v", n)
	}
	if !n.IsDay {
		t.Fatal("neutral should be daytime")
	}
	if n.Date != "" {
		t.Fatal("neutral must not claim a date")
	}
}
