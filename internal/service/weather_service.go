package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agrisense/backend/internal/domain"
)

// Default field coordinates (Vidarbha cotton belt) used when a request
// carries no location.
const (
	DefaultLatitude  = 21.1458
	DefaultLongitude = 79.0882
)

// WeatherService fetches current weather from Open-Meteo
type WeatherService struct {
	baseURL    string
	httpClient *http.Client
}

// NewWeatherService creates a new weather service. An empty baseURL
// selects the public Open-Meteo endpoint.
func NewWeatherService(baseURL string) *WeatherService {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com"
	}
	return &WeatherService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// openMeteoResponse mirrors the Open-Meteo current-weather payload
type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		Rain        float64 `json:"rain"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// GetCurrentWeather fetches current weather for a coordinate pair.
// Any provider failure degrades to the deterministic seasonal sample
// payload; the caller never sees the failure as an error.
func (s *WeatherService) GetCurrentWeather(ctx context.Context, lat, lon float64) (domain.Weather, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%f&longitude=%f&current=temperature_2m,relative_humidity_2m,rain,wind_speed_10m",
		s.baseURL, lat, lon,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.fallbackWeather(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fallbackWeather(), nil
	}

	var om openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&om); err != nil {
		return s.fallbackWeather(), nil
	}

	return domain.Weather{
		Temperature: om.Current.Temperature,
		Humidity:    om.Current.Humidity,
		Rainfall:    om.Current.Rain,
		WindSpeed:   om.Current.WindSpeed,
		Description: describeWeather(om.Current.Temperature, om.Current.Rain),
		Timestamp:   time.Now(),
		IsFallback:  false,
	}, nil
}

// fallbackWeather returns the static seasonal sample payload
func (s *WeatherService) fallbackWeather() domain.Weather {
	providerFallbacks.WithLabelValues("weather").Inc()

	month := time.Now().Month()
	var temp, humidity, rainfall float64
	var description string

	switch {
	case month >= 6 && month <= 9: // Monsoon
		temp = 29.0
		humidity = 82.0
		rainfall = 14.0
		description = "Monsoon showers"
	case month >= 10 && month <= 11: // Post-monsoon
		temp = 27.0
		humidity = 65.0
		rainfall = 2.0
		description = "Partly cloudy"
	case month == 12 || month <= 2: // Winter
		temp = 21.0
		humidity = 55.0
		rainfall = 0.0
		description = "Clear sky"
	default: // Summer
		temp = 38.0
		humidity = 35.0
		rainfall = 0.0
		description = "Hot and dry"
	}

	return domain.Weather{
		Temperature: temp,
		Humidity:    humidity,
		Rainfall:    rainfall,
		WindSpeed:   8.5,
		Description: description,
		Timestamp:   time.Now(),
		IsFallback:  true,
	}
}

func describeWeather(temp, rain float64) string {
	switch {
	case rain > 10:
		return "Heavy rain"
	case rain > 0:
		return "Light rain"
	case temp > 35:
		return "Hot and dry"
	default:
		return "Clear sky"
	}
}
