package domain

import "time"

// Weather represents current weather conditions for a location
type Weather struct {
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %
	Rainfall    float64   `json:"rainfall"`    // mm, last 24h
	WindSpeed   float64   `json:"wind_speed"`  // km/h
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	IsFallback  bool      `json:"is_fallback"`
}

// WeatherResponse wraps weather data with metadata
type WeatherResponse struct {
	Data    Weather `json:"data"`
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
}
