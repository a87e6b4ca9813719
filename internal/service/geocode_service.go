package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agrisense/backend/internal/domain"
)

// GeocodeService reverse-geocodes coordinates via Nominatim
type GeocodeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeocodeService creates a new reverse-geocoding service. An empty
// baseURL selects the public Nominatim instance.
func NewGeocodeService(baseURL string) *GeocodeService {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &GeocodeService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type nominatimResponse struct {
	Address struct {
		State        string `json:"state"`
		CityDistrict string `json:"city_district"`
		District     string `json:"district"`
		County       string `json:"county"`
		Village      string `json:"village"`
		Town         string `json:"town"`
		City         string `json:"city"`
		Hamlet       string `json:"hamlet"`
	} `json:"address"`
}

// ReverseGeocode resolves a coordinate pair into state/district/village.
// On any failure it returns an empty Location, never an error.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, lat, lon float64) domain.Location {
	url := fmt.Sprintf("%s/reverse?format=json&addressdetails=1&lat=%f&lon=%f", s.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Location{}
	}
	req.Header.Set("User-Agent", "AgriSense/1.0 (support@agrisense.local)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		providerFallbacks.WithLabelValues("geocode").Inc()
		return domain.Location{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		providerFallbacks.WithLabelValues("geocode").Inc()
		return domain.Location{}
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		providerFallbacks.WithLabelValues("geocode").Inc()
		return domain.Location{}
	}

	addr := payload.Address
	return domain.Location{
		State:    addr.State,
		District: firstNonEmpty(addr.CityDistrict, addr.District, addr.County),
		Village:  firstNonEmpty(addr.Village, addr.Town, addr.City, addr.Hamlet),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
