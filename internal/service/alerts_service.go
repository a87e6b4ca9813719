package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/agrisense/backend/internal/domain"
)

// AlertsService merges government advisories from several upstream
// sources into one normalized, date-sorted list. A failed source is
// replaced by its sample alert, never by an error.
type AlertsService struct {
	sources    []alertSource
	httpClient *http.Client
}

type alertSource struct {
	name string
	url  string
}

// NewAlertsService creates the government-alerts aggregator. An empty
// baseURL selects the public endpoints.
func NewAlertsService(baseURL string) *AlertsService {
	sources := []alertSource{
		{name: "Farmer Portal", url: baseURL + "/farmer/alerts"},
		{name: "ICAR KVK", url: baseURL + "/kvk/advisories"},
		{name: "Kisan Suvidha", url: baseURL + "/suvidha/notices"},
	}
	return &AlertsService{
		sources: sources,
		httpClient: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

type upstreamAlert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AlertType   string `json:"alert_type"`
	Date        string `json:"date"`
	Level       string `json:"level"`
}

// GetAlerts fans out to every source concurrently and merges the
// results, newest first.
func (s *AlertsService) GetAlerts(ctx context.Context, state, district string) []domain.GovAlert {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		merged []domain.GovAlert
	)

	for _, src := range s.sources {
		wg.Add(1)
		go func(src alertSource) {
			defer wg.Done()
			alerts := s.fetchSource(ctx, src, state, district)
			mu.Lock()
			merged = append(merged, alerts...)
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date > merged[j].Date
	})
	return merged
}

func (s *AlertsService) fetchSource(ctx context.Context, src alertSource, state, district string) []domain.GovAlert {
	url := fmt.Sprintf("%s?state=%s&district=%s", src.url, state, district)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return s.fallbackAlerts(src.name)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.fallbackAlerts(src.name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fallbackAlerts(src.name)
	}

	var upstream []upstreamAlert
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return s.fallbackAlerts(src.name)
	}

	alerts := make([]domain.GovAlert, 0, len(upstream))
	for _, a := range upstream {
		alerts = append(alerts, normalizeAlert(a, src.name))
	}
	return alerts
}

// normalizeAlert maps an upstream entry onto the common shape,
// defaulting the odd missing field.
func normalizeAlert(a upstreamAlert, source string) domain.GovAlert {
	alertType := a.AlertType
	if alertType == "" {
		alertType = "general"
	}
	level := a.Level
	if level == "" {
		level = "medium"
	}
	return domain.GovAlert{
		Title:       a.Title,
		Description: a.Description,
		AlertType:   alertType,
		Date:        a.Date,
		Source:      source,
		Level:       level,
	}
}

func (s *AlertsService) fallbackAlerts(source string) []domain.GovAlert {
	providerFallbacks.WithLabelValues("gov_alerts").Inc()
	return []domain.GovAlert{
		{
			Title:       fmt.Sprintf("Sample advisory from %s", source),
			Description: "Live alerts are unavailable; this is a fallback entry.",
			AlertType:   "general",
			Date:        time.Now().Format("2006-01-02"),
			Source:      source,
			Level:       "medium",
		},
	}
}
