package service

import (
	"context"
	"sync"
	"time"

	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/domain"
)

// DashboardService aggregates the live monitoring snapshot: weather,
// market table, alerts, crop health and NDVI, without rule evaluation.
type DashboardService struct {
	crops      *crops.Store
	weatherSvc *WeatherService
	marketSvc  *MarketService
	ndviSvc    *NDVIService
	alertsSvc  *AlertsService
	healthSvc  *CropHealthService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	cropStore *crops.Store,
	weatherSvc *WeatherService,
	marketSvc *MarketService,
	ndviSvc *NDVIService,
	alertsSvc *AlertsService,
	healthSvc *CropHealthService,
) *DashboardService {
	return &DashboardService{
		crops:      cropStore,
		weatherSvc: weatherSvc,
		marketSvc:  marketSvc,
		ndviSvc:    ndviSvc,
		alertsSvc:  alertsSvc,
		healthSvc:  healthSvc,
	}
}

// GetDashboardData fetches all snapshot components concurrently.
// Every component degrades to fallback data on its own, so the
// snapshot is always complete and self-consistent.
func (s *DashboardService) GetDashboardData(ctx context.Context) (domain.DashboardData, error) {
	var (
		weather domain.Weather
		market  map[string]domain.MarketPrice
		alerts  []domain.GovAlert
		wg      sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		weather, _ = s.weatherSvc.GetCurrentWeather(ctx, DefaultLatitude, DefaultLongitude)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		market = s.marketSvc.GetAll(ctx, s.crops.Crops())
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		alerts = s.alertsSvc.GetAlerts(ctx, "", "")
	}()

	health := s.healthSvc.All()
	ndvi := s.ndviSvc.Snapshot(DefaultLatitude, DefaultLongitude, "cotton", 7)
	wg.Wait()

	highPriority := 0
	for _, a := range alerts {
		if a.Level == "high" {
			highPriority++
		}
	}

	return domain.DashboardData{
		Weather:    weather,
		Market:     market,
		Alerts:     alerts,
		CropHealth: health,
		NDVI:       ndvi,
		Summary: domain.DashboardSummary{
			TotalAlerts:       len(alerts),
			HighPriorityCount: highPriority,
			CropsMonitored:    len(health),
		},
		Timestamp: time.Now(),
	}, nil
}

// GetWeather returns current weather for the default region
func (s *DashboardService) GetWeather(ctx context.Context) (domain.Weather, error) {
	return s.weatherSvc.GetCurrentWeather(ctx, DefaultLatitude, DefaultLongitude)
}

// GetMarket returns the latest price for one crop
func (s *DashboardService) GetMarket(ctx context.Context, crop string) (domain.MarketPrice, error) {
	return s.marketSvc.GetPrice(ctx, crop, "")
}

// GetNDVI returns the NDVI snapshot for a field
func (s *DashboardService) GetNDVI(lat, lon float64, crop string) domain.NDVISnapshot {
	return s.ndviSvc.Snapshot(lat, lon, crop, 7)
}

// GetAlerts returns merged government alerts
func (s *DashboardService) GetAlerts(ctx context.Context, state, district string) []domain.GovAlert {
	return s.alertsSvc.GetAlerts(ctx, state, district)
}
