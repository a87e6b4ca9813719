package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/internal/fusion"
)

// AdvisoryService runs the full advisory pipeline: concurrent provider
// fan-out, feature fusion, rule evaluation, aggregation and
// explanation. It holds no per-request state.
type AdvisoryService struct {
	crops      *crops.Store
	engine     *fusion.Engine
	weatherSvc *WeatherService
	marketSvc  *MarketService
	ndviSvc    *NDVIService
	geocodeSvc *GeocodeService
	healthSvc  *CropHealthService
}

// NewAdvisoryService wires the advisory pipeline
func NewAdvisoryService(
	cropStore *crops.Store,
	engine *fusion.Engine,
	weatherSvc *WeatherService,
	marketSvc *MarketService,
	ndviSvc *NDVIService,
	geocodeSvc *GeocodeService,
	healthSvc *CropHealthService,
) *AdvisoryService {
	return &AdvisoryService{
		crops:      cropStore,
		engine:     engine,
		weatherSvc: weatherSvc,
		marketSvc:  marketSvc,
		ndviSvc:    ndviSvc,
		geocodeSvc: geocodeSvc,
		healthSvc:  healthSvc,
	}
}

// GetAdvisory computes a complete advisory for one crop and location.
// Provider failures degrade to fallback payloads inside the providers;
// an error here means the advisory could not be computed at all.
func (s *AdvisoryService) GetAdvisory(ctx context.Context, req domain.AdvisoryRequest) (domain.Advisory, error) {
	start := time.Now()

	lat, lon := DefaultLatitude, DefaultLongitude
	if req.Latitude != nil && req.Longitude != nil {
		lat, lon = *req.Latitude, *req.Longitude
	}

	var (
		weather  domain.Weather
		market   domain.MarketPrice
		location domain.Location
		wg       sync.WaitGroup
	)

	// Independent provider calls are issued concurrently and joined
	// before context construction. Each writes its own variable, so
	// no mutex is needed.
	wg.Add(1)
	go func() {
		defer wg.Done()
		weather, _ = s.weatherSvc.GetCurrentWeather(ctx, lat, lon)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		market, _ = s.marketSvc.GetPrice(ctx, req.Crop, req.District)
	}()

	if req.District == "" && req.Latitude != nil && req.Longitude != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			location = s.geocodeSvc.ReverseGeocode(ctx, lat, lon)
		}()
	} else {
		location = domain.Location{District: req.District}
	}

	ndvi := s.ndviSvc.Snapshot(lat, lon, req.Crop, 7)
	wg.Wait()

	meta := s.crops.Lookup(req.Crop)

	var healthPtr *domain.CropHealth
	if health, ok := s.healthSvc.Get(req.Crop); ok {
		healthPtr = &health
	}

	featureCtx := fusion.BuildContext(meta, &weather, &ndvi, healthPtr, &market, location, req.Overrides)

	pest, err := s.engine.Evaluate(fusion.CategoryPest, &featureCtx, meta)
	if err != nil {
		return domain.Advisory{}, fmt.Errorf("advisory: pest rules: %w", err)
	}
	irrigation, err := s.engine.Evaluate(fusion.CategoryIrrigation, &featureCtx, meta)
	if err != nil {
		return domain.Advisory{}, fmt.Errorf("advisory: irrigation rules: %w", err)
	}
	marketResult, err := s.engine.Evaluate(fusion.CategoryMarket, &featureCtx, meta)
	if err != nil {
		return domain.Advisory{}, fmt.Errorf("advisory: market rules: %w", err)
	}

	agg := fusion.AggregateResults(pest, irrigation, marketResult, &featureCtx)

	allFired := make([]string, 0, len(pest.Fired)+len(irrigation.Fired)+len(marketResult.Fired))
	allFired = append(allFired, pest.Fired...)
	allFired = append(allFired, irrigation.Fired...)
	allFired = append(allFired, marketResult.Fired...)

	metrics := featureCtx.Metrics()
	explanation := fusion.Explain(agg.Breakdown, allFired, metrics, meta, agg.Severity, featureCtx.UserDistrict)

	cropName := meta.Name
	if cropName == "" {
		cropName = req.Crop
	}

	advisoriesTotal.WithLabelValues(req.Crop, string(agg.Severity)).Inc()
	advisoryDuration.Observe(time.Since(start).Seconds())

	return domain.Advisory{
		Crop:            cropName,
		Severity:        agg.Severity,
		Summary:         explanation.Summary,
		Why:             explanation.Why,
		Alerts:          agg.Alerts,
		Metrics:         metrics,
		Recommendations: explanation.Actions,
		RuleScore:       agg.Score,
		FiredRules:      allFired,
		RuleBreakdown:   agg.Breakdown,
		Confidence:      explanation.Confidence,
		DataSources:     explanation.DataSources,
		LastUpdated:     time.Now(),
	}, nil
}
