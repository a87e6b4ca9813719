package service

import (
	"math"
	"strings"
	"time"

	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/pkg/utils"
)

// NDVIService produces synthetic but realistic NDVI readings. Values
// follow a smooth seasonal curve inside a crop-specific band with a
// small deterministic location component, so the same field on the
// same day always reads the same.
type NDVIService struct {
	now func() time.Time
}

// NewNDVIService creates a new synthetic NDVI provider
func NewNDVIService() *NDVIService {
	return &NDVIService{now: time.Now}
}

// ndviRanges are per-crop seasonal NDVI bands
var ndviRanges = map[string][2]float64{
	"cotton":    {0.35, 0.80},
	"wheat":     {0.45, 0.85},
	"rice":      {0.40, 0.90},
	"soybean":   {0.35, 0.80},
	"onion":     {0.30, 0.75},
	"sugarcane": {0.50, 0.90},
}

// Current returns today's NDVI value for a field
func (s *NDVIService) Current(lat, lon float64, crop string) float64 {
	return s.valueAt(s.now(), lat, lon, crop)
}

// Snapshot returns the latest NDVI with a trailing history of the
// given number of days. Change is latest minus the oldest entry.
func (s *NDVIService) Snapshot(lat, lon float64, crop string, days int) domain.NDVISnapshot {
	if days < 2 {
		days = 2
	}

	history := make([]domain.NDVIPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := s.now().AddDate(0, 0, -i)
		// Small wave on top of the seasonal curve
		wave := math.Sin(float64(i)/3) * 0.02
		value := utils.Clamp(s.valueAt(date, lat, lon, crop)+wave, 0.10, 0.95)
		history = append(history, domain.NDVIPoint{
			Date:  date.Format("2006-01-02"),
			Value: utils.RoundTo(value, 4),
		})
	}

	latest := history[len(history)-1].Value
	return domain.NDVISnapshot{
		Latest:  latest,
		Change:  utils.RoundTo(latest-history[0].Value, 4),
		History: history,
	}
}

// valueAt evaluates the seasonal curve for one date and location
func (s *NDVIService) valueAt(date time.Time, lat, lon float64, crop string) float64 {
	bounds, ok := ndviRanges[strings.ToLower(crop)]
	if !ok {
		bounds = [2]float64{0.30, 0.80}
	}
	baseMin, baseMax := bounds[0], bounds[1]

	dayOfYear := float64(date.YearDay())
	seasonalPhase := (math.Sin(2*math.Pi*dayOfYear/365) + 1) / 2
	ndvi := baseMin + (baseMax-baseMin)*seasonalPhase

	// Deterministic location variation: fields further from the
	// reference point drift within ±0.025.
	distance := utils.Haversine(lat, lon, DefaultLatitude, DefaultLongitude)
	ndvi += math.Mod(distance, 5.0)/100 - 0.025

	return utils.Clamp(utils.RoundTo(ndvi, 4), 0.10, 0.95)
}
