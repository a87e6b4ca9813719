package service

import (
	"strings"

	"github.com/agrisense/backend/internal/domain"
)

// CropHealthService serves per-crop field health snapshots from a
// static sample table. A real deployment would back this with field
// sensor ingestion; the advisory pipeline only needs the shape.
type CropHealthService struct {
	samples map[string]domain.CropHealth
}

// NewCropHealthService creates the crop health provider
func NewCropHealthService() *CropHealthService {
	return &CropHealthService{samples: sampleCropHealth()}
}

// Get returns the health snapshot for a crop. Unknown crops return
// ok=false; the advisory falls back to NDVI-only health signals.
func (s *CropHealthService) Get(crop string) (domain.CropHealth, bool) {
	health, ok := s.samples[strings.ToLower(strings.TrimSpace(crop))]
	return health, ok
}

// All returns every monitored crop's snapshot, keyed by crop id
func (s *CropHealthService) All() map[string]domain.CropHealth {
	out := make(map[string]domain.CropHealth, len(s.samples))
	for k, v := range s.samples {
		out[k] = v
	}
	return out
}

func sampleCropHealth() map[string]domain.CropHealth {
	return map[string]domain.CropHealth{
		"cotton":    {Crop: "cotton", SoilMoisture: f(48), DaysSinceSowing: i(75), IsFallback: true},
		"wheat":     {Crop: "wheat", SoilMoisture: f(55), DaysSinceSowing: i(60), IsFallback: true},
		"rice":      {Crop: "rice", SoilMoisture: f(72), DaysSinceSowing: i(50), IsFallback: true},
		"soybean":   {Crop: "soybean", SoilMoisture: f(52), DaysSinceSowing: i(45), IsFallback: true},
		"onion":     {Crop: "onion", SoilMoisture: f(58), DaysSinceSowing: i(65), IsFallback: true},
		"sugarcane": {Crop: "sugarcane", SoilMoisture: f(66), DaysSinceSowing: i(150), IsFallback: true},
	}
}

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }
