package domain

// CropHealth is a per-crop field health snapshot. Pointer fields are
// nil when the upstream source has no reading for them.
type CropHealth struct {
	Crop            string   `json:"crop"`
	SoilMoisture    *float64 `json:"soil_moisture,omitempty"` // %
	DaysSinceSowing *int     `json:"days_since_sowing,omitempty"`
	CropStage       string   `json:"crop_stage,omitempty"` // explicit stage, overrides derivation
	IsFallback      bool     `json:"is_fallback"`
}
