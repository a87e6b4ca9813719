package domain

// NDVIPoint is a single dated NDVI observation
type NDVIPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"ndvi"`
}

// NDVISnapshot holds the latest NDVI reading with its trailing history.
// Change is latest minus the oldest history value; zero when history is
// too short to compare.
type NDVISnapshot struct {
	Latest  float64     `json:"latest"`
	Change  float64     `json:"change"`
	History []NDVIPoint `json:"history"`
}
