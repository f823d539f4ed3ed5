package models

// Trend is the least-squares line relating temperature (x) to focuser position (y).
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Points    int     `json:"points"`
}

// PositionAt evaluates the trend at the given temperature.
func (t Trend) PositionAt(temperature float64) float64 {
	return t.Intercept + t.Slope*temperature
}
