package analysis

import "autofocus_analysis/internal/models"

// Defaults applied to a fresh session.
const (
	DefaultTemperatureFrom    = -50.0
	DefaultTemperatureThrough = 50.0
	DefaultPositionFrom       = 0.0
	DefaultPositionThrough    = 1000000.0
	DefaultRSquaredAbove      = 0.7
)

// Settings are the user-selected filters. Range bounds are exclusive, date
// bounds are inclusive. An empty SelectedFilter only matches reports that
// carry no filter name either.
type Settings struct {
	TemperatureFrom    float64      `json:"temperature_from"`
	TemperatureThrough float64      `json:"temperature_through"`
	PositionFrom       float64      `json:"position_from"`
	PositionThrough    float64      `json:"position_through"`
	RSquaredAbove      float64      `json:"r_squared_above"`
	SelectedFilter     string       `json:"selected_filter"`
	DateFrom           *models.Date `json:"date_from"`
	DateThru           *models.Date `json:"date_thru"`
}

func DefaultSettings() Settings {
	return Settings{
		TemperatureFrom:    DefaultTemperatureFrom,
		TemperatureThrough: DefaultTemperatureThrough,
		PositionFrom:       DefaultPositionFrom,
		PositionThrough:    DefaultPositionThrough,
		RSquaredAbove:      DefaultRSquaredAbove,
	}
}

// Matches reports whether r passes every filter in s.
func Matches(r models.Report, s Settings, c *Classifier) bool {
	if r.Filter != s.SelectedFilter {
		return false
	}
	t := r.Temperature.Value()
	if !(t < s.TemperatureThrough && t > s.TemperatureFrom) {
		return false
	}
	p := r.Position()
	if !(p < s.PositionThrough && p > s.PositionFrom) {
		return false
	}
	if !c.IsGoodFit(r, s.RSquaredAbove) {
		return false
	}
	d := r.Date()
	if s.DateFrom != nil && d.Compare(*s.DateFrom) < 0 {
		return false
	}
	if s.DateThru != nil && d.Compare(*s.DateThru) > 0 {
		return false
	}
	return true
}

// Apply returns the reports matching s, in their original order.
func Apply(reports []models.Report, s Settings, c *Classifier) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if Matches(r, s, c) {
			out = append(out, r)
		}
	}
	return out
}
