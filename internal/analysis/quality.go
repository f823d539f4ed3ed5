package analysis

import "autofocus_analysis/internal/models"

// Logger is the subset of logger.Logger the engine needs.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

// Classifier decides whether a report's curve fit is good enough to keep.
type Classifier struct {
	log Logger
}

func NewClassifier(log Logger) *Classifier {
	return &Classifier{log: log}
}

// IsGoodFit reports whether the R² score governing r's fitting kind is above
// threshold. Reports whose fitting kind cannot be parsed always pass.
func (c *Classifier) IsGoodFit(r models.Report, threshold float64) bool {
	kind, err := models.ParseFittingKind(r.Fitting)
	if err != nil {
		if c != nil && c.log != nil {
			c.log.Warnw("unknown_fitting_kind_r2_filter_ignored", "fitting", r.Fitting, "source", r.SourcePath)
		}
		return true
	}

	switch kind {
	case models.FittingHyperbolic, models.FittingTrendHyperbolic:
		return r.RSquares.HyperbolicOrZero() > threshold
	case models.FittingParabolic, models.FittingTrendParabolic:
		return r.RSquares.QuadraticOrZero() > threshold
	case models.FittingTrendLines:
		return r.RSquares.LeftTrendOrZero() > threshold && r.RSquares.RightTrendOrZero() > threshold
	default:
		return true
	}
}
