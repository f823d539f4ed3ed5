package models

import (
	"errors"
	"fmt"
	"strings"
)

// FittingKind is the curve fitting used by an autofocus run to choose its focus point.
type FittingKind int

const (
	FittingParabolic FittingKind = iota
	FittingTrendParabolic
	FittingHyperbolic
	FittingTrendHyperbolic
	FittingTrendLines
)

var ErrUnrecognizedFitting = errors.New("unrecognized fitting kind")

var fittingNames = map[string]FittingKind{
	"PARABOLIC":       FittingParabolic,
	"TRENDPARABOLIC":  FittingTrendParabolic,
	"HYPERBOLIC":      FittingHyperbolic,
	"TRENDHYPERBOLIC": FittingTrendHyperbolic,
	"TRENDLINES":      FittingTrendLines,
}

// ParseFittingKind maps the text stored in a report to a FittingKind.
// Names are case-sensitive; surrounding whitespace is ignored. Numeric
// forms such as "2" are not accepted.
func ParseFittingKind(s string) (FittingKind, error) {
	if k, ok := fittingNames[strings.TrimSpace(s)]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedFitting, s)
}

var fittingKindNames = [...]string{
	FittingParabolic:       "PARABOLIC",
	FittingTrendParabolic:  "TRENDPARABOLIC",
	FittingHyperbolic:      "HYPERBOLIC",
	FittingTrendHyperbolic: "TRENDHYPERBOLIC",
	FittingTrendLines:      "TRENDLINES",
}

func (k FittingKind) String() string {
	if k >= 0 && int(k) < len(fittingKindNames) {
		return fittingKindNames[k]
	}
	return fmt.Sprintf("FittingKind(%d)", int(k))
}
