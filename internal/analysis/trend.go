package analysis

import (
	"errors"
	"fmt"
	"math"

	"autofocus_analysis/internal/models"

	"gonum.org/v1/gonum/stat"
)

var ErrUnfittable = errors.New("trend cannot be fitted")

// Point is a (temperature, position) sample.
type Point struct {
	X float64
	Y float64
}

// PointsOf maps reports to (temperature, position) points.
func PointsOf(reports []models.Report) []Point {
	out := make([]Point, len(reports))
	for i, r := range reports {
		out[i] = Point{X: r.Temperature.Value(), Y: r.Position()}
	}
	return out
}

// Fit computes the equal-weight least-squares line through points.
// It fails with ErrUnfittable for fewer than two points, identical x values
// or a non-finite result.
func Fit(points []Point) (models.Trend, error) {
	if len(points) < 2 {
		return models.Trend{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrUnfittable, len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return models.Trend{}, fmt.Errorf("%w: non-finite point %d (%v, %v)", ErrUnfittable, i, p.X, p.Y)
		}
		xs[i], ys[i] = p.X, p.Y
	}
	if constant(xs) {
		return models.Trend{}, fmt.Errorf("%w: all temperatures equal %v", ErrUnfittable, xs[0])
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if !isFinite(intercept) || !isFinite(slope) {
		return models.Trend{}, fmt.Errorf("%w: singular regression", ErrUnfittable)
	}

	r2 := 1.0
	if !constant(ys) {
		r2 = stat.RSquared(xs, ys, nil, intercept, slope)
		if !isFinite(r2) {
			r2 = 0
		}
	}

	return models.Trend{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		Points:    len(points),
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func constant(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}
