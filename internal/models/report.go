package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Report is a single autofocus run as written by the imaging application.
// A Report is never mutated after it has been loaded.
type Report struct {
	Filter               string     `json:"Filter"`
	AutoFocuserName      string     `json:"AutoFocuserName,omitempty"`
	StarDetectorName     string     `json:"StarDetectorName,omitempty"`
	Timestamp            Timestamp  `json:"Timestamp"`
	Temperature          Float      `json:"Temperature"`
	Method               string     `json:"Method,omitempty"`
	Fitting              string     `json:"Fitting"`
	CalculatedFocusPoint FocusPoint `json:"CalculatedFocusPoint"`
	RSquares             *RSquares  `json:"RSquares,omitempty"`

	// SourcePath is the file the report was decoded from; not part of the record.
	SourcePath string `json:"SourcePath,omitempty"`
}

// Position is the focuser position chosen by the run.
func (r Report) Position() float64 { return r.CalculatedFocusPoint.Position }

// Date is the calendar day of the run in the timestamp's own offset.
func (r Report) Date() Date { return DateOf(r.Timestamp.Time) }

type FocusPoint struct {
	Position float64 `json:"Position"`
	Value    Float   `json:"Value"`
	Error    Float   `json:"Error,omitempty"`
}

// RSquares holds the goodness-of-fit scores of each curve fitting. Every
// score is optional; use the OrZero accessors when evaluating them. A "NaN"
// score reads as NaN and fails every threshold.
type RSquares struct {
	Hyperbolic *Float `json:"Hyperbolic,omitempty"`
	Quadratic  *Float `json:"Quadratic,omitempty"`
	LeftTrend  *Float `json:"LeftTrend,omitempty"`
	RightTrend *Float `json:"RightTrend,omitempty"`
}

func orZero(v *Float) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

func (r *RSquares) HyperbolicOrZero() float64 {
	if r == nil {
		return 0
	}
	return orZero(r.Hyperbolic)
}

func (r *RSquares) QuadraticOrZero() float64 {
	if r == nil {
		return 0
	}
	return orZero(r.Quadratic)
}

func (r *RSquares) LeftTrendOrZero() float64 {
	if r == nil {
		return 0
	}
	return orZero(r.LeftTrend)
}

func (r *RSquares) RightTrendOrZero() float64 {
	if r == nil {
		return 0
	}
	return orZero(r.RightTrend)
}

// Float is a float64 that also accepts the "NaN" and "Infinity" strings the
// imaging application writes for missing sensor readings.
type Float float64

func (f Float) Value() float64 { return float64(f) }

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = Float(math.NaN())
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = str
	}
	switch s {
	case "NaN":
		*f = Float(math.NaN())
		return nil
	case "Infinity":
		*f = Float(math.Inf(1))
		return nil
	case "-Infinity":
		*f = Float(math.Inf(-1))
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Timestamp accepts RFC 3339 timestamps with or without a UTC offset.
// Values without an offset are taken as UTC.
type Timestamp struct {
	time.Time
}

const layoutNoOffset = "2006-01-02T15:04:05.999999999"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses the timestamp encodings found in report files.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.Parse(layoutNoOffset, s)
}
