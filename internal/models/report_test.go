package models

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestReport_DecodeNINAShape(t *testing.T) {
	raw := `{
		"Filter": "Ha",
		"AutoFocuserName": "NINA",
		"Timestamp": "2024-03-02T23:41:10.123+01:00",
		"Temperature": "NaN",
		"Method": "STARHFR",
		"Fitting": "TRENDHYPERBOLIC",
		"CalculatedFocusPoint": {"Position": 5123.4, "Value": 2.1, "Error": 0.01},
		"RSquares": {"Hyperbolic": 0.97, "LeftTrend": 0.9}
	}`
	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsNaN(r.Temperature.Value()) {
		t.Fatalf("temperature = %v; want NaN", r.Temperature)
	}
	if r.Position() != 5123.4 {
		t.Fatalf("position = %v", r.Position())
	}
	// the date follows the timestamp's own offset, not UTC
	if got := r.Date(); got != (Date{Year: 2024, Month: time.March, Day: 2}) {
		t.Fatalf("date = %v", got)
	}
	if r.RSquares.HyperbolicOrZero() != 0.97 || r.RSquares.QuadraticOrZero() != 0 {
		t.Fatalf("rsquares = %+v", r.RSquares)
	}
}

func TestReport_DecodeNaNScores(t *testing.T) {
	raw := `{
		"Filter": "L",
		"Timestamp": "2024-03-02T21:00:00Z",
		"Temperature": 2,
		"Fitting": "PARABOLIC",
		"CalculatedFocusPoint": {"Position": 4800, "Value": "NaN", "Error": "NaN"},
		"RSquares": {"Quadratic": "NaN", "Hyperbolic": 0.91, "LeftTrend": "Infinity"}
	}`
	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsNaN(r.RSquares.QuadraticOrZero()) {
		t.Fatalf("quadratic = %v; want NaN", r.RSquares.QuadraticOrZero())
	}
	if r.RSquares.HyperbolicOrZero() != 0.91 || !math.IsInf(r.RSquares.LeftTrendOrZero(), 1) || r.RSquares.RightTrendOrZero() != 0 {
		t.Fatalf("rsquares = %+v", r.RSquares)
	}
	if !math.IsNaN(r.CalculatedFocusPoint.Value.Value()) || !math.IsNaN(r.CalculatedFocusPoint.Error.Value()) {
		t.Fatalf("focus point = %+v", r.CalculatedFocusPoint)
	}

	out, err := json.Marshal(r.RSquares)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"Quadratic":"NaN"`) {
		t.Fatalf("NaN score should round trip as a string, got %s", out)
	}
}

func TestRSquares_NilIsZero(t *testing.T) {
	var r *RSquares
	if r.HyperbolicOrZero() != 0 || r.QuadraticOrZero() != 0 || r.LeftTrendOrZero() != 0 || r.RightTrendOrZero() != 0 {
		t.Fatalf("nil RSquares must read as zero")
	}
}

func TestFloat_JSON(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		nan  bool
	}{
		{`12.5`, 12.5, false},
		{`"NaN"`, 0, true},
		{`"Infinity"`, math.Inf(1), false},
		{`"-Infinity"`, math.Inf(-1), false},
		{`"-3.25"`, -3.25, false},
	}
	for _, tc := range cases {
		var f Float
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if tc.nan {
			if !math.IsNaN(f.Value()) {
				t.Fatalf("%s -> %v; want NaN", tc.in, f)
			}
			continue
		}
		if f.Value() != tc.want {
			t.Fatalf("%s -> %v; want %v", tc.in, f, tc.want)
		}
	}

	out, err := json.Marshal(Float(math.NaN()))
	if err != nil || string(out) != `"NaN"` {
		t.Fatalf("marshal NaN = %s, %v", out, err)
	}

	var bad Float
	if err := json.Unmarshal([]byte(`"warm"`), &bad); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
}

func TestParseTimestamp(t *testing.T) {
	withOffset, err := ParseTimestamp("2024-01-05T20:00:00-05:00")
	if err != nil {
		t.Fatalf("with offset: %v", err)
	}
	if _, off := withOffset.Zone(); off != -5*3600 {
		t.Fatalf("offset = %d", off)
	}

	noOffset, err := ParseTimestamp("2024-01-05T20:00:00.5")
	if err != nil {
		t.Fatalf("without offset: %v", err)
	}
	want := time.Date(2024, time.January, 5, 20, 0, 0, 500_000_000, time.UTC)
	if !noOffset.Equal(want) || noOffset.Location() != time.UTC {
		t.Fatalf("no offset = %v; want %v UTC", noOffset, want)
	}

	if _, err := ParseTimestamp("05/01/2024"); err == nil {
		t.Fatalf("expected error")
	}
}
