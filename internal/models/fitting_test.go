package models

import (
	"errors"
	"testing"
)

func TestParseFittingKind(t *testing.T) {
	cases := []struct {
		in      string
		want    FittingKind
		wantErr bool
	}{
		{"HYPERBOLIC", FittingHyperbolic, false},
		{"TRENDHYPERBOLIC", FittingTrendHyperbolic, false},
		{"PARABOLIC", FittingParabolic, false},
		{"TRENDPARABOLIC", FittingTrendParabolic, false},
		{"TRENDLINES", FittingTrendLines, false},
		{"  HYPERBOLIC\n", FittingHyperbolic, false},
		{"hyperbolic", 0, true},
		{"", 0, true},
		{"GAUSSIAN", 0, true},
		{"2", 0, true},
		{"0", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseFittingKind(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnrecognizedFitting) {
				t.Fatalf("ParseFittingKind(%q) err = %v; want ErrUnrecognizedFitting", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseFittingKind(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if got.String() == "" {
			t.Fatalf("empty String() for %v", got)
		}
	}
}

func TestFittingKind_String(t *testing.T) {
	cases := map[FittingKind]string{
		FittingParabolic:       "PARABOLIC",
		FittingTrendParabolic:  "TRENDPARABOLIC",
		FittingHyperbolic:      "HYPERBOLIC",
		FittingTrendHyperbolic: "TRENDHYPERBOLIC",
		FittingTrendLines:      "TRENDLINES",
		FittingKind(9):         "FittingKind(9)",
		FittingKind(-1):        "FittingKind(-1)",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("String() = %q; want %q", got, want)
		}
		if k >= 0 && int(k) < len(fittingKindNames) {
			if parsed, err := ParseFittingKind(want); err != nil || parsed != k {
				t.Fatalf("ParseFittingKind(%q) = %v, %v; want %v", want, parsed, err, k)
			}
		}
	}
}
