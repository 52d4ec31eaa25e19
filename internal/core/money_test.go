package core

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		in  float64
		out float64
	}{
		{0, 0},
		{1700, 1700},
		{10.456, 10.46},
		{10.454, 10.45},
		{2.675, 2.68}, // decimal half-up, not binary
		{-3.333, -3.33},
		{-2.675, -2.68},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.out {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in  float64
		out float64
	}{
		{60, 60},
		{12.34, 12.3},
		{12.35, 12.4},
		{99.99, 100},
	}
	for _, tc := range cases {
		if got := Round1(tc.in); got != tc.out {
			t.Fatalf("Round1(%v) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestFormatPct(t *testing.T) {
	cases := map[float64]string{
		60:    "60.0",
		25:    "25.0",
		12.3:  "12.3",
		150.5: "150.5",
		0:     "0.0",
	}
	for in, want := range cases {
		if got := FormatPct(in); got != want {
			t.Errorf("FormatPct(%v) = %q, want %q", in, got, want)
		}
	}
}
