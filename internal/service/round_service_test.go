package service

import "testing"

func TestCrashHundredthsExact(t *testing.T) {
	cases := []struct {
		crash float64
		want  int64
	}{
		{1.0, 100},
		{1.05, 105},
		{1.15, 115},
		{2.5, 250},
		{7.29, 729},
		{99.99, 9999},
		{1000.0, 100000},
	}
	for _, tc := range cases {
		if got := crashHundredths(tc.crash); got != tc.want {
			t.Errorf("crashHundredths(%v) = %d, want %d", tc.crash, got, tc.want)
		}
	}
}

func TestCrashHundredthsRoundTripsFairness(t *testing.T) {
	f := NewFairness("boundary-seed")
	for nonce := int64(1); nonce <= 2000; nonce++ {
		crash, _ := f.CrashPointFor(nonce)
		h := crashHundredths(crash)
		if h < 100 || h > 100000 {
			t.Fatalf("nonce %d: hundredths %d outside [100, 100000]", nonce, h)
		}
		// Crash points are exact hundredths, so converting back must be
		// lossless; a truncating conversion fails this for values like 1.15.
		if float64(h)/100 != crash {
			t.Fatalf("nonce %d: crash %v does not round-trip through %d", nonce, crash, h)
		}
	}
}
