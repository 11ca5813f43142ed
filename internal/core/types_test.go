package core

import (
	"testing"
	"time"
)

func TestBar_IsValid(t *testing.T) {
	base := Bar{
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Open:   10.2,
		High:   10.8,
		Low:    10.0,
		Close:  10.5,
		Volume: 125000,
	}

	tests := []struct {
		name   string
		mutate func(*Bar)
		want   bool
	}{
		{"valid", func(b *Bar) {}, true},
		{"zero close", func(b *Bar) { b.Close = 0 }, false},
		{"negative open", func(b *Bar) { b.Open = -1 }, false},
		{"high below low", func(b *Bar) { b.High = 9.0 }, false},
		{"negative volume", func(b *Bar) { b.Volume = -1 }, false},
		{"negative amount", func(b *Bar) { b.Amount = -0.5 }, false},
		{"zero volume ok", func(b *Bar) { b.Volume = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			tt.mutate(&b)
			if got := b.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeries_Accessors(t *testing.T) {
	s := &Series{
		Symbol: "600519",
		Period: PeriodDaily,
		Bars: []Bar{
			{Close: 10, Volume: 100},
			{Close: 11, Volume: 200},
			{Close: 12, Volume: 300},
		},
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if s.Last().Close != 12 {
		t.Errorf("Last().Close = %f, want 12", s.Last().Close)
	}

	closes := s.Closes()
	if len(closes) != 3 || closes[1] != 11 {
		t.Errorf("unexpected closes: %v", closes)
	}

	vols := s.Volumes()
	if len(vols) != 3 || vols[2] != 300 {
		t.Errorf("unexpected volumes: %v", vols)
	}
}

func TestDirection_Constants(t *testing.T) {
	dirs := []Direction{DirectionBullish, DirectionBearish, DirectionNeutral}
	expected := []string{"bullish", "bearish", "neutral"}

	for i, d := range dirs {
		if string(d) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], d)
		}
	}
}
