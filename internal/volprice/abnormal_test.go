package volprice

import (
	"testing"

	"github.com/quantgeo/gannwheel/internal/core"
)

func TestDetectAbnormalVolume_DryBar(t *testing.T) {
	s := flatSeries(120, func(i int, b *core.Bar) {
		if i == 90 {
			b.Volume = 20000 // well under half the 50000 baseline
		}
	})
	report := DetectAbnormalVolume(s, DefaultConfig())

	found := false
	for _, d := range report.Dries {
		if d.Equal(s.Bars[90].Date) {
			found = true
		}
	}
	if !found {
		t.Errorf("low-volume bar missing from dries %v", report.Dries)
	}
}

func TestDetectAbnormalVolume_ZeroVolumeIsDry(t *testing.T) {
	s := flatSeries(120, func(i int, b *core.Bar) {
		if i == 90 {
			b.Volume = 0
		}
	})
	report := DetectAbnormalVolume(s, DefaultConfig())

	found := false
	for _, d := range report.Dries {
		if d.Equal(s.Bars[90].Date) {
			found = true
		}
	}
	if !found {
		t.Errorf("zero-volume bar missing from dries %v", report.Dries)
	}
	for _, d := range report.Spikes {
		if d.Equal(s.Bars[90].Date) {
			t.Error("zero-volume bar must not be a spike")
		}
	}
}
