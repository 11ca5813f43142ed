package volprice

import (
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/indicator"
)

// divergenceHorizon is how many bars a divergence event stays armed as
// a signal precondition after its pivot confirms.
const divergenceHorizon = 10

// SignalKind is the side of a trading signal.
type SignalKind string

const (
	SignalBuy  SignalKind = "buy"
	SignalSell SignalKind = "sell"
)

// Rationale tags identifying which precondition fired.
const (
	TagBottomDivergence = "bottom_divergence"
	TagTopDivergence    = "top_divergence"
	TagDryToSpike       = "dry_to_spike"
	TagVolumeSpike      = "volume_spike"
	TagMACrossUp        = "ma_cross_up"
	TagMACrossDown      = "ma_cross_down"
)

// Signal is one dated trading signal with the conditions that fired it.
type Signal struct {
	Date       time.Time  `json:"date"`
	Kind       SignalKind `json:"kind"`
	Confidence float64    `json:"confidence"` // [0, 1]
	Tags       []string   `json:"tags"`
}

// GenerateSignals scans the series chronologically. A buy fires when a
// short-average upward cross coincides with an armed bottom divergence
// or a dry-to-spike volume transition; a sell is the mirror at tops.
// The scan is a pure function of the series, so re-running it yields an
// identical list.
func GenerateSignals(s *core.Series, div DivergenceReport, coord Coordination, cfg Config) []Signal {
	short := cfg.ShortPeriod()
	closes := s.Closes()
	ma := indicator.SMA(closes, short)
	if len(ma) < 2 {
		return nil
	}
	ratios := volumeRatios(s, cfg)

	maAt := func(i int) float64 { return ma[i-short+1] }

	var signals []Signal
	for i := short; i < s.Len(); i++ {
		crossUp := closes[i] > maAt(i) && closes[i-1] <= maAt(i-1)
		crossDown := closes[i] < maAt(i) && closes[i-1] >= maAt(i-1)
		if !crossUp && !crossDown {
			continue
		}

		var tags []string
		if crossUp {
			if armedDivergence(div.Events, BottomDivergence, i) {
				tags = append(tags, TagBottomDivergence)
			}
			if dryToSpike(ratios, i, cfg) {
				tags = append(tags, TagDryToSpike)
			}
			if len(tags) == 0 {
				continue
			}
			tags = append(tags, TagMACrossUp)
			signals = append(signals, Signal{
				Date:       s.Bars[i].Date,
				Kind:       SignalBuy,
				Confidence: coord.CombinedStrength,
				Tags:       tags,
			})
			continue
		}

		if armedDivergence(div.Events, TopDivergence, i) {
			tags = append(tags, TagTopDivergence)
		}
		if ratios[i] >= cfg.VolumeThreshold {
			tags = append(tags, TagVolumeSpike)
		}
		if len(tags) == 0 {
			continue
		}
		tags = append(tags, TagMACrossDown)
		signals = append(signals, Signal{
			Date:       s.Bars[i].Date,
			Kind:       SignalSell,
			Confidence: coord.CombinedStrength,
			Tags:       tags,
		})
	}
	return signals
}

// armedDivergence reports whether an event of the given kind confirmed
// within the horizon before bar i.
func armedDivergence(events []DivergenceEvent, kind DivergenceKind, i int) bool {
	for _, e := range events {
		if e.Kind != kind {
			continue
		}
		if e.Index <= i && i-e.Index <= divergenceHorizon {
			return true
		}
	}
	return false
}

// dryToSpike reports a spike at bar i preceded by a dry bar within the
// short window.
func dryToSpike(ratios []float64, i int, cfg Config) bool {
	if ratios[i] < cfg.VolumeThreshold {
		return false
	}
	for j := i - cfg.ShortPeriod(); j < i; j++ {
		if j >= 0 && ratios[j] > 0 && ratios[j] <= 1/cfg.VolumeThreshold {
			return true
		}
	}
	return false
}
