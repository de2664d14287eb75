package models

import "time"

// Bar is one daily OHLC record. Close is authoritative: a bar without a
// close is dropped during normalization, and missing open/high/low fall
// back to close.
type Bar struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Series is the chronologically ordered price history of one asset.
// Timestamps are unique and ascending.
type Series struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Empty reports whether the series holds no bars.
func (s Series) Empty() bool { return len(s.Bars) == 0 }

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s Series) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Delta returns the day-over-day change of the latest close. Series with
// fewer than two bars report 0.
func (s Series) Delta() float64 {
	n := len(s.Bars)
	if n < 2 {
		return 0
	}
	return s.Bars[n-1].Close - s.Bars[n-2].Close
}

// Flat reports whether more than half of the bars have high == low.
// Flat series render as a line instead of candlesticks.
func (s Series) Flat() bool {
	if len(s.Bars) == 0 {
		return false
	}
	flat := 0
	for _, b := range s.Bars {
		if b.High == b.Low {
			flat++
		}
	}
	return float64(flat)/float64(len(s.Bars)) > 0.5
}

// Normalize drops bars without a close, backfills open/high/low from close
// and applies a unit scale factor (e.g. 100 for JPY pairs quoted per 100
// units). A scale of 0 means no scaling.
func Normalize(bars []Bar, scale float64) []Bar {
	if scale == 0 {
		scale = 1
	}
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if b.Close == 0 {
			continue
		}
		if b.Open == 0 {
			b.Open = b.Close
		}
		if b.High == 0 {
			b.High = b.Close
		}
		if b.Low == 0 {
			b.Low = b.Close
		}
		if scale != 1 {
			b.Open *= scale
			b.High *= scale
			b.Low *= scale
			b.Close *= scale
		}
		out = append(out, b)
	}
	return out
}
