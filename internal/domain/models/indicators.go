package models

import (
	"encoding/json"
	"math"
	"time"
)

// IndicatorPoint is one dated value of a derived series.
type IndicatorPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// BandPoint carries the rolling mean, deviation and the resulting
// upper/lower band for one bar.
type BandPoint struct {
	Time  time.Time `json:"time"`
	Mean  float64   `json:"mean"`
	Stdev float64   `json:"stdev"`
	Upper float64   `json:"upper"`
	Lower float64   `json:"lower"`
}

// IndicatorOverlay holds derived series aligned to the bar timestamp axis.
// Each slice starts at the first bar with a full trailing window; earlier
// bars have no point at all.
type IndicatorOverlay struct {
	Window     int              `json:"window"`
	RSIPeriod  int              `json:"rsi_period"`
	Bands      []BandPoint      `json:"bands,omitempty"`
	Oscillator []IndicatorPoint `json:"oscillator,omitempty"`
}

// CorrelationMatrix is the pairwise correlation of daily log returns over
// the configured symbol set. Matrix[i][j] corresponds to Symbols[i] vs
// Symbols[j]; the diagonal is 1.
type CorrelationMatrix struct {
	Symbols     []string    `json:"symbols"`
	Matrix      [][]float64 `json:"matrix"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// MarshalJSON encodes NaN cells as null. Cells are NaN when two symbols
// share too few trading dates to correlate.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	matrix := make([][]*float64, len(m.Matrix))
	for i, row := range m.Matrix {
		matrix[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				matrix[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Symbols     []string     `json:"symbols"`
		Matrix      [][]*float64 `json:"matrix"`
		GeneratedAt time.Time    `json:"generated_at"`
	}{m.Symbols, matrix, m.GeneratedAt})
}
