package models

import "time"

// SimulatedPaths is a Monte Carlo fan of future price trajectories. Each
// path compounds exp(drift + volatility*Z) shocks from the last observed
// close. Timestamps are business-day spaced and strictly after the last
// historical bar.
type SimulatedPaths struct {
	Symbol      string      `json:"symbol"`
	StartPrice  float64     `json:"start_price"`
	Drift       float64     `json:"drift"`
	Volatility  float64     `json:"volatility"`
	Timestamps  []time.Time `json:"timestamps"`
	Paths       [][]float64 `json:"paths"`
	GeneratedAt time.Time   `json:"generated_at"`
}
