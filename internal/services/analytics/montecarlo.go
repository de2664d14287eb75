package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"MarketBoard/internal/domain/models"
	"MarketBoard/pkg/util"
)

// Simulator draws geometric Brownian price paths from a historical series.
// Drift and volatility come from the daily log returns: the drift is the
// mean return minus half the variance, the volatility is the sample
// standard deviation.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator seeds from the clock. Use NewSimulatorWithSource in tests.
func NewSimulator() *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func NewSimulatorWithSource(src rand.Source) *Simulator {
	return &Simulator{rng: rand.New(src)}
}

// Simulate compounds sims independent paths over horizon business days
// starting from the last close of s. Series too short to estimate
// returns yield an absent result, not an error.
func (m *Simulator) Simulate(s models.Series, sims, horizon int) (*models.SimulatedPaths, error) {
	if sims <= 0 || horizon <= 0 {
		return nil, fmt.Errorf("sims and horizon must be positive")
	}
	if len(s.Bars) < 2 || s.LastClose() <= 0 {
		return nil, nil
	}

	returns := LogReturns(s.Closes())
	if len(returns) < 2 {
		return nil, nil
	}

	variance := Variance(returns)
	drift := Mean(returns) - 0.5*variance
	vol := math.Sqrt(variance)
	start := s.LastClose()
	last := s.Bars[len(s.Bars)-1].Time

	paths := make([][]float64, sims)
	for i := 0; i < sims; i++ {
		path := make([]float64, horizon)
		price := start
		for d := 0; d < horizon; d++ {
			price *= math.Exp(drift + vol*m.rng.NormFloat64())
			path[d] = price
		}
		paths[i] = path
	}

	return &models.SimulatedPaths{
		Symbol:      s.Symbol,
		StartPrice:  start,
		Drift:       drift,
		Volatility:  vol,
		Timestamps:  util.BusinessDays(last, horizon),
		Paths:       paths,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
