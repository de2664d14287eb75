package analytics

import (
	"math"
	"time"

	"MarketBoard/internal/domain/models"
)

// Correlate builds the pairwise Pearson correlation of daily log returns
// for the given series, in input order. Each pair is aligned on the
// intersection of their bar dates; pairs with fewer than two common
// returns, and symbols with no data at all, report NaN off the diagonal.
func Correlate(series []models.Series) models.CorrelationMatrix {
	n := len(series)
	symbols := make([]string, n)
	returns := make([]map[string]float64, n)
	for i, s := range series {
		symbols[i] = s.Symbol
		returns[i] = dailyReturnsByDate(s)
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(returns[i], returns[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	return models.CorrelationMatrix{
		Symbols:     symbols,
		Matrix:      matrix,
		GeneratedAt: time.Now().UTC(),
	}
}

// dailyReturnsByDate keys each log return by the date of its later bar.
func dailyReturnsByDate(s models.Series) map[string]float64 {
	out := make(map[string]float64, len(s.Bars))
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Close, s.Bars[i].Close
		if prev <= 0 || cur <= 0 {
			continue
		}
		out[s.Bars[i].Time.Format("2006-01-02")] = math.Log(cur / prev)
	}
	return out
}

func pearson(a, b map[string]float64) float64 {
	var xs, ys []float64
	for date, x := range a {
		if y, ok := b[date]; ok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	mx, my := Mean(xs), Mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}
