package stats

import (
	"math"
	"sort"
)

// PearsonCorrelation calculates the Pearson correlation coefficient between two variables
// Returns value between -1 and 1
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var sumXY, sumX2, sumY2 float64
	for i := 0; i < len(x); i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sumXY += dx * dy
		sumX2 += dx * dx
		sumY2 += dy * dy
	}

	if sumX2 == 0 || sumY2 == 0 {
		return 0
	}

	return sumXY / math.Sqrt(sumX2*sumY2)
}

// SpearmanCorrelation calculates the Spearman rank correlation coefficient
// Returns value between -1 and 1
func SpearmanCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	// Pearson correlation on the ranks
	return PearsonCorrelation(rank(x), rank(y))
}

// RSquared calculates the coefficient of determination (R²)
// Measures the proportion of variance in y explained by x
func RSquared(x, y []float64) float64 {
	r := PearsonCorrelation(x, y)
	return r * r
}

// rank converts values to ranks (average rank for ties)
func rank(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	type pair struct {
		index int
		value float64
	}
	pairs := make([]pair, n)
	for i, v := range values {
		pairs[i] = pair{i, v}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		// Average rank for ties
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j
	}

	return ranks
}
