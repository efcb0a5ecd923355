package indicator

// RSI calculates the Relative Strength Index over simple rolling
// averages of gains and losses.
// Returns slice of length: len(prices) - period
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) <= period {
		return []float64{}
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	avgGains := SMA(gains, period)
	avgLosses := SMA(losses, period)

	result := make([]float64, 0, len(avgGains))
	for i := range avgGains {
		if avgLosses[i] == 0 {
			result = append(result, 100)
			continue
		}
		rs := avgGains[i] / avgLosses[i]
		result = append(result, 100-100/(1+rs))
	}

	return result
}
