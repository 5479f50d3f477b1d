package analyzer

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// populationVariance divides by n, not n-1.
func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

// consistency is max(0, 1 - variance). Zero or one score is perfectly
// consistent.
func consistency(scores []float64) float64 {
	if len(scores) <= 1 {
		return 1.0
	}
	c := 1 - populationVariance(scores)
	if c < 0 {
		return 0
	}
	return c
}

// halves returns the first n/2 and the last n/2 elements. For odd n the
// middle element belongs to neither half.
func halves(xs []float64) (first, second []float64) {
	half := len(xs) / 2
	return xs[:half], xs[len(xs)-half:]
}

// relativeChange is (second-first)/first. A zero baseline yields +1.0 when
// the newer mean is positive and 0 otherwise.
func relativeChange(first, second float64) float64 {
	if first == 0 {
		if second > 0 {
			return 1.0
		}
		return 0
	}
	return (second - first) / first
}

// lastN returns at most the final n elements of xs.
func lastN[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
