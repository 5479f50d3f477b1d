package analyzer

// confidenceSteps maps an exclusive upper bound on the data-point count to
// the confidence assigned below it.
var confidenceSteps = []struct {
	below int
	value float64
}{
	{5, 0.3},
	{10, 0.5},
	{20, 0.7},
	{50, 0.85},
}

// maxConfidence applies from 50 data points up.
const maxConfidence = 0.95

// Confidence maps the number of records behind an analysis (activities plus
// ratings after filtering) to a confidence in [0.3, 0.95].
func Confidence(dataPoints int) float64 {
	for _, step := range confidenceSteps {
		if dataPoints < step.below {
			return step.value
		}
	}
	return maxConfidence
}
