package scan

import "math"

// idf computes the Laplace-smoothed inverse document frequency:
// idf(t) = max(1.0, ln((N+1)/(df+1)) + 1).
func idf(totalDocs, df int) float64 {
	v := math.Log(float64(totalDocs+1)/float64(df+1)) + 1
	if v < 1.0 {
		return 1.0
	}
	return v
}
