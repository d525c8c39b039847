package leveling

import "math"

// MaxCompletionRate caps over-achievement so downstream arithmetic stays bounded.
const MaxCompletionRate = 500.0

// CompletionRate returns actual/target as a percentage in [0, MaxCompletionRate].
// A non-positive target or negative actual yields 0.
func CompletionRate(actual, target float64) float64 {
	if math.IsNaN(actual) || math.IsNaN(target) {
		return 0
	}
	if target <= 0 || actual < 0 {
		return 0
	}
	rate := actual / target * 100
	if rate > MaxCompletionRate {
		return MaxCompletionRate
	}
	return rate
}
