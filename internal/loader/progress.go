package loader

import "math"

// Percent returns loaded/total as a percentage truncated to two decimals.
// An unknown or zero total yields 0.
func Percent(loaded, total int64) float64 {
	if total <= 0 || loaded <= 0 {
		return 0
	}
	return math.Trunc(float64(loaded)/float64(total)*100*100) / 100
}
