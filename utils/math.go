package utils

import "math"

// GetSign returns the sign of the float: -1, 0 or 1.
func GetSign(x float64) float64 {
	if x == 0 {
		return 0
	}
	if math.Signbit(x) {
		return -1.0
	}
	return 1.0
}

// SignedPow raises |v| to exp and restores the sign of v, so that even exponents
// still keep negative inputs negative.
func SignedPow(v float64, exp int) float64 {
	if v == 0 {
		return 0
	}
	return GetSign(v) * math.Pow(math.Abs(v), float64(exp))
}

