// Package score implements the scoring and ranking engine: it combines point
// weights, category importance, and polarity into a bounded 0–100 score per
// item and assigns competition-style ranks. Everything in this package is
// pure and synchronous; inputs are never mutated, so calls are safe to run
// concurrently across items.
package score

// FinalWeight combines a point's own weight (1–10) with its category's
// importance (0–10) into a single bounded contribution value in [0,10].
//
// Importance acts as a multiplicative gate: 0 zeroes out every point in the
// category regardless of the point's own weight, 10 passes the weight through
// unchanged, and values in between scale linearly. Callers clamp inputs at
// their write boundaries; the output is clamped here as well.
func FinalWeight(pointWeight, categoryImportance int) float64 {
	w := float64(pointWeight) * (float64(categoryImportance) / 10)
	if w < 0 {
		return 0
	}
	if w > 10 {
		return 10
	}
	return w
}
