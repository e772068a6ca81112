package vector

import (
	"math"
	"sort"
)

// CosineDistance returns 1 minus the cosine similarity of a and b. A zero
// vector on either side yields a distance of 1.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, dimensionMismatch(len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 1, nil
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// clamp float error so distances stay within [0, 2]
	sim = math.Max(-1, math.Min(1, sim))
	return 1 - sim, nil
}

// SortHits orders hits by non-decreasing distance, keeping the relative order
// of equal distances.
func SortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
}

// CopyMetadata returns a shallow copy of m that is never nil.
func CopyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
