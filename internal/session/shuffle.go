package session

import (
	"math/rand/v2"

	"github.com/hyunsol/croquis/internal/store"
)

// weight biases the draw toward harder images: difficulty d in [1,5]
// contributes d² (1→1, 2→4, 3→9, 4→16, 5→25).
func weight(img store.Image) float64 {
	d := img.Difficulty
	if d < 1 {
		d = 1
	}
	return float64(d * d)
}

// WeightedShuffle orders images by repeated weighted sampling without
// replacement: each draw picks an image with probability proportional to
// its remaining weight, so higher-difficulty images tend to land earlier
// and, over many sessions, appear more densely than a uniform shuffle
// would place them. Deterministic for a given rng state.
func WeightedShuffle(images []store.Image, rng *rand.Rand) []store.Image {
	if len(images) == 0 {
		return nil
	}

	remaining := append([]store.Image(nil), images...)
	weights := make([]float64, len(remaining))
	total := 0.0
	for i, img := range remaining {
		weights[i] = weight(img)
		total += weights[i]
	}
	if total == 0 {
		// Unreachable with clamped difficulties, but mirror the documented
		// fallback: keep the input order.
		return remaining
	}

	out := make([]store.Image, 0, len(remaining))
	for len(remaining) > 0 {
		cumsum := 0.0
		draw := rng.Float64() * total
		pick := len(remaining) - 1
		for i, w := range weights {
			cumsum += w
			if draw <= cumsum {
				pick = i
				break
			}
		}

		out = append(out, remaining[pick])
		total -= weights[pick]
		remaining = append(remaining[:pick], remaining[pick+1:]...)
		weights = append(weights[:pick], weights[pick+1:]...)
	}
	return out
}
