// Package sparkline generates compact Unicode-block trend
// visualizations from a numeric series.
package sparkline

// blocks are the 9 Unicode block characters, index 0 = space (lowest)
// through index 8 = full block (highest).
var blocks = []rune(" ▁▂▃▄▅▆▇█")

// Render generates a Unicode sparkline from values, compressed to at
// most width characters by bucket-averaging. Empty input yields "".
func Render(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		return string(blocks[4])
	}

	if len(values) > width {
		values = compress(values, width)
	}

	mn, mx := values[0], values[0]
	for _, v := range values {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	rng := mx - mn

	if rng == 0 {
		out := make([]rune, len(values))
		for i := range out {
			out[i] = blocks[4]
		}
		return string(out)
	}

	out := make([]rune, len(values))
	for i, v := range values {
		idx := int((v - mn) / rng * 8)
		if idx < 0 {
			idx = 0
		}
		if idx > 8 {
			idx = 8
		}
		out[i] = blocks[idx]
	}
	return string(out)
}

// compress averages values into width buckets.
func compress(values []float64, width int) []float64 {
	bucketSize := float64(len(values)) / float64(width)
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
