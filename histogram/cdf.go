package histogram

// CDF is the normalized cumulative distribution of a Histogram: cdf[i] is the
// fraction of pixels with intensity <= i.
type CDF [Levels]float32

// BuildCDF accumulates h and normalizes by its total. A histogram with no
// counts has no distribution and yields ErrDegenerateInput.
//
// The running sum is kept in integers; cdf[255] is exactly 1.
func BuildCDF(h Histogram) (CDF, error) {
	var cumulative [Levels]uint64

	var running uint64
	for i, c := range h {
		running += uint64(c)
		cumulative[i] = running
	}

	if running == 0 {
		return CDF{}, ErrDegenerateInput
	}

	var cdf CDF
	total := float64(running)
	for i, c := range cumulative {
		cdf[i] = float32(float64(c) / total)
	}
	return cdf, nil
}
