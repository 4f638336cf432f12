package snapshot

import "github.com/2dav/qshbook/internal/pool"

// MidPrices computes the best-bid/best-ask midpoint (Pb0+Pa0)/2 for each
// row in a batch collected from a Producer run. It is a convenience for
// building a price series over many snapshots, not part of the per-batch
// decode path; rows shorter than depth 1 contribute 0.
func MidPrices(rows []Row) []float64 {
	scratch, release := pool.GetFloat64Slice(len(rows))
	defer release()

	for i, row := range rows {
		if len(row) < 4 {
			scratch[i] = 0
			continue
		}

		bidPrice, askPrice := float64(row[1]), float64(row[3])
		scratch[i] = (bidPrice + askPrice) / 2
	}

	out := make([]float64, len(scratch))
	copy(out, scratch)

	return out
}
