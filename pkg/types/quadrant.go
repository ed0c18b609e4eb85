package types

// Quadrant is one of the 0/25/50/75/100% retracement prices of a level's
// range. Each quadrant is swept independently; the level stays active while
// at least one quadrant is untouched.
type Quadrant struct {
	Ratio      float64 `json:"ratio"`
	Price      float64 `json:"price"`
	Swept      bool    `json:"swept"`
	SweptIndex int     `json:"sweptIndex"`
}

var quadrantRatios = []float64{0, 0.25, 0.5, 0.75, 1}

// BuildQuadrants constructs the standard quadrant set for a price range.
// A degenerate range (low == high) still yields distinct ratio entries all
// pinned to the same price.
func BuildQuadrants(low, high float64) []Quadrant {
	quadrants := make([]Quadrant, 0, len(quadrantRatios))
	for _, r := range quadrantRatios {
		quadrants = append(quadrants, Quadrant{
			Ratio:      r,
			Price:      low + (high-low)*r,
			SweptIndex: -1,
		})
	}

	return quadrants
}

// SweepBy marks the quadrant swept by the candle at the given index if the
// candle's range covers the quadrant price.
func (q *Quadrant) SweepBy(c Candle) bool {
	if q.Swept {
		return false
	}

	if c.Low <= q.Price && q.Price <= c.High {
		q.Swept = true
		q.SweptIndex = c.Index
		return true
	}

	return false
}
