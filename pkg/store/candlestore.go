package store

import (
	"github.com/quantbay/smc/pkg/types"
)

const CandleCapacityLimit = 5_000
const candleShrinkThreshold = CandleCapacityLimit * 4 / 5
const candleShrinkSize = CandleCapacityLimit / 5

// CandleStore holds the ordered bar history of a single session. Indexes
// are assigned by the store and strictly increase; access by a truncated or
// not-yet-seen index returns a miss, never panics.
//
// Not safe for concurrent use.
type CandleStore struct {
	candles []types.Candle
	offset  int
}

func NewCandleStore() *CandleStore {
	return &CandleStore{
		candles: make([]types.Candle, 0, CandleCapacityLimit),
	}
}

// Add assigns the next sequence index to the candle, appends it and
// returns the stored value.
func (s *CandleStore) Add(c types.Candle) types.Candle {
	c.Index = s.offset + len(s.candles)
	s.candles = append(s.candles, c)

	if len(s.candles) > candleShrinkThreshold {
		s.candles = s.candles[candleShrinkSize:]
		s.offset += candleShrinkSize
	}

	return c
}

// Len returns the total number of candles seen, including truncated ones.
func (s *CandleStore) Len() int {
	return s.offset + len(s.candles)
}

// At returns the candle at the given sequence index.
func (s *CandleStore) At(i int) (types.Candle, bool) {
	j := i - s.offset
	if j < 0 || j >= len(s.candles) {
		return types.Candle{}, false
	}

	return s.candles[j], true
}

// Last returns the i-th candle counting back from the latest one, so
// Last(0) is the most recent closed bar.
func (s *CandleStore) Last(i int) (types.Candle, bool) {
	return s.At(s.Len() - 1 - i)
}
