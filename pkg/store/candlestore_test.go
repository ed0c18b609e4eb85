package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantbay/smc/pkg/types"
)

func TestCandleStoreAssignsIndexes(t *testing.T) {
	s := NewCandleStore()

	for i := 0; i < 5; i++ {
		c := s.Add(types.Candle{Close: float64(i)})
		assert.Equal(t, i, c.Index)
	}

	assert.Equal(t, 5, s.Len())

	c, ok := s.At(3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, c.Close)

	_, ok = s.At(5)
	assert.False(t, ok)

	_, ok = s.At(-1)
	assert.False(t, ok)
}

func TestCandleStoreLast(t *testing.T) {
	s := NewCandleStore()
	for i := 0; i < 3; i++ {
		s.Add(types.Candle{Close: float64(i)})
	}

	c, ok := s.Last(0)
	assert.True(t, ok)
	assert.Equal(t, 2.0, c.Close)

	c, ok = s.Last(2)
	assert.True(t, ok)
	assert.Equal(t, 0.0, c.Close)

	_, ok = s.Last(3)
	assert.False(t, ok)
}

func TestCandleStoreShrinkKeepsIndexes(t *testing.T) {
	s := NewCandleStore()

	total := candleShrinkThreshold + 100
	for i := 0; i < total; i++ {
		s.Add(types.Candle{Close: float64(i)})
	}

	assert.Equal(t, total, s.Len())

	// the head was truncated but surviving indexes still resolve
	_, ok := s.At(0)
	assert.False(t, ok)

	c, ok := s.At(total - 1)
	assert.True(t, ok)
	assert.Equal(t, total-1, c.Index)
	assert.Equal(t, float64(total-1), c.Close)

	c, ok = s.At(candleShrinkSize)
	assert.True(t, ok)
	assert.Equal(t, candleShrinkSize, c.Index)
}
