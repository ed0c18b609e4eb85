package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSwingPointPrice(t *testing.T) {
	c := Candle{Index: 7, Open: 100, High: 110, Low: 95, Close: 104}

	high := NewSwingPoint(c, DirectionUp)
	assert.Equal(t, 110.0, high.Price)
	assert.Equal(t, 7, high.Index)
	assert.Equal(t, -1, high.SweptIndex)

	low := NewSwingPoint(c, DirectionDown)
	assert.Equal(t, 95.0, low.Price)
}

func TestSwingPointSweepByFirstWins(t *testing.T) {
	p := &SwingPoint{Price: 100, Index: 3, Direction: DirectionUp, SweptIndex: -1}

	p.SweepBy(10)
	assert.True(t, p.Swept)
	assert.Equal(t, 10, p.SweptIndex)

	p.SweepBy(12)
	assert.Equal(t, 10, p.SweptIndex)
}

func TestSwingPointBreachedBy(t *testing.T) {
	high := &SwingPoint{Price: 100, Direction: DirectionUp}
	assert.True(t, high.BreachedBy(Candle{High: 100.5, Low: 99}))
	assert.False(t, high.BreachedBy(Candle{High: 100, Low: 99}))

	low := &SwingPoint{Price: 100, Direction: DirectionDown}
	assert.True(t, low.BreachedBy(Candle{High: 101, Low: 99.5}))
	assert.False(t, low.BreachedBy(Candle{High: 101, Low: 100}))
}
