package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

func swingAt(dir types.Direction, price float64, index int) *types.SwingPoint {
	return &types.SwingPoint{
		Price:      price,
		Index:      index,
		Direction:  dir,
		SweptIndex: -1,
	}
}

func publishSwing(bus *events.Bus, p *types.SwingPoint) {
	bus.Publish(events.Event{
		Topic:     events.TopicSwingDetected,
		Index:     p.Index,
		Direction: p.Direction,
		Point:     p,
	})
}

func TestStructureAnalyzerTransitions(t *testing.T) {
	cs := store.NewCandleStore()
	bus := events.NewBus()
	d := NewStructureAnalyzer(cs, bus, false)

	bos := record(bus, events.TopicBreakOfStructure)
	choch := record(bus, events.TopicChangeOfCharacter)
	inducements := record(bus, events.TopicInducementUpdated)

	h1 := swingAt(types.DirectionUp, 100, 2)
	l1 := swingAt(types.DirectionDown, 90, 4)
	h2 := swingAt(types.DirectionUp, 110, 6)
	l2 := swingAt(types.DirectionDown, 95, 8)
	l3 := swingAt(types.DirectionDown, 85, 10)
	h3 := swingAt(types.DirectionUp, 105, 12)
	l4 := swingAt(types.DirectionDown, 80, 14)

	// seed: no signal yet
	publishSwing(bus, h1)
	publishSwing(bus, l1)
	assert.Equal(t, types.DirectionNone, d.Bias())
	assert.Empty(t, *bos)

	// higher high through the seeded extreme: BOS establishes the bias
	publishSwing(bus, h2)
	assert.Equal(t, types.DirectionUp, d.Bias())
	assert.Equal(t, types.MarkHigherHigh, h2.Mark)
	require.Len(t, *bos, 1)
	assert.Equal(t, h2, (*bos)[0].Point)

	// a higher low inside the uptrend is an inducement
	publishSwing(bus, l2)
	assert.Equal(t, types.DirectionUp, d.Bias())
	assert.Equal(t, types.MarkHigherLow, l2.Mark)
	require.Len(t, *inducements, 1)
	assert.Equal(t, l2, d.InducementLow())

	// break below the choch anchor flips the bias
	publishSwing(bus, l3)
	assert.Equal(t, types.DirectionDown, d.Bias())
	assert.Equal(t, types.MarkLowerLow, l3.Mark)
	require.Len(t, *choch, 1)
	assert.Equal(t, l3, (*choch)[0].Point)
	assert.Nil(t, d.InducementLow())

	// duplicate index is a no-op
	publishSwing(bus, l3)
	assert.Len(t, *choch, 1)
	assert.Equal(t, types.DirectionDown, d.Bias())

	// lower high inside the downtrend is an inducement
	publishSwing(bus, h3)
	assert.Equal(t, types.MarkLowerHigh, h3.Mark)
	assert.Equal(t, h3, d.InducementHigh())

	// lower low extends the downtrend without changing bias
	publishSwing(bus, l4)
	assert.Equal(t, types.DirectionDown, d.Bias())
	assert.Equal(t, types.MarkLowerLow, l4.Mark)
	require.Len(t, *bos, 2)
	assert.Equal(t, l4, (*bos)[1].Point)

	assert.Equal(t, []*types.SwingPoint{h2, l3, l4}, d.ExternalLiquidity())
}

func TestStructureAnalyzerProjectionOnBOS(t *testing.T) {
	cs := store.NewCandleStore()
	bus := events.NewBus()
	d := NewStructureAnalyzer(cs, bus, true)

	bos := record(bus, events.TopicBreakOfStructure)

	publishSwing(bus, swingAt(types.DirectionDown, 90, 2))
	publishSwing(bus, swingAt(types.DirectionUp, 100, 4))
	publishSwing(bus, swingAt(types.DirectionUp, 110, 8))

	require.Len(t, *bos, 1)
	proj := (*bos)[0].Projection
	require.NotNil(t, proj)

	assert.Equal(t, types.DirectionUp, proj.Direction)
	assert.Equal(t, 90.0, proj.AnchorLow)
	assert.Equal(t, 110.0, proj.AnchorHigh)
	assert.Equal(t, 150.0, proj.Minus2)
	assert.Equal(t, 190.0, proj.Minus4)

	require.Len(t, d.Projections(), 1)

	// a later break replaces the projection instead of stacking it
	publishSwing(bus, swingAt(types.DirectionUp, 120, 12))
	require.Len(t, d.Projections(), 1)
	assert.Equal(t, 120.0, d.Projections()[0].AnchorHigh)
}

func TestStructureAnalyzerSweptPointLeavesLiquidity(t *testing.T) {
	cs := store.NewCandleStore()
	bus := events.NewBus()
	d := NewStructureAnalyzer(cs, bus, false)

	h1 := swingAt(types.DirectionUp, 100, 2)
	l1 := swingAt(types.DirectionDown, 90, 4)
	h2 := swingAt(types.DirectionUp, 110, 6)

	publishSwing(bus, h1)
	publishSwing(bus, l1)
	publishSwing(bus, h2)
	assert.Equal(t, []*types.SwingPoint{h2}, d.ExternalLiquidity())

	bus.Publish(events.Event{
		Topic:     events.TopicSwingSwept,
		Index:     9,
		Direction: h2.Direction,
		Point:     h2,
	})
	assert.Empty(t, d.ExternalLiquidity())
}

func TestStructureAnalyzerRemovedPointPurged(t *testing.T) {
	cs := store.NewCandleStore()
	bus := events.NewBus()
	d := NewStructureAnalyzer(cs, bus, true)

	l1 := swingAt(types.DirectionDown, 90, 2)
	h1 := swingAt(types.DirectionUp, 100, 4)
	h2 := swingAt(types.DirectionUp, 110, 8)

	publishSwing(bus, l1)
	publishSwing(bus, h1)
	publishSwing(bus, h2)

	require.Len(t, d.Projections(), 1)
	assert.Equal(t, h2, d.BOSHigh())

	bus.Publish(events.Event{
		Topic:     events.TopicSwingRemoved,
		Index:     9,
		Direction: h2.Direction,
		Point:     h2,
	})

	assert.Nil(t, d.BOSHigh())
	assert.Empty(t, d.ExternalLiquidity())

	// the projection hung off the removed point and goes with it
	assert.Empty(t, d.Projections())
}
