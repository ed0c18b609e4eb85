package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

func newSwingEnv() (*store.CandleStore, *store.SwingPointRepository, *events.Bus, *SwingDetector) {
	cs := store.NewCandleStore()
	swings := store.NewSwingPointRepository()
	bus := events.NewBus()
	d := NewSwingDetector(cs, swings, bus, 2)

	return cs, swings, bus, d
}

func TestSwingDetectorConfirmsHigh(t *testing.T) {
	cs, swings, bus, d := newSwingEnv()
	detected := record(bus, events.TopicSwingDetected)

	feed(cs, []Detector{d},
		candle(9, 10, 5, 9.5),
		candle(9.5, 11, 6, 10),
		candle(10, 15, 8, 14),
		candle(14, 11, 6, 10),
		candle(10, 10, 5, 9),
	)

	require.Len(t, swings.All(), 1)
	p := swings.All()[0]

	assert.Equal(t, types.DirectionUp, p.Direction)
	assert.Equal(t, 15.0, p.Price)
	assert.Equal(t, 2, p.Index)
	assert.False(t, p.Swept)

	require.Len(t, *detected, 1)
	assert.Equal(t, 4, (*detected)[0].Index)
	assert.Equal(t, p, (*detected)[0].Point)
}

func TestSwingDetectorTieNeverConfirms(t *testing.T) {
	cs, swings, _, d := newSwingEnv()

	// two equal highs inside one window: strict comparison confirms neither
	feed(cs, []Detector{d},
		candle(9, 10, 5, 9.5),
		candle(9.5, 11, 6, 10),
		candle(10, 15, 8, 14),
		candle(14, 15, 8, 14.5),
		candle(14.5, 10, 5, 9),
		candle(9, 10, 5, 9.5),
	)

	for _, p := range swings.All() {
		assert.NotEqual(t, types.DirectionUp, p.Direction)
	}
}

func TestSwingDetectorRemovalInsideOverlap(t *testing.T) {
	cs, swings, bus, d := newSwingEnv()
	removed := record(bus, events.TopicSwingRemoved)
	swept := record(bus, events.TopicSwingSwept)

	feed(cs, []Detector{d},
		candle(9, 10, 5, 9.5),
		candle(9.5, 11, 6, 10),
		candle(10, 15, 8, 14),
		candle(14, 11, 6, 10),
		candle(10, 10, 5, 9),
		// breach 2 bars after confirmation, still inside the overlap window
		candle(9, 16, 8.5, 15.5),
	)

	for _, p := range swings.All() {
		assert.NotEqual(t, types.DirectionUp, p.Direction)
	}

	require.Len(t, *removed, 1)
	assert.Equal(t, 15.0, (*removed)[0].Point.Price)
	assert.Equal(t, 5, (*removed)[0].Index)
	assert.Empty(t, *swept)
}

func TestSwingDetectorSweepBeyondOverlap(t *testing.T) {
	cs, swings, bus, d := newSwingEnv()
	swept := record(bus, events.TopicSwingSwept)

	feed(cs, []Detector{d},
		candle(9, 10, 5, 9.5),
		candle(9.5, 11, 6, 10),
		candle(10, 15, 8, 14),
		candle(14, 11, 6, 10),
		candle(10, 10, 5, 9),
		candle(9, 12, 8.5, 11),
		candle(11, 12, 9, 10),
		// breach 5 bars after the point, outside the overlap window
		candle(10, 16, 9.5, 15.5),
	)

	high, ok := swings.MostRecent(types.DirectionUp)
	require.True(t, ok)
	assert.Equal(t, 15.0, high.Price)
	assert.True(t, high.Swept)
	assert.Equal(t, 7, high.SweptIndex)

	require.Len(t, *swept, 1)
	assert.Equal(t, high, (*swept)[0].Point)

	// swept points stay in the repository
	assert.Contains(t, swings.All(), high)
}
