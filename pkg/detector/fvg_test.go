package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

func newFVGEnv() (*store.CandleStore, *store.LevelRepository, *events.Bus, *FVGDetector) {
	cs := store.NewCandleStore()
	levels := store.NewLevelRepository()
	bus := events.NewBus()
	d := NewFVGDetector(cs, levels, bus)

	return cs, levels, bus, d
}

func TestFVGDetectorBullish(t *testing.T) {
	cs, levels, bus, d := newFVGEnv()
	detected := record(bus, events.TopicLevelDetected)

	feed(cs, []Detector{d},
		candle(11, 12, 10, 10.5),
		candle(10.5, 11, 9, 10),
		candle(14, 16, 13, 15),
	)

	require.Len(t, levels.ByType(types.LevelFVG), 1)
	lv := levels.ByType(types.LevelFVG)[0]

	assert.Equal(t, types.DirectionUp, lv.Direction)
	assert.Equal(t, 12.0, lv.Low)
	assert.Equal(t, 13.0, lv.High)
	assert.Equal(t, 2, lv.AnchorIndex)
	assert.Equal(t, 2, lv.HighIndex)
	assert.Equal(t, 0, lv.LowIndex)
	assert.Len(t, lv.Quadrants, 5)

	require.Len(t, *detected, 1)
	assert.Equal(t, lv, (*detected)[0].Level)

	// replaying the bar does not mint a second gap
	d.OnBarClosed(2)
	assert.Len(t, levels.ByType(types.LevelFVG), 1)
}

func TestFVGDetectorBearish(t *testing.T) {
	cs, levels, _, d := newFVGEnv()

	feed(cs, []Detector{d},
		candle(15, 16, 14, 14.5),
		candle(14.5, 15, 13, 13.5),
		candle(12, 13.5, 10, 10.5),
	)

	require.Len(t, levels.ByType(types.LevelFVG), 1)
	lv := levels.ByType(types.LevelFVG)[0]

	assert.Equal(t, types.DirectionDown, lv.Direction)
	assert.Equal(t, 13.5, lv.Low)
	assert.Equal(t, 14.0, lv.High)
	assert.Equal(t, 2, lv.AnchorIndex)
	assert.Equal(t, 0, lv.HighIndex)
	assert.Equal(t, 2, lv.LowIndex)
}

func TestFVGDetectorNoGap(t *testing.T) {
	cs, levels, _, d := newFVGEnv()

	feed(cs, []Detector{d},
		candle(10, 11, 9, 10.5),
		candle(10.5, 11.5, 10, 11),
		candle(11, 12, 10.5, 11.5),
	)

	assert.Empty(t, levels.ByType(types.LevelFVG))
}

func TestFVGDetectorGapNeedsClosingDirection(t *testing.T) {
	cs, levels, _, d := newFVGEnv()

	// price gap is there but the third candle closes down
	feed(cs, []Detector{d},
		candle(11, 12, 10, 10.5),
		candle(10.5, 11, 9, 10),
		candle(16, 16.5, 13, 14),
	)

	assert.Empty(t, levels.ByType(types.LevelFVG))
}
