package detector

import (
	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// FVGDetector finds 3-candle fair value gaps: the extremes of the first
// and third candle leave an unfilled imbalance and the third candle closes
// in the gap direction.
type FVGDetector struct {
	candles *store.CandleStore
	levels  *store.LevelRepository
	bus     *events.Bus
}

func NewFVGDetector(candles *store.CandleStore, levels *store.LevelRepository, bus *events.Bus) *FVGDetector {
	return &FVGDetector{
		candles: candles,
		levels:  levels,
		bus:     bus,
	}
}

func (d *FVGDetector) Name() string { return "fvg" }

func (d *FVGDetector) OnBarClosed(index int) {
	c0, ok := d.candles.At(index - 2)
	if !ok {
		return
	}

	c2, ok := d.candles.At(index)
	if !ok {
		return
	}

	var lv *types.Level

	switch {
	case c0.High < c2.Low && c2.Direction() == types.DirectionUp:
		lv = types.NewLevel(types.LevelFVG, types.DirectionUp, c0.High, c2.Low)
		lv.AnchorIndex = c2.Index
		lv.HighIndex = c2.Index
		lv.LowIndex = c0.Index
		lv.LowTime = c0.StartTime
		lv.HighTime = c2.StartTime

	case c0.Low > c2.High && c2.Direction() == types.DirectionDown:
		lv = types.NewLevel(types.LevelFVG, types.DirectionDown, c2.High, c0.Low)
		lv.AnchorIndex = c2.Index
		lv.HighIndex = c0.Index
		lv.LowIndex = c2.Index
		lv.LowTime = c2.StartTime
		lv.HighTime = c0.StartTime

	default:
		return
	}

	lv.AttachQuadrants()

	publishLevel(d.bus, d.levels, lv, func(o *types.Level) bool {
		return o.Type == types.LevelFVG &&
			o.Direction == lv.Direction &&
			o.LowIndex == lv.LowIndex &&
			o.HighIndex == lv.HighIndex
	})
}
