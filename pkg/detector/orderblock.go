package detector

import (
	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// OrderBlockDetector marks the last opposing-direction candle ahead of an
// impulsive move. The impulse qualifier is a displacement close beyond the
// prior candle's extreme with a dominant body.
type OrderBlockDetector struct {
	candles *store.CandleStore
	levels  *store.LevelRepository
	bus     *events.Bus

	lookback  int
	bodyRatio float64
}

func NewOrderBlockDetector(
	candles *store.CandleStore, levels *store.LevelRepository, bus *events.Bus,
	lookback int, bodyRatio float64,
) *OrderBlockDetector {
	return &OrderBlockDetector{
		candles:   candles,
		levels:    levels,
		bus:       bus,
		lookback:  lookback,
		bodyRatio: bodyRatio,
	}
}

func (d *OrderBlockDetector) Name() string { return "order_block" }

func (d *OrderBlockDetector) OnBarClosed(index int) {
	c, ok := d.candles.At(index)
	if !ok {
		return
	}

	prev, ok := d.candles.At(index - 1)
	if !ok {
		return
	}

	dir := c.Direction()
	if dir == types.DirectionNone {
		return
	}

	if c.Range() <= 0 || c.Body() < d.bodyRatio*c.Range() {
		return
	}

	displaced := (dir == types.DirectionUp && c.Close > prev.High) ||
		(dir == types.DirectionDown && c.Close < prev.Low)
	if !displaced {
		return
	}

	anchor, ok := d.findOpposing(index, dir)
	if !ok {
		return
	}

	lv := types.NewLevel(types.LevelOrderBlock, dir, anchor.Low, anchor.High)
	lv.AnchorIndex = anchor.Index
	lv.HighIndex = anchor.Index
	lv.LowIndex = anchor.Index
	lv.LowTime = anchor.StartTime
	lv.HighTime = anchor.StartTime
	lv.AttachQuadrants()

	publishLevel(d.bus, d.levels, lv, func(o *types.Level) bool {
		return o.Type == types.LevelOrderBlock &&
			o.Direction == lv.Direction &&
			o.AnchorIndex == lv.AnchorIndex
	})
}

// findOpposing walks back from the impulse candle looking for the most
// recent candle against the impulse direction.
func (d *OrderBlockDetector) findOpposing(index int, dir types.Direction) (types.Candle, bool) {
	for j := index - 1; j >= index-d.lookback && j >= 0; j-- {
		c, ok := d.candles.At(j)
		if !ok {
			break
		}

		if c.Direction() == dir.Opposite() {
			return c, true
		}
	}

	return types.Candle{}, false
}
