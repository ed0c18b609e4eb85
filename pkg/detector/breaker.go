package detector

import (
	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// BreakerDetector watches order blocks and fair value gaps for a close
// through their range against their bias. The broken source is marked
// inverted (kept for the audit trail) and a breaker block with the
// opposite bias is derived from its range.
type BreakerDetector struct {
	candles *store.CandleStore
	levels  *store.LevelRepository
	bus     *events.Bus
}

func NewBreakerDetector(candles *store.CandleStore, levels *store.LevelRepository, bus *events.Bus) *BreakerDetector {
	return &BreakerDetector{
		candles: candles,
		levels:  levels,
		bus:     bus,
	}
}

func (d *BreakerDetector) Name() string { return "breaker_block" }

func (d *BreakerDetector) OnBarClosed(index int) {
	c, ok := d.candles.At(index)
	if !ok {
		return
	}

	var broken []*types.Level
	for _, lv := range d.levels.All() {
		if lv.Inverted {
			continue
		}

		if lv.Type != types.LevelOrderBlock && lv.Type != types.LevelFVG {
			continue
		}

		// the level's own candles cannot break it
		if c.Index <= lv.AnchorIndex {
			continue
		}

		if brokenThrough(lv, c) {
			broken = append(broken, lv)
		}
	}

	for _, lv := range broken {
		d.invert(lv, c)
	}
}

func brokenThrough(lv *types.Level, c types.Candle) bool {
	if lv.Direction == types.DirectionUp {
		return c.Close < lv.Low
	}

	return c.Close > lv.High
}

func (d *BreakerDetector) invert(src *types.Level, c types.Candle) {
	src.Inverted = true
	src.LiquiditySwept = true

	d.bus.Publish(events.Event{
		Topic:     events.TopicLevelSwept,
		Index:     c.Index,
		Direction: src.Direction,
		Level:     src,
	})

	br := types.NewLevel(types.LevelBreakerBlock, src.Direction.Opposite(), src.Low, src.High)
	br.AnchorIndex = c.Index
	br.HighIndex = src.HighIndex
	br.LowIndex = src.LowIndex
	br.LowTime = src.LowTime
	br.HighTime = src.HighTime
	br.RelatedID = src.ID
	br.AttachQuadrants()

	log.Debugf("%s broken at bar %d, minting breaker %v", src.Type, c.Index, br)

	publishLevel(d.bus, d.levels, br, func(o *types.Level) bool {
		return o.Type == types.LevelBreakerBlock && o.RelatedID == src.ID
	})
}
