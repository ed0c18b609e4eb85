package detector

import (
	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// RejectionDetector turns swing candles with a dominant wick into
// rejection blocks spanning the wick. It is purely swing-event driven.
type RejectionDetector struct {
	candles *store.CandleStore
	levels  *store.LevelRepository
	bus     *events.Bus

	wickRatio float64
}

func NewRejectionDetector(
	candles *store.CandleStore, levels *store.LevelRepository, bus *events.Bus,
	wickRatio float64,
) *RejectionDetector {
	d := &RejectionDetector{
		candles:   candles,
		levels:    levels,
		bus:       bus,
		wickRatio: wickRatio,
	}

	bus.Subscribe(events.TopicSwingDetected, d.onSwingDetected)

	return d
}

func (d *RejectionDetector) Name() string { return "rejection_block" }

func (d *RejectionDetector) OnBarClosed(index int) {}

func (d *RejectionDetector) onSwingDetected(e events.Event) {
	p := e.Point
	if p == nil {
		return
	}

	c, ok := d.candles.At(p.Index)
	if !ok {
		return
	}

	body := c.Body()
	if body <= 0 {
		return
	}

	var lv *types.Level

	if p.Direction == types.DirectionUp {
		wick := c.UpperWick()
		if wick < d.wickRatio*body || wick <= c.LowerWick() {
			return
		}

		// the rejected wick above the bodies becomes a bearish zone
		lv = types.NewLevel(types.LevelRejectionBlock, types.DirectionDown, c.High-wick, c.High)
	} else {
		wick := c.LowerWick()
		if wick < d.wickRatio*body || wick <= c.UpperWick() {
			return
		}

		lv = types.NewLevel(types.LevelRejectionBlock, types.DirectionUp, c.Low, c.Low+wick)
	}

	lv.AnchorIndex = c.Index
	lv.HighIndex = c.Index
	lv.LowIndex = c.Index
	lv.LowTime = c.StartTime
	lv.HighTime = c.StartTime
	lv.AttachQuadrants()

	publishLevel(d.bus, d.levels, lv, func(o *types.Level) bool {
		return o.Type == types.LevelRejectionBlock &&
			o.Direction == lv.Direction &&
			o.AnchorIndex == lv.AnchorIndex
	})
}
