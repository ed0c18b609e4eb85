package detector

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// OrderFlowDetector builds directional ranges between two swing points and
// annotates them with the liquidity swept en route. It keeps its own
// index-ordered swing history so pairing never re-sorts the shared
// repository.
type OrderFlowDetector struct {
	candles *store.CandleStore
	levels  *store.LevelRepository
	bus     *events.Bus

	history []*types.SwingPoint

	// fair value gaps announced since the last order flow level; consumed
	// (at most once) when the next level fires
	pendingFVGs []*types.Level
}

func NewOrderFlowDetector(candles *store.CandleStore, levels *store.LevelRepository, bus *events.Bus) *OrderFlowDetector {
	d := &OrderFlowDetector{
		candles: candles,
		levels:  levels,
		bus:     bus,
	}

	bus.Subscribe(events.TopicSwingDetected, d.onSwingDetected)
	bus.Subscribe(events.TopicSwingRemoved, d.onSwingRemoved)
	bus.Subscribe(events.TopicLevelDetected, events.LevelTypeFilter(types.LevelFVG, d.onFVGDetected))

	return d
}

func (d *OrderFlowDetector) Name() string { return "order_flow" }

func (d *OrderFlowDetector) OnBarClosed(index int) {}

func (d *OrderFlowDetector) onFVGDetected(e events.Event) {
	d.pendingFVGs = append(d.pendingFVGs, e.Level)
}

func (d *OrderFlowDetector) onSwingRemoved(e events.Event) {
	if e.Point == nil {
		return
	}

	kept := d.history[:0]
	for _, p := range d.history {
		if p != e.Point {
			kept = append(kept, p)
		}
	}
	d.history = kept
}

func (d *OrderFlowDetector) onSwingDetected(e events.Event) {
	p := e.Point
	if p == nil {
		return
	}

	d.insert(p)

	if p.Direction == types.DirectionDown {
		d.buildBullish()
	} else {
		d.buildBearish()
	}
}

// insert keeps the history ordered by candle index. Points arrive in
// confirmation order which already increases, so this is an append in the
// common case.
func (d *OrderFlowDetector) insert(p *types.SwingPoint) {
	i := sort.Search(len(d.history), func(i int) bool {
		return d.history[i].Index >= p.Index
	})

	// a replayed point must not shift the pairing windows
	if i < len(d.history) && d.history[i] == p {
		return
	}

	d.history = append(d.history, nil)
	copy(d.history[i+1:], d.history[i:])
	d.history[i] = p
}

func (d *OrderFlowDetector) byDirection(dir types.Direction) []*types.SwingPoint {
	var out []*types.SwingPoint
	for _, p := range d.history {
		if p.Direction == dir {
			out = append(out, p)
		}
	}

	return out
}

// buildBullish pairs the second most recent low with the most recent high
// once the low precedes the high.
func (d *OrderFlowDetector) buildBullish() {
	highs := d.byDirection(types.DirectionUp)
	lows := d.byDirection(types.DirectionDown)
	if len(highs) < 1 || len(lows) < 2 {
		return
	}

	h := highs[len(highs)-1]
	l := lows[len(lows)-2]
	if l.Index >= h.Index {
		return
	}

	lv := types.NewLevel(types.LevelOrderFlow, types.DirectionUp, l.Price, h.Price)
	lv.AnchorIndex = l.Index
	lv.LowIndex = l.Index
	lv.HighIndex = h.Index
	lv.LowTime = l.Time
	lv.HighTime = h.Time

	d.finish(lv, l.Index, h.Index)
}

// buildBearish mirrors buildBullish: second most recent high to the most
// recent low.
func (d *OrderFlowDetector) buildBearish() {
	highs := d.byDirection(types.DirectionUp)
	lows := d.byDirection(types.DirectionDown)
	if len(lows) < 1 || len(highs) < 2 {
		return
	}

	l := lows[len(lows)-1]
	h := highs[len(highs)-2]
	if h.Index >= l.Index {
		return
	}

	lv := types.NewLevel(types.LevelOrderFlow, types.DirectionDown, l.Price, h.Price)
	lv.AnchorIndex = h.Index
	lv.LowIndex = l.Index
	lv.HighIndex = h.Index
	lv.LowTime = l.Time
	lv.HighTime = h.Time

	d.finish(lv, h.Index, l.Index)
}

func (d *OrderFlowDetector) finish(lv *types.Level, start, end int) {
	stored := publishLevel(d.bus, d.levels, lv, func(o *types.Level) bool {
		return o.Type == types.LevelOrderFlow &&
			o.Direction == lv.Direction &&
			o.LowIndex == lv.LowIndex &&
			o.HighIndex == lv.HighIndex
	})
	if !stored {
		return
	}

	d.annotateSweep(lv, start, end)

	// attribute pending gaps to this level as their structural root
	for _, f := range d.pendingFVGs {
		f.RelatedID = lv.ID
	}
	d.pendingFVGs = d.pendingFVGs[:0]
}

// annotateSweep finds the most extreme unswept swing point opposing the
// triggering point strictly inside the level's index range and records it
// as the level's primary swept point, with the first candle that breached
// it. For a bullish range those are the intermediate highs run through on
// the way up; for a bearish range the intermediate lows.
func (d *OrderFlowDetector) annotateSweep(lv *types.Level, start, end int) {
	dir := lv.Direction

	var target *types.SwingPoint
	for _, p := range d.history {
		if p.Direction != dir || p.Swept {
			continue
		}

		if p.Index <= start || p.Index >= end {
			continue
		}

		if target == nil {
			target = p
			continue
		}

		if dir == types.DirectionUp && p.Price > target.Price {
			target = p
		} else if dir == types.DirectionDown && p.Price < target.Price {
			target = p
		}
	}

	if target == nil {
		return
	}

	sweepIndex := d.findSweepingCandle(target, start, end)
	if sweepIndex < 0 {
		return
	}

	target.SweepBy(sweepIndex)
	lv.SweptPoints = append(lv.SweptPoints, target)

	log.Debugf("order flow %v swept %v at bar %d", lv, target, sweepIndex)

	d.bus.Publish(events.Event{
		Topic:     events.TopicSwingSwept,
		Index:     sweepIndex,
		Direction: target.Direction,
		Point:     target,
	})
}

// findSweepingCandle scans forward through the level's span for the first
// candle trading beyond the point's price.
func (d *OrderFlowDetector) findSweepingCandle(p *types.SwingPoint, start, end int) int {
	for i := start; i <= end; i++ {
		c, ok := d.candles.At(i)
		if !ok {
			continue
		}

		if i <= p.Index {
			continue
		}

		if p.BreachedBy(c) {
			return i
		}
	}

	return -1
}
