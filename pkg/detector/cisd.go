package detector

import (
	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// CISDDetector recognizes a change in the state of delivery: a run of
// consecutive same-direction candles followed by a turning bar against the
// run. The level starts unconfirmed; a later close beyond the run's first
// open confirms it, and a close back through the opposite edge activates
// it (terminal).
type CISDDetector struct {
	candles *store.CandleStore
	levels  *store.LevelRepository
	bus     *events.Bus

	minRun          int
	maxPerDirection int
}

func NewCISDDetector(
	candles *store.CandleStore, levels *store.LevelRepository, bus *events.Bus,
	minRun, maxPerDirection int,
) *CISDDetector {
	return &CISDDetector{
		candles:         candles,
		levels:          levels,
		bus:             bus,
		minRun:          minRun,
		maxPerDirection: maxPerDirection,
	}
}

func (d *CISDDetector) Name() string { return "cisd" }

func (d *CISDDetector) OnBarClosed(index int) {
	d.detect(index)
	d.confirm(index)
	d.activate(index)
}

func (d *CISDDetector) detect(index int) {
	c, ok := d.candles.At(index)
	if !ok {
		return
	}

	dir := c.Direction()
	if dir == types.DirectionNone {
		return
	}

	run := d.measureRun(index-1, dir.Opposite())
	if len(run) < d.minRun {
		return
	}

	first := run[0]

	var lv *types.Level
	if dir == types.DirectionUp {
		// a bearish delivery run: its first open is the defining price
		low, lowIdx := first.Low, first.Index
		for _, rc := range run {
			if rc.Low < low {
				low, lowIdx = rc.Low, rc.Index
			}
		}

		lv = types.NewLevel(types.LevelCISD, types.DirectionUp, low, first.Open)
		lv.LowIndex = lowIdx
		lv.HighIndex = first.Index
	} else {
		high, highIdx := first.High, first.Index
		for _, rc := range run {
			if rc.High > high {
				high, highIdx = rc.High, rc.Index
			}
		}

		lv = types.NewLevel(types.LevelCISD, types.DirectionDown, first.Open, high)
		lv.LowIndex = first.Index
		lv.HighIndex = highIdx
	}

	lv.AnchorIndex = index
	lv.LowTime = first.StartTime
	lv.HighTime = c.StartTime
	lv.AttachQuadrants()

	stored := publishLevel(d.bus, d.levels, lv, func(o *types.Level) bool {
		return o.Type == types.LevelCISD &&
			o.Direction == lv.Direction &&
			o.LowIndex == lv.LowIndex &&
			o.HighIndex == lv.HighIndex
	})

	// a rejected duplicate must not cost an outstanding level its slot
	if stored {
		d.evictOverflow(lv)
	}
}

// measureRun collects the consecutive candles of the given direction
// ending at index, returned in chronological order.
func (d *CISDDetector) measureRun(index int, dir types.Direction) []types.Candle {
	var run []types.Candle
	for i := index; i >= 0; i-- {
		c, ok := d.candles.At(i)
		if !ok || c.Direction() != dir {
			break
		}

		run = append([]types.Candle{c}, run...)
	}

	return run
}

// evictOverflow drops the oldest unconfirmed levels once the newly stored
// one pushes the per-direction count over the cap, announcing each removal
// so holders purge it.
func (d *CISDDetector) evictOverflow(keep *types.Level) {
	outstanding := d.levels.Filter(func(o *types.Level) bool {
		return o.Type == types.LevelCISD && o.Direction == keep.Direction &&
			!o.Confirmed && o != keep
	})

	for len(outstanding) >= d.maxPerDirection {
		oldest := outstanding[0]
		outstanding = outstanding[1:]

		d.levels.Remove(oldest)
		d.bus.Publish(events.Event{
			Topic:     events.TopicLevelRemoved,
			Index:     oldest.AnchorIndex,
			Direction: oldest.Direction,
			Level:     oldest,
		})
	}
}

// confirm promotes unconfirmed levels once a candle closes beyond the
// defining price. A breaker minted on the confirming bar is attached.
func (d *CISDDetector) confirm(index int) {
	c, ok := d.candles.At(index)
	if !ok {
		return
	}

	for _, lv := range d.levels.ByType(types.LevelCISD) {
		if lv.Confirmed || index <= lv.AnchorIndex {
			continue
		}

		confirmed := (lv.Direction == types.DirectionUp && c.Close > lv.High) ||
			(lv.Direction == types.DirectionDown && c.Close < lv.Low)
		if !confirmed {
			continue
		}

		lv.Confirmed = true
		lv.ConfirmIndex = index

		if br, ok := d.levels.LastWhere(func(o *types.Level) bool {
			return o.Type == types.LevelBreakerBlock && o.AnchorIndex == index
		}); ok {
			lv.RelatedID = br.ID
		}

		log.Debugf("cisd confirmed at bar %d: %v", index, lv)

		d.bus.Publish(events.Event{
			Topic:     events.TopicLevelConfirmed,
			Index:     index,
			Direction: lv.Direction,
			Level:     lv,
		})
	}
}

// activate is terminal: once a confirmed level sees a close through its
// opposite edge it fires exactly once and is never re-checked.
func (d *CISDDetector) activate(index int) {
	c, ok := d.candles.At(index)
	if !ok {
		return
	}

	for _, lv := range d.levels.ByType(types.LevelCISD) {
		if !lv.Confirmed || lv.Activated || index <= lv.ConfirmIndex {
			continue
		}

		activated := (lv.Direction == types.DirectionUp && c.Close < lv.Low) ||
			(lv.Direction == types.DirectionDown && c.Close > lv.High)
		if !activated {
			continue
		}

		lv.Activated = true
		lv.ActivationIndex = index

		d.bus.Publish(events.Event{
			Topic:     events.TopicLevelActivated,
			Index:     index,
			Direction: lv.Direction,
			Level:     lv,
		})
	}
}
