package detector

import (
	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/metrics"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// SwingDetector confirms swing highs and lows with a symmetric window of
// `strength` candles on each side, and tracks which confirmed points later
// candles sweep.
//
// Tie rule: confirmation requires a strict extreme, so the earlier candle
// of a tied pair is the only one that can ever confirm.
type SwingDetector struct {
	candles  *store.CandleStore
	swings   *store.SwingPointRepository
	bus      *events.Bus
	strength int
}

func NewSwingDetector(
	candles *store.CandleStore, swings *store.SwingPointRepository,
	bus *events.Bus, strength int,
) *SwingDetector {
	return &SwingDetector{
		candles:  candles,
		swings:   swings,
		bus:      bus,
		strength: strength,
	}
}

func (d *SwingDetector) Name() string { return "swing" }

func (d *SwingDetector) OnBarClosed(index int) {
	d.scanSweeps(index)
	d.confirm(index)
}

// confirm examines the candidate candle that just gained a full forward
// window: the one `strength` bars behind the closed bar.
func (d *SwingDetector) confirm(index int) {
	candidate := index - d.strength
	if candidate < d.strength {
		return
	}

	c, ok := d.candles.At(candidate)
	if !ok {
		return
	}

	isHigh := true
	isLow := true
	for i := candidate - d.strength; i <= candidate+d.strength; i++ {
		if i == candidate {
			continue
		}

		o, ok := d.candles.At(i)
		if !ok {
			return
		}

		if o.High >= c.High {
			isHigh = false
		}
		if o.Low <= c.Low {
			isLow = false
		}
	}

	// a candle dominating both sides of its window is indeterminate
	if isHigh == isLow {
		return
	}

	dir := types.DirectionUp
	if isLow {
		dir = types.DirectionDown
	}

	p := types.NewSwingPoint(c, dir)
	d.swings.Add(p)
	metrics.SwingPointsDetectedMetrics.WithLabelValues(dir.String()).Inc()

	log.Debugf("confirmed %v", p)

	d.bus.Publish(events.Event{
		Topic:     events.TopicSwingDetected,
		Index:     index,
		Direction: dir,
		Point:     p,
	})
}

// scanSweeps checks every unswept point against the new candle. A breach
// while the breaching candle's lookback window still overlaps the point's
// window (index distance <= 2*strength) means the point is superseded by a
// later, more extreme, not-yet-confirmed candidate: it is removed instead
// of swept.
func (d *SwingDetector) scanSweeps(index int) {
	c, ok := d.candles.At(index)
	if !ok {
		return
	}

	var swept, removed []*types.SwingPoint
	for _, p := range d.swings.All() {
		if p.Swept || !p.BreachedBy(c) {
			continue
		}

		if index-p.Index <= 2*d.strength {
			removed = append(removed, p)
			continue
		}

		p.SweepBy(index)
		swept = append(swept, p)
	}

	for _, p := range removed {
		d.swings.Remove(p)
		d.bus.Publish(events.Event{
			Topic:     events.TopicSwingRemoved,
			Index:     index,
			Direction: p.Direction,
			Point:     p,
		})
	}

	for _, p := range swept {
		metrics.SwingPointsSweptMetrics.Inc()
		d.bus.Publish(events.Event{
			Topic:     events.TopicSwingSwept,
			Index:     index,
			Direction: p.Direction,
			Point:     p,
		})
	}
}
