package detector

import (
	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/metrics"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// StructureAnalyzer maintains the directional bias and turns the swing
// point stream into break-of-structure / change-of-character events.
//
// Every incoming point resolves to exactly one of BOS, CHOCH, inducement
// update or no-op. Bias only ever changes on a CHOCH. A duplicate index is
// an idempotent no-op.
type StructureAnalyzer struct {
	candles *store.CandleStore
	bus     *events.Bus

	bias types.Direction

	bosHigh, bosLow     *types.SwingPoint
	chochHigh, chochLow *types.SwingPoint

	inducementHigh, inducementLow *types.SwingPoint

	// most recent swing of each direction regardless of classification;
	// used to trail the choch anchors as the trend extends
	lastHigh, lastLow *types.SwingPoint

	lastHighIndex, lastLowIndex int

	// externalLiquidity holds the structural extremes (HH/LL) whose
	// liquidity has not been taken yet
	externalLiquidity []*types.SwingPoint

	projections []*types.StdDevProjection

	enableProjections bool
}

func NewStructureAnalyzer(candles *store.CandleStore, bus *events.Bus, enableProjections bool) *StructureAnalyzer {
	d := &StructureAnalyzer{
		candles:           candles,
		bus:               bus,
		lastHighIndex:     -1,
		lastLowIndex:      -1,
		enableProjections: enableProjections,
	}

	bus.Subscribe(events.TopicSwingDetected, d.onSwingDetected)
	bus.Subscribe(events.TopicSwingSwept, d.onSwingSwept)
	bus.Subscribe(events.TopicSwingRemoved, d.onSwingRemoved)

	return d
}

func (d *StructureAnalyzer) Name() string { return "structure" }

// OnBarClosed only maintains the projection sweep flags; all structural
// transitions are swing-event driven.
func (d *StructureAnalyzer) OnBarClosed(index int) {
	c, ok := d.candles.At(index)
	if !ok {
		return
	}

	for _, p := range d.projections {
		p.Update(c)
	}
}

func (d *StructureAnalyzer) Bias() types.Direction { return d.bias }

func (d *StructureAnalyzer) BOSHigh() *types.SwingPoint { return d.bosHigh }

func (d *StructureAnalyzer) BOSLow() *types.SwingPoint { return d.bosLow }

func (d *StructureAnalyzer) InducementHigh() *types.SwingPoint { return d.inducementHigh }

func (d *StructureAnalyzer) InducementLow() *types.SwingPoint { return d.inducementLow }

// ExternalLiquidity returns the structural extremes not yet swept.
func (d *StructureAnalyzer) ExternalLiquidity() []*types.SwingPoint {
	return d.externalLiquidity
}

func (d *StructureAnalyzer) Projections() []*types.StdDevProjection {
	return d.projections
}

func (d *StructureAnalyzer) onSwingDetected(e events.Event) {
	if e.Point == nil {
		return
	}

	if e.Point.Direction == types.DirectionUp {
		d.onHigh(e.Point)
	} else {
		d.onLow(e.Point)
	}
}

func (d *StructureAnalyzer) onHigh(p *types.SwingPoint) {
	if p.Index == d.lastHighIndex {
		return
	}
	d.lastHighIndex = p.Index

	defer func() { d.lastHigh = p }()

	switch {
	case d.bosHigh == nil:
		// seed state, no signal yet
		d.bosHigh = p
		d.chochHigh = p

	case d.bias != types.DirectionDown && p.Price > d.bosHigh.Price:
		d.breakOfStructure(p, types.DirectionUp)

	case d.bias == types.DirectionDown && d.chochHigh != nil && p.Price > d.chochHigh.Price:
		d.changeOfCharacter(p, types.DirectionUp)

	case d.bias == types.DirectionDown:
		p.Mark = types.MarkLowerHigh
		d.inducementHigh = p
		d.bus.Publish(events.Event{
			Topic:     events.TopicInducementUpdated,
			Index:     p.Index,
			Direction: types.DirectionUp,
			Point:     p,
		})

	default:
		// internal lower high inside an uptrend
		p.Mark = types.MarkLowerHigh
	}
}

func (d *StructureAnalyzer) onLow(p *types.SwingPoint) {
	if p.Index == d.lastLowIndex {
		return
	}
	d.lastLowIndex = p.Index

	defer func() { d.lastLow = p }()

	switch {
	case d.bosLow == nil:
		d.bosLow = p
		d.chochLow = p

	case d.bias != types.DirectionUp && p.Price < d.bosLow.Price:
		d.breakOfStructure(p, types.DirectionDown)

	case d.bias == types.DirectionUp && d.chochLow != nil && p.Price < d.chochLow.Price:
		d.changeOfCharacter(p, types.DirectionDown)

	case d.bias == types.DirectionUp:
		p.Mark = types.MarkHigherLow
		d.inducementLow = p
		d.bus.Publish(events.Event{
			Topic:     events.TopicInducementUpdated,
			Index:     p.Index,
			Direction: types.DirectionDown,
			Point:     p,
		})

	default:
		p.Mark = types.MarkHigherLow
	}
}

// breakOfStructure extends the trend: a new extreme in the bias direction.
// It never changes the bias (it may establish it from none).
func (d *StructureAnalyzer) breakOfStructure(p *types.SwingPoint, dir types.Direction) {
	var proj *types.StdDevProjection

	if dir == types.DirectionUp {
		p.Mark = types.MarkHigherHigh
		d.bosHigh = p

		// the higher low launching this break becomes the choch anchor
		if d.lastLow != nil && (d.chochLow == nil || d.lastLow.Index > d.chochLow.Index) {
			d.chochLow = d.lastLow
		}

		if d.enableProjections && d.bosLow != nil {
			proj = types.NewStdDevProjection(dir, d.bosLow.Price, p.Price, d.bosLow.Index, p.Index)
		}
	} else {
		p.Mark = types.MarkLowerLow
		d.bosLow = p

		if d.lastHigh != nil && (d.chochHigh == nil || d.lastHigh.Index > d.chochHigh.Index) {
			d.chochHigh = d.lastHigh
		}

		if d.enableProjections && d.bosHigh != nil {
			proj = types.NewStdDevProjection(dir, p.Price, d.bosHigh.Price, p.Index, d.bosHigh.Index)
		}
	}

	if d.bias == types.DirectionNone {
		d.bias = dir
		metrics.MarketBiasMetrics.Set(float64(d.bias))
	}

	if proj != nil {
		d.replaceProjection(proj)
	}

	d.externalLiquidity = append(d.externalLiquidity, p)
	metrics.StructureEventsMetrics.WithLabelValues("bos", dir.String()).Inc()

	log.Debugf("BOS %s at %v", dir, p)

	d.bus.Publish(events.Event{
		Topic:      events.TopicBreakOfStructure,
		Index:      p.Index,
		Direction:  dir,
		Point:      p,
		Projection: proj,
	})
}

// changeOfCharacter flips the bias: a new extreme against the trend.
func (d *StructureAnalyzer) changeOfCharacter(p *types.SwingPoint, dir types.Direction) {
	d.bias = dir
	metrics.MarketBiasMetrics.Set(float64(d.bias))

	if dir == types.DirectionUp {
		p.Mark = types.MarkHigherHigh
		d.bosHigh = p
		if d.lastLow != nil {
			d.bosLow = d.lastLow
			d.chochLow = d.lastLow
		}
	} else {
		p.Mark = types.MarkLowerLow
		d.bosLow = p
		if d.lastHigh != nil {
			d.bosHigh = d.lastHigh
			d.chochHigh = d.lastHigh
		}
	}

	d.inducementHigh = nil
	d.inducementLow = nil

	d.externalLiquidity = append(d.externalLiquidity, p)
	metrics.StructureEventsMetrics.WithLabelValues("choch", dir.String()).Inc()

	log.Debugf("CHOCH %s at %v", dir, p)

	d.bus.Publish(events.Event{
		Topic:     events.TopicChangeOfCharacter,
		Index:     p.Index,
		Direction: dir,
		Point:     p,
	})
}

// replaceProjection keeps at most one live projection per direction; a new
// break recomputes it because the anchors moved.
func (d *StructureAnalyzer) replaceProjection(proj *types.StdDevProjection) {
	kept := d.projections[:0]
	for _, p := range d.projections {
		if p.Direction != proj.Direction {
			kept = append(kept, p)
		}
	}

	d.projections = append(kept, proj)
}

func (d *StructureAnalyzer) onSwingSwept(e events.Event) {
	if e.Point == nil {
		return
	}

	d.dropExternalLiquidity(e.Point)
}

// onSwingRemoved purges every reference to the removed point: state
// anchors, the liquidity set and any projection anchored to it.
func (d *StructureAnalyzer) onSwingRemoved(e events.Event) {
	p := e.Point
	if p == nil {
		return
	}

	d.dropExternalLiquidity(p)

	if d.bosHigh == p {
		d.bosHigh = nil
	}
	if d.bosLow == p {
		d.bosLow = nil
	}
	if d.chochHigh == p {
		d.chochHigh = nil
	}
	if d.chochLow == p {
		d.chochLow = nil
	}
	if d.inducementHigh == p {
		d.inducementHigh = nil
	}
	if d.inducementLow == p {
		d.inducementLow = nil
	}
	if d.lastHigh == p {
		d.lastHigh = nil
	}
	if d.lastLow == p {
		d.lastLow = nil
	}

	kept := d.projections[:0]
	for _, proj := range d.projections {
		if !proj.AnchoredTo(p.Index) {
			kept = append(kept, proj)
		}
	}
	d.projections = kept
}

func (d *StructureAnalyzer) dropExternalLiquidity(p *types.SwingPoint) {
	kept := d.externalLiquidity[:0]
	for _, q := range d.externalLiquidity {
		if q != p {
			kept = append(kept, q)
		}
	}
	d.externalLiquidity = kept
}
