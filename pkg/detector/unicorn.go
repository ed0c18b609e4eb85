package detector

import (
	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// UnicornDetector is a pure confluence rule: a fair value gap overlapping
// the breaker block of a confirmed, unactivated CISD, anchored on the
// CISD's confirming candle. At most one unicorn is minted per source gap.
type UnicornDetector struct {
	levels *store.LevelRepository
	bus    *events.Bus
}

func NewUnicornDetector(levels *store.LevelRepository, bus *events.Bus) *UnicornDetector {
	d := &UnicornDetector{
		levels: levels,
		bus:    bus,
	}

	bus.Subscribe(events.TopicLevelDetected, events.LevelTypeFilter(types.LevelFVG, d.onFVGDetected))
	bus.Subscribe(events.TopicLevelDetected, events.LevelTypeFilter(types.LevelBreakerBlock, d.onBreakerDetected))
	bus.Subscribe(events.TopicLevelConfirmed, events.LevelTypeFilter(types.LevelCISD, d.onCISDConfirmed))

	return d
}

func (d *UnicornDetector) Name() string { return "unicorn" }

func (d *UnicornDetector) OnBarClosed(index int) {}

func (d *UnicornDetector) onFVGDetected(e events.Event) {
	d.evaluate(e.Level)
}

// onBreakerDetected re-runs the confluence over the stored gaps: the
// breaker may have just completed a CISD that qualifies an earlier gap.
func (d *UnicornDetector) onBreakerDetected(e events.Event) {
	d.evaluateStoredGaps()
}

// onCISDConfirmed closes the in-bar timing gap: a gap anchored on the
// confirming candle was announced earlier in the same bar, while the
// CISD was still unconfirmed.
func (d *UnicornDetector) onCISDConfirmed(e events.Event) {
	d.evaluateStoredGaps()
}

func (d *UnicornDetector) evaluateStoredGaps() {
	for _, f := range d.levels.ByType(types.LevelFVG) {
		d.evaluate(f)
	}
}

func (d *UnicornDetector) evaluate(f *types.Level) {
	if f == nil {
		return
	}

	// at most one unicorn per source gap, ever
	if d.levels.Any(func(o *types.Level) bool {
		return o.Type == types.LevelUnicorn && o.SourceID == f.ID
	}) {
		return
	}

	for _, cisd := range d.levels.ByType(types.LevelCISD) {
		if !cisd.Confirmed || cisd.Activated || cisd.Direction != f.Direction {
			continue
		}

		br, ok := d.levels.ByID(cisd.RelatedID)
		if !ok || br.Type != types.LevelBreakerBlock {
			continue
		}

		if !d.qualifies(f, cisd, br) {
			continue
		}

		stored := d.mint(f, br)
		if stored {
			return
		}
	}
}

// qualifies checks the three confluence conditions: the gap is anchored on
// the confirming candle, its near edge sits within the CISD's far edge,
// and its range overlaps the breaker's range.
func (d *UnicornDetector) qualifies(f, cisd, br *types.Level) bool {
	if !f.CoversIndex(cisd.ConfirmIndex) {
		return false
	}

	if f.Direction == types.DirectionUp {
		if f.High > cisd.High {
			return false
		}
	} else {
		if f.Low < cisd.Low {
			return false
		}
	}

	return f.Overlaps(br)
}

// mint clones the gap geometry into a unicorn level with back-references
// to the source gap and the breaker.
func (d *UnicornDetector) mint(f, br *types.Level) bool {
	u := types.NewLevel(types.LevelUnicorn, f.Direction, f.Low, f.High)
	u.AnchorIndex = f.AnchorIndex
	u.HighIndex = f.HighIndex
	u.LowIndex = f.LowIndex
	u.LowTime = f.LowTime
	u.HighTime = f.HighTime
	u.SourceID = f.ID
	u.RelatedID = br.ID
	u.AttachQuadrants()

	stored := publishLevel(d.bus, d.levels, u, func(o *types.Level) bool {
		return o.Type == types.LevelUnicorn && o.SourceID == f.ID
	})
	if stored {
		log.Debugf("unicorn minted from %v over %v", f, br)
	}

	return stored
}
