package engine

import (
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/pkg/errors"

	"github.com/quantbay/smc/pkg/config"
	"github.com/quantbay/smc/pkg/detector"
	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/metrics"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// Engine wires the candle store, the event bus, the pattern repositories
// and every detector together, and drives them one closed bar at a time.
//
// The engine is single threaded by contract: the driver calls ProcessBar
// serially and every event publish completes synchronously before the call
// returns. None of the owned structures are safe for concurrent use.
type Engine struct {
	settings *config.Settings

	candles *store.CandleStore
	bus     *events.Bus
	swings  *store.SwingPointRepository
	levels  *store.LevelRepository

	structure *detector.StructureAnalyzer
	detectors []detector.Detector
}

func New(settings *config.Settings) *Engine {
	if settings == nil {
		settings = config.Default()
	}

	candles := store.NewCandleStore()
	bus := events.NewBus()
	swings := store.NewSwingPointRepository()
	levels := store.NewLevelRepository()

	e := &Engine{
		settings: settings,
		candles:  candles,
		bus:      bus,
		swings:   swings,
		levels:   levels,
	}

	// construction order is delivery order for cross-subscribed
	// detectors: structure classifies a point before the level detectors
	// react to it
	e.structure = detector.NewStructureAnalyzer(candles, bus, settings.EnableProjections)

	e.detectors = []detector.Detector{
		detector.NewSwingDetector(candles, swings, bus, settings.SwingStrength),
		e.structure,
	}

	if settings.ShowRejectionBlocks {
		e.detectors = append(e.detectors,
			detector.NewRejectionDetector(candles, levels, bus, settings.RejectionWickRatio))
	}

	if settings.ShowOrderFlow {
		e.detectors = append(e.detectors,
			detector.NewOrderFlowDetector(candles, levels, bus))
	}

	if settings.ShowFVG {
		e.detectors = append(e.detectors,
			detector.NewFVGDetector(candles, levels, bus))
	}

	if settings.ShowOrderBlocks {
		e.detectors = append(e.detectors,
			detector.NewOrderBlockDetector(candles, levels, bus,
				settings.OrderBlockLookback, settings.OrderBlockBodyRatio))
	}

	if settings.ShowBreakerBlocks {
		e.detectors = append(e.detectors,
			detector.NewBreakerDetector(candles, levels, bus))
	}

	if settings.ShowCISD {
		e.detectors = append(e.detectors,
			detector.NewCISDDetector(candles, levels, bus,
				settings.CisdMinRun, settings.MaxCisdsPerDirection))
	}

	if settings.ShowUnicorn {
		e.detectors = append(e.detectors,
			detector.NewUnicornDetector(levels, bus))
	}

	return e
}

// ProcessBar ingests the next closed bar and runs every detector over it.
// The bar is always fully processed: a faulting detector is recovered,
// logged and skipped for this bar. The returned error aggregates the
// recovered faults and is informational.
func (e *Engine) ProcessBar(c types.Candle) error {
	stored := e.candles.Add(c)

	var err error
	for _, det := range e.detectors {
		if faultErr := e.runDetector(det, stored.Index); faultErr != nil {
			err = multierr.Append(err, faultErr)
		}
	}

	e.maintainLevels(stored)

	metrics.BarsProcessedMetrics.Inc()
	return err
}

func (e *Engine) runDetector(det detector.Detector, index int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("detector %s fault on bar %d: %v", det.Name(), index, r)
			metrics.DetectorFaultsMetrics.WithLabelValues(det.Name()).Inc()
			log.WithError(err).Errorf("recovered detector fault")
		}
	}()

	det.OnBarClosed(index)
	return nil
}

// maintainLevels invalidates gaps and order blocks closed through against
// their bias, sweeps the quadrants of every live level against the new
// candle and announces levels that just went inactive.
func (e *Engine) maintainLevels(c types.Candle) {
	var exhausted []*types.Level
	for _, lv := range e.levels.All() {
		if lv.LiquiditySwept || !lv.IsActive() {
			continue
		}

		// the defining candles do not count against the level
		if c.Index <= lv.AnchorIndex || c.Index <= lv.HighIndex || c.Index <= lv.LowIndex {
			continue
		}

		// far-edge invalidation; with the breaker detector enabled the
		// source was already marked swept when the breaker was minted
		if lv.Type == types.LevelFVG || lv.Type == types.LevelOrderBlock {
			if closedThrough(lv, c) {
				lv.LiquiditySwept = true
				exhausted = append(exhausted, lv)
				continue
			}
		}

		if lv.SweepQuadrants(c) > 0 && !lv.IsActive() {
			exhausted = append(exhausted, lv)
		}
	}

	for _, lv := range exhausted {
		e.bus.Publish(events.Event{
			Topic:     events.TopicLevelSwept,
			Index:     c.Index,
			Direction: lv.Direction,
			Level:     lv,
		})
	}
}

// closedThrough reports a close fully beyond the level's far edge against
// its bias.
func closedThrough(lv *types.Level, c types.Candle) bool {
	if lv.Direction == types.DirectionUp {
		return c.Close < lv.Low
	}

	return c.Close > lv.High
}

// Candles exposes the bar history for read access.
func (e *Engine) Candles() *store.CandleStore { return e.candles }

// SwingPoints exposes the swing point query surface.
func (e *Engine) SwingPoints() *store.SwingPointRepository { return e.swings }

// Levels exposes the level query surface.
func (e *Engine) Levels() *store.LevelRepository { return e.levels }

// Structure exposes the market structure state.
func (e *Engine) Structure() *detector.StructureAnalyzer { return e.structure }

// Events returns the bus so external collaborators (rendering,
// notification) can subscribe; the core never requires them to exist.
func (e *Engine) Events() *events.Bus { return e.bus }
