package detector

import (
	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/metrics"
	"github.com/quantbay/smc/pkg/store"
	"github.com/quantbay/smc/pkg/types"
)

// Detector is a stateful per-bar pattern recognizer. OnBarClosed is called
// exactly once per closed bar in index order; purely event-driven
// detectors subscribe at construction and leave it a no-op.
type Detector interface {
	Name() string
	OnBarClosed(index int)
}

// publishLevel is the shared tail of every level detector: validate the
// geometry, reject duplicates, store, count and publish. It returns
// whether the level was stored. The dedup predicate guards re-entrant
// publishes: a detection event triggered by this publish can never mint
// the same level again.
func publishLevel(
	bus *events.Bus, levels *store.LevelRepository, lv *types.Level,
	dup func(*types.Level) bool,
) bool {
	if !lv.Valid() {
		log.Debugf("rejecting degenerate %s level [%f, %f]", lv.Type, lv.Low, lv.High)
		return false
	}

	if dup != nil && levels.Any(dup) {
		return false
	}

	levels.Add(lv)
	metrics.LevelsDetectedMetrics.WithLabelValues(string(lv.Type), lv.Direction.String()).Inc()

	bus.Publish(events.Event{
		Topic:     events.TopicLevelDetected,
		Index:     lv.AnchorIndex,
		Direction: lv.Direction,
		Level:     lv,
	})

	return true
}
