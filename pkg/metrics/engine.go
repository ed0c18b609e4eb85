package metrics

import "github.com/prometheus/client_golang/prometheus"

var BarsProcessedMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "smc_bars_processed_total",
		Help: "number of closed bars processed by the engine",
	})

var SwingPointsDetectedMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smc_swing_points_detected_total",
		Help: "number of confirmed swing points",
	}, []string{"direction"})

var SwingPointsSweptMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "smc_swing_points_swept_total",
		Help: "number of swing points swept by later candles",
	})

var LevelsDetectedMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smc_levels_detected_total",
		Help: "number of detected levels per pattern family",
	}, []string{"type", "direction"})

var StructureEventsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smc_structure_events_total",
		Help: "break of structure and change of character events",
	}, []string{"kind", "direction"})

var MarketBiasMetrics = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "smc_market_bias",
		Help: "current directional bias: 1 up, -1 down, 0 none",
	})

var DetectorFaultsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smc_detector_faults_total",
		Help: "recovered detector panics per detector",
	}, []string{"detector"})

func init() {
	prometheus.MustRegister(
		BarsProcessedMetrics,
		SwingPointsDetectedMetrics,
		SwingPointsSweptMetrics,
		LevelsDetectedMetrics,
		StructureEventsMetrics,
		MarketBiasMetrics,
		DetectorFaultsMetrics,
	)
}
