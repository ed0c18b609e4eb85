package cmd

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/adshao/go-binance/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantbay/smc/pkg/config"
	binancesource "github.com/quantbay/smc/pkg/datasource/binance"
	"github.com/quantbay/smc/pkg/engine"
	"github.com/quantbay/smc/pkg/notifier"
	"github.com/quantbay/smc/pkg/notifier/slacknotifier"
	"github.com/quantbay/smc/pkg/types"
)

func init() {
	StreamCmd.Flags().String("symbol", "BTCUSDT", "binance symbol")
	StreamCmd.Flags().String("interval", "1m", "kline interval")
	StreamCmd.Flags().Int("backfill", 500, "number of historical bars to backfill")
	StreamCmd.Flags().String("metrics-bind", "", "prometheus bind address, e.g. :9090")
	RootCmd.AddCommand(StreamCmd)
}

var StreamCmd = &cobra.Command{
	Use:   "stream",
	Short: "run the engine on live binance klines",

	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}

		interval, err := cmd.Flags().GetString("interval")
		if err != nil {
			return err
		}

		backfill, err := cmd.Flags().GetInt("backfill")
		if err != nil {
			return err
		}

		settings, err := config.Load(viper.GetString("config"))
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		e := engine.New(settings)

		if token := viper.GetString("slack-token"); token != "" {
			n := slacknotifier.New(slack.New(token), viper.GetString("slack-channel"))
			notifier.Bind(e.Events(), n)
			log.Infof("slack notifications enabled")
		}

		if bind, _ := cmd.Flags().GetString("metrics-bind"); bind != "" {
			go serveMetrics(bind)
		}

		feed := binancesource.NewFeed(binance.NewClient("", ""), symbol, interval)

		candles, err := feed.Backfill(ctx, backfill)
		if err != nil {
			return err
		}

		for _, c := range candles {
			if err := e.ProcessBar(c); err != nil {
				log.WithError(err).Warnf("detector faults on backfill bar %d", e.Candles().Len()-1)
			}
		}

		log.Infof("backfilled %d bars for %s %s, bias: %s",
			e.Candles().Len(), symbol, interval, e.Structure().Bias())

		return feed.Stream(ctx, func(c types.Candle) {
			if err := e.ProcessBar(c); err != nil {
				log.WithError(err).Warnf("detector faults on bar %d", e.Candles().Len()-1)
			}
		})
	},
}

func serveMetrics(bind string) {
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(bind, nil); err != nil {
		log.WithError(err).Errorf("metrics server error")
	}
}
