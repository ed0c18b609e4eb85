package binance

import (
	"context"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/quantbay/smc/pkg/types"
)

// Feed adapts binance klines to the engine's candle source contract: a
// REST backfill plus a websocket stream of closed bars.
type Feed struct {
	client   *binance.Client
	symbol   string
	interval string
}

func NewFeed(client *binance.Client, symbol, interval string) *Feed {
	return &Feed{
		client:   client,
		symbol:   symbol,
		interval: interval,
	}
}

// Backfill fetches the most recent closed klines, oldest first.
func (f *Feed) Backfill(ctx context.Context, limit int) ([]types.Candle, error) {
	resp, err := f.client.NewKlinesService().
		Symbol(f.symbol).
		Interval(f.interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "can not query %s %s klines", f.symbol, f.interval)
	}

	candles := make([]types.Candle, 0, len(resp))
	for _, k := range resp {
		c, err := convertKline(k.OpenTime, k.Open, k.High, k.Low, k.Close)
		if err != nil {
			return nil, err
		}

		candles = append(candles, c)
	}

	// the last kline may still be open
	if len(candles) > 0 {
		candles = candles[:len(candles)-1]
	}

	return candles, nil
}

// Stream subscribes to the kline websocket and invokes the handler for
// every closed bar until the context is cancelled.
func (f *Feed) Stream(ctx context.Context, handler func(c types.Candle)) error {
	wsHandler := func(event *binance.WsKlineEvent) {
		if event == nil || !event.Kline.IsFinal {
			return
		}

		k := event.Kline
		c, err := convertKline(k.StartTime, k.Open, k.High, k.Low, k.Close)
		if err != nil {
			log.WithError(err).Errorf("dropping malformed kline event")
			return
		}

		handler(c)
	}

	errHandler := func(err error) {
		log.WithError(err).Errorf("binance kline stream error")
	}

	doneC, stopC, err := binance.WsKlineServe(f.symbol, f.interval, wsHandler, errHandler)
	if err != nil {
		return errors.Wrapf(err, "can not subscribe %s %s klines", f.symbol, f.interval)
	}

	select {
	case <-ctx.Done():
		close(stopC)
		<-doneC
		return ctx.Err()

	case <-doneC:
		return nil
	}
}

func convertKline(openTimeMsec int64, open, high, low, closePrice string) (types.Candle, error) {
	var c types.Candle
	c.StartTime = time.UnixMilli(openTimeMsec).UTC()

	fields := []struct {
		src string
		dst *float64
	}{
		{open, &c.Open},
		{high, &c.High},
		{low, &c.Low},
		{closePrice, &c.Close},
	}

	for _, fld := range fields {
		v, err := strconv.ParseFloat(fld.src, 64)
		if err != nil {
			return c, errors.Wrapf(err, "can not parse kline price %q", fld.src)
		}
		*fld.dst = v
	}

	return c, nil
}
