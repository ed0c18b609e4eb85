package csvsource

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/quantbay/smc/pkg/types"
)

// CSVCandleDecoder decodes a single CSV record into a candle.
type CSVCandleDecoder func(record []string) (types.Candle, error)

var ErrNotEnoughColumns = errors.New("not enough columns")
var ErrInvalidTimeFormat = errors.New("cannot parse time string")
var ErrInvalidPriceFormat = errors.New("cannot parse price string")

// BinanceCSVCandleDecoder decodes a record in the binance export format:
// unix open time (ms), open, high, low, close, ... trailing columns are
// ignored.
func BinanceCSVCandleDecoder(record []string) (types.Candle, error) {
	var c types.Candle

	if len(record) < 5 {
		return c, ErrNotEnoughColumns
	}

	msec, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return c, ErrInvalidTimeFormat
	}
	c.StartTime = time.UnixMilli(msec).UTC()

	prices := []*float64{&c.Open, &c.High, &c.Low, &c.Close}
	for i, p := range prices {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return c, ErrInvalidPriceFormat
		}
		*p = v
	}

	return c, nil
}

// RFC3339CSVCandleDecoder decodes a record with an RFC3339 timestamp in
// the first column: time, open, high, low, close.
func RFC3339CSVCandleDecoder(record []string) (types.Candle, error) {
	var c types.Candle

	if len(record) < 5 {
		return c, ErrNotEnoughColumns
	}

	t, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return c, ErrInvalidTimeFormat
	}
	c.StartTime = t

	prices := []*float64{&c.Open, &c.High, &c.Low, &c.Close}
	for i, p := range prices {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return c, ErrInvalidPriceFormat
		}
		*p = v
	}

	return c, nil
}
