package csvsource

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinanceCSVCandleDecoder(t *testing.T) {
	c, err := BinanceCSVCandleDecoder([]string{"1609459200000", "100", "110", "90", "105", "1234.5"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), c.StartTime)
	assert.Equal(t, 100.0, c.Open)
	assert.Equal(t, 110.0, c.High)
	assert.Equal(t, 90.0, c.Low)
	assert.Equal(t, 105.0, c.Close)
}

func TestBinanceCSVCandleDecoderErrors(t *testing.T) {
	_, err := BinanceCSVCandleDecoder([]string{"1609459200000", "100", "110"})
	assert.Equal(t, ErrNotEnoughColumns, err)

	_, err = BinanceCSVCandleDecoder([]string{"not-a-time", "100", "110", "90", "105"})
	assert.Equal(t, ErrInvalidTimeFormat, err)

	_, err = BinanceCSVCandleDecoder([]string{"1609459200000", "x", "110", "90", "105"})
	assert.Equal(t, ErrInvalidPriceFormat, err)
}

func TestRFC3339CSVCandleDecoder(t *testing.T) {
	c, err := RFC3339CSVCandleDecoder([]string{"2021-01-01T00:00:00Z", "100", "110", "90", "105"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), c.StartTime)
	assert.Equal(t, 105.0, c.Close)

	_, err = RFC3339CSVCandleDecoder([]string{"1609459200000", "100", "110", "90", "105"})
	assert.Equal(t, ErrInvalidTimeFormat, err)
}

func TestCSVCandleReaderReadAll(t *testing.T) {
	data := strings.Join([]string{
		"1609459200000,100,110,90,105",
		"1609459260000,105,115,95,110",
	}, "\n")

	reader := NewCSVCandleReader(csv.NewReader(strings.NewReader(data)))
	candles, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, candles, 2)
	assert.Equal(t, 105.0, candles[0].Close)
	assert.Equal(t, 110.0, candles[1].Close)
	assert.True(t, candles[1].StartTime.After(candles[0].StartTime))
}

func TestCSVCandleReaderWithDecoder(t *testing.T) {
	data := "2021-01-01T00:00:00Z,100,110,90,105"

	reader := NewCSVCandleReaderWithDecoder(csv.NewReader(strings.NewReader(data)), RFC3339CSVCandleDecoder)
	candles, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, candles, 1)
	assert.Equal(t, 100.0, candles[0].Open)
}

func TestCSVCandleReaderBadRow(t *testing.T) {
	data := "1609459200000,100,110,90,oops"

	reader := NewCSVCandleReader(csv.NewReader(strings.NewReader(data)))
	_, err := reader.ReadAll()
	assert.Equal(t, ErrInvalidPriceFormat, err)
}
