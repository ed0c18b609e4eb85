package csvsource

import (
	"encoding/csv"
	"io"

	"github.com/quantbay/smc/pkg/types"
)

// CandleReader is the offline candle source contract.
type CandleReader interface {
	Read() (types.Candle, error)
	ReadAll() ([]types.Candle, error)
}

var _ CandleReader = (*CSVCandleReader)(nil)

// CSVCandleReader reads candles from CSV data. Candle sequence indexes are
// assigned by the candle store on ingestion, not by the reader.
type CSVCandleReader struct {
	csv     *csv.Reader
	decoder CSVCandleDecoder
}

// NewCSVCandleReader creates a reader with the default binance decoder.
func NewCSVCandleReader(csv *csv.Reader) *CSVCandleReader {
	return &CSVCandleReader{
		csv:     csv,
		decoder: BinanceCSVCandleDecoder,
	}
}

// NewCSVCandleReaderWithDecoder creates a reader with the given decoder.
func NewCSVCandleReaderWithDecoder(csv *csv.Reader, decoder CSVCandleDecoder) *CSVCandleReader {
	return &CSVCandleReader{
		csv:     csv,
		decoder: decoder,
	}
}

// Read reads the next candle from the underlying CSV data.
func (r *CSVCandleReader) Read() (types.Candle, error) {
	rec, err := r.csv.Read()
	if err != nil {
		return types.Candle{}, err
	}

	return r.decoder(rec)
}

// ReadAll reads the remaining candles from the underlying CSV data.
func (r *CSVCandleReader) ReadAll() ([]types.Candle, error) {
	var cs []types.Candle
	for {
		c, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}

	return cs, nil
}
