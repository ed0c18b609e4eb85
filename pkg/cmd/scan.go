package cmd

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantbay/smc/pkg/config"
	"github.com/quantbay/smc/pkg/datasource/csvsource"
	"github.com/quantbay/smc/pkg/engine"
	"github.com/quantbay/smc/pkg/types"
)

func init() {
	ScanCmd.Flags().String("file", "", "CSV candle file (binance export format)")
	ScanCmd.Flags().Bool("rfc3339", false, "parse the first column as RFC3339 instead of unix ms")
	RootCmd.AddCommand(ScanCmd)
}

var ScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "run the engine over a CSV candle file and print the detected patterns",

	RunE: func(cmd *cobra.Command, args []string) error {
		filename, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}
		if filename == "" {
			return errors.New("--file is required")
		}

		settings, err := config.Load(viper.GetString("config"))
		if err != nil {
			return err
		}

		f, err := os.Open(filename)
		if err != nil {
			return errors.Wrapf(err, "can not open candle file %s", filename)
		}
		defer f.Close()

		decoder := csvsource.BinanceCSVCandleDecoder
		if ok, _ := cmd.Flags().GetBool("rfc3339"); ok {
			decoder = csvsource.RFC3339CSVCandleDecoder
		}

		reader := csvsource.NewCSVCandleReaderWithDecoder(csv.NewReader(f), decoder)
		candles, err := reader.ReadAll()
		if err != nil {
			return errors.Wrap(err, "can not read candles")
		}

		e := engine.New(settings)
		for _, c := range candles {
			if err := e.ProcessBar(c); err != nil {
				log.WithError(err).Warnf("detector faults on bar %d", e.Candles().Len()-1)
			}
		}

		log.Infof("processed %d bars, bias: %s", e.Candles().Len(), e.Structure().Bias())

		printSwingPoints(e)
		printLevels(e)
		return nil
	},
}

func printSwingPoints(e *engine.Engine) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Bar", "Dir", "Price", "Mark", "Swept", "Swept By"})

	for _, p := range e.SwingPoints().All() {
		sweptBy := "-"
		if p.Swept {
			sweptBy = strconv.Itoa(p.SweptIndex)
		}
		t.AppendRow(table.Row{p.Index, p.Direction, p.Price, p.Mark, p.Swept, sweptBy})
	}

	t.Render()
}

func printLevels(e *engine.Engine) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Dir", "Low", "High", "Anchor", "Confirmed", "Activated", "Active"})

	for _, kind := range []types.LevelType{
		types.LevelFVG,
		types.LevelOrderBlock,
		types.LevelBreakerBlock,
		types.LevelRejectionBlock,
		types.LevelOrderFlow,
		types.LevelCISD,
		types.LevelUnicorn,
	} {
		for _, lv := range e.Levels().ByType(kind) {
			t.AppendRow(table.Row{
				lv.Type, lv.Direction, lv.Low, lv.High, lv.AnchorIndex,
				lv.Confirmed, lv.Activated, lv.IsActive(),
			})
		}
	}

	t.Render()
}
