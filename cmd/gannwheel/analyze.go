package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/loader"
	"github.com/quantgeo/gannwheel/internal/logger"
	"github.com/quantgeo/gannwheel/internal/series"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

var (
	analyzeSymbol string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [csv-file]",
	Short: "Analyze one symbol from a CSV file",
	Long: `Run both engines over a daily OHLCV CSV file and print the combined
result as JSON. Columns: date,open,high,low,close,volume[,amount].`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSymbol, "symbol", "", "symbol name (defaults to the file name)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write JSON to file instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
}

// combinedResult is the CLI output shape for one symbol.
type combinedResult struct {
	Symbol      string           `json:"symbol"`
	Gann        *gann.Result     `json:"gann"`
	VolumePrice *volprice.Result `json:"volume_price"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	path := args[0]
	symbol := analyzeSymbol
	if symbol == "" {
		symbol = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	bars, err := loader.LoadCSV(path)
	if err != nil {
		return err
	}

	minBars := series.MinBars(cfg.Analysis.Gann.TimeCycles)
	s, err := series.Validate(symbol, core.PeriodDaily, bars, minBars)
	if err != nil {
		return err
	}

	gannAnalyzer, err := gann.NewAnalyzer(cfg.Analysis.Gann)
	if err != nil {
		return err
	}
	volAnalyzer, err := volprice.NewAnalyzer(cfg.Analysis.VolumePrice)
	if err != nil {
		return err
	}

	gr, err := gannAnalyzer.Analyze(s)
	if err != nil {
		return fmt.Errorf("gann analysis: %w", err)
	}
	vr, err := volAnalyzer.Analyze(s)
	if err != nil {
		return fmt.Errorf("volume-price analysis: %w", err)
	}

	if archiver, err := newArchiver(cfg); err != nil {
		return err
	} else if archiver != nil {
		if err := archiver.Save(context.Background(), gr, vr); err != nil {
			log.Warn("archiving result", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	out, err := json.MarshalIndent(combinedResult{
		Symbol:      symbol,
		Gann:        gr,
		VolumePrice: vr,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	out = append(out, '\n')

	if analyzeOutput != "" {
		return os.WriteFile(analyzeOutput, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
