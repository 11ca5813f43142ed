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

	"github.com/quantgeo/gannwheel/internal/batch"
	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/loader"
	"github.com/quantgeo/gannwheel/internal/logger"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

var (
	batchWorkers int
	batchOutput  string
)

var batchCmd = &cobra.Command{
	Use:   "batch [csv-dir]",
	Short: "Analyze every CSV file in a directory",
	Long: `Run both engines over every *.csv file in a directory. Each file is
one symbol, named after the file. Failures are reported per symbol and
never abort the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "analysis workers (0 = one per CPU)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write report JSON to file instead of stdout")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	dir := args[0]
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no CSV files in %s", dir)
	}

	barsBySymbol := make(map[string][]core.Bar, len(paths))
	for _, path := range paths {
		symbol := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		bars, err := loader.LoadCSV(path)
		if err != nil {
			log.Warn("skipping file", zap.String("path", path), zap.Error(err))
			continue
		}
		barsBySymbol[symbol] = bars
	}
	if len(barsBySymbol) == 0 {
		return fmt.Errorf("no loadable CSV files in %s", dir)
	}

	gannAnalyzer, err := gann.NewAnalyzer(cfg.Analysis.Gann)
	if err != nil {
		return err
	}
	volAnalyzer, err := volprice.NewAnalyzer(cfg.Analysis.VolumePrice)
	if err != nil {
		return err
	}

	workers := batchWorkers
	if workers == 0 {
		workers = cfg.Batch.Workers
	}
	coordinator := batch.NewCoordinator(gannAnalyzer, volAnalyzer, cfg.Analysis.Gann.TimeCycles, workers, log)

	ctx := context.Background()
	report := coordinator.Run(ctx, core.PeriodDaily, barsBySymbol)

	if archiver, err := newArchiver(cfg); err != nil {
		return err
	} else if archiver != nil {
		for _, item := range report.Items {
			if item.Err != nil {
				continue
			}
			if err := archiver.Save(ctx, item.Gann, item.VolumePrice); err != nil {
				log.Warn("archiving result", zap.String("symbol", item.Symbol), zap.Error(err))
			}
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	out = append(out, '\n')

	if batchOutput != "" {
		return os.WriteFile(batchOutput, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
