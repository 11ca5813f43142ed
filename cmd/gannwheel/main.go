package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantgeo/gannwheel/internal/config"
	"github.com/quantgeo/gannwheel/internal/storage/archive"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "gannwheel",
	Short: "Gann price-time geometry and volume-price analysis",
	Long: `gannwheel derives trading signals from daily OHLCV series using
Gann square-of-nine geometry, time cycles and volume-price relationships.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

// loadConfig reads the config file when one is given, otherwise falls
// back to defaults. The result is always validated.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// newArchiver builds the configured archive backend, or nil when
// archiving is disabled.
func newArchiver(cfg *config.Config) (*archive.Archiver, error) {
	if !cfg.Storage.Archive.Enabled {
		return nil, nil
	}

	switch cfg.Storage.Archive.Type {
	case "localfs":
		fs, err := archive.NewLocalFS(cfg.Storage.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("creating localfs archive: %w", err)
		}
		return archive.NewArchiver(fs), nil
	case "s3":
		s3cfg := cfg.Storage.Archive.S3
		store, err := archive.NewS3(archive.S3Config{
			Bucket:    s3cfg.Bucket,
			Endpoint:  s3cfg.Endpoint,
			Region:    s3cfg.Region,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			Prefix:    s3cfg.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("creating s3 archive: %w", err)
		}
		return archive.NewArchiver(store), nil
	default:
		return nil, fmt.Errorf("unknown archive type %q", cfg.Storage.Archive.Type)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
