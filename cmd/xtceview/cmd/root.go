package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceXTCE/internal/config"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/cdl"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

var (
	// Global flags
	verbose    bool
	configFile string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "xtceview",
	Short: "Bit-layout diagrams for telemetry containers and telecommands",
	Long: `xtceview resolves container and telecommand definitions and draws the
bit layout of their parameters and arguments, left-to-right along a bit
timeline or top-to-bottom as a stacked column.

Examples:
  xtceview info testdata/ccsds.cdl                      # List containers
  xtceview info testdata/ccsds.cdl Housekeeping         # Show resolved content
  xtceview draw testdata/ccsds.cdl Housekeeping -o hk.png
  xtceview view testdata/ccsds.cdl                      # Open the viewer
  xtceview serve testdata/ccsds.cdl --addr :8080        # HTTP preview`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/xtceview/config.toml)")
}

func setup(cmd *cobra.Command, args []string) error {
	log.SetFormatter(&log.TextFormatter{DisableColors: true})
	log.SetOutput(os.Stderr)

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "config key %s", config.KeyLogLevel)
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	render.SetTheme(cfg.Theme)

	if cfg.File != "" {
		log.WithField("file", cfg.File).Debug("Config loaded")
	}
	return nil
}

// loadCatalog reads a model file, or every .cdl file below a directory.
func loadCatalog(path string) (*cdl.Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "open model")
	}
	var cat *cdl.Catalog
	if info.IsDir() {
		cat, err = cdl.LoadDir(path)
	} else {
		cat, err = cdl.Load(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	log.WithFields(log.Fields{"path": path, "blocks": cat.Len()}).Debug("Model loaded")
	return cat, nil
}
