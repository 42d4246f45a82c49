package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "deckd",
	Short: "Presentation editing server with slide history, layouts, and export",
	Long: `Deckd hosts presentation documents: slide CRUD with undo/redo history,
layout templates, a canvas gesture engine for drag/resize/crop, rich text,
real-time collaboration, and export to image and document formats.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".deckd.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the process logger. The verbose flag wins over the
// configured level.
func newLogger(level string) (*zap.Logger, error) {
	if verbose {
		level = "debug"
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
