package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yafaray-go/yafaray/pkg/log"
)

var (
	logLevel string
	logger   *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "yafaray-go",
	Short: "Physically-based offline renderer",
	Long: `yafaray-go renders scene descriptions with a tiled, progressively
refining Monte-Carlo path tracer and can inspect the photon maps its
photon-mapping integrators write to disk.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			level = zerolog.InfoLevel
		}
		logger = log.New(os.Stderr, level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
