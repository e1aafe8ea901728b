package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewRoot builds the vp8play command tree.
func NewRoot(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:   "vp8play",
		Short: "decode a VP8 bitstream to raw YUV frames",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
	}
	root.AddCommand(NewDecodeCmd())

	pf := root.PersistentFlags()
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "rotate logs to this file instead of stderr")
	return root
}

func setupLogging(cmd *cobra.Command) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFile, _ := cmd.Flags().GetString("log-file")

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		level = slog.LevelInfo
	}

	var w = os.Stderr
	var handler slog.Handler
	if logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handler = slog.NewJSONHandler(lj, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))

	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		slog.Warn("invalid log level, defaulting to INFO", "level", logLevel)
	}
	return nil
}
