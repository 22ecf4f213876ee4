package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/ffencoder/backend/libav"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/handler"
)

var (
	loggerLevel  = logger.LevelWarning
	debugHandler bool
	hwThreads    int
)

var rootCmd = &cobra.Command{
	Use:           "ffencode",
	Short:         "Inspect and drive the FFmpeg encoders through the encoder engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		ctx, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		encoder.Finalize(cmd.Context())
		belt.Flush(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().Var(&loggerLevel, "log-level", "Log level")
	rootCmd.PersistentFlags().BoolVar(&debugHandler, "debug-handler", false, "attach the logging handler to encoders nobody wrote a handler for")
	rootCmd.PersistentFlags().IntVar(&hwThreads, "hardware-concurrency", 0, "override the detected amount of logical CPUs")
	rootCmd.AddCommand(newListCommand(), newDefaultsCommand(), newEncodeCommand())
}

func initEngine(ctx context.Context) (context.Context, error) {
	l := logrus.Default().WithLevel(loggerLevel)
	ctx = logger.CtxWithLogger(ctx, l)
	logger.Default = func() logger.Logger {
		return l
	}
	libav.RedirectLogs(ctx)

	opts := []encoder.Option{encoder.OptionHardwareConcurrency{Threads: hwThreads}}
	if debugHandler {
		opts = append(opts, encoder.OptionDebugHandler{Handler: handler.Debug{}})
	}
	if _, err := encoder.Initialize(ctx, libav.New(), handler.RegisterAll, opts...); err != nil {
		return ctx, fmt.Errorf("unable to initialize the encoders: %w", err)
	}
	return ctx, nil
}

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelFn()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
