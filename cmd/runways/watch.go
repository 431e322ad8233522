package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/runways/pkg/adapters/fs"
	"github.com/aretw0/runways/pkg/adapters/lifecycle"
	"github.com/aretw0/runways/pkg/core"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes to the data directory and connectivity until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		w := fs.NewWatcher(fs.WatcherConfig{
			Path:     app.Path,
			Debounce: watchDebounce,
			Logger:   slog.Default().With("component", "watcher"),
			ErrorHandler: func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			},
		})
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = w.Stop(stopCtx)
		}()

		inputs := []<-chan core.Event{w.Events()}
		if !offline {
			m := newMonitor()
			online, unsubscribe := m.Subscribe()
			defer unsubscribe()
			if err := m.Start(ctx); err != nil {
				return err
			}
			defer m.Stop()
			inputs = append(inputs, online)
		}

		source := lifecycle.NewSource(inputs...)
		if err := source.Start(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", app.Path)
		for e := range source.Events() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", time.Now().Format(time.TimeOnly), e)
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", fs.DefaultDebounce, "Quiet period before a change is reported")
	rootCmd.AddCommand(watchCmd)
}
