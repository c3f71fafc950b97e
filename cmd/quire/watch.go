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

	"github.com/aretw0/quire"
	sitelifecycle "github.com/aretw0/quire/pkg/adapters/lifecycle"
	"github.com/aretw0/quire/pkg/core"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print content changes as they happen (preview loops)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(
			quire.WithReadOnly(true),
			quire.WithWatcherErrorHandler(func(err error) {
				slog.Error("watcher failure", "error", err)
			}),
		)
		if err != nil {
			fatal("Failed to open site", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := svc.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		src := sitelifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		slog.Info("watching for changes", "pattern", watchPattern)
		for ev := range src.Events() {
			if e, ok := ev.(core.Event); ok {
				fmt.Printf("%s %s\n", time.Unix(e.Timestamp, 0).Format(time.TimeOnly), e)
				continue
			}
			fmt.Println(ev)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchPattern, "pattern", "p", "**", "Doublestar pattern relative to the site root")
}
