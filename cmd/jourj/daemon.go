package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/scheduler"
	"github.com/malotru/jourj/internal/view"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background service: feed server, daily resync, reminder alarm",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logStartupInfo()

		model := view.NewModel(app.Store, app.Settings)

		resync := func(ctx context.Context) {
			app.Orchestrator.Run(ctx, false)
			model.Poke()
		}

		// Initial background sync so the feed has content right away.
		resync(ctx)

		daily := &scheduler.Daily{
			Settings: app.Settings,
			Guard:    scheduler.AlwaysAllow{},
			Job:      resync,
		}
		alarm := &scheduler.Alarm{
			Clock:    contacts.RealClock{},
			Settings: app.Settings,
			Fire:     resync,
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return app.FeedServer.Start(ctx) })
		g.Go(func() error { return model.Run(ctx) })
		g.Go(func() error { return daily.Start(ctx) })
		g.Go(func() error {
			alarm.Start(ctx)
			return nil
		})
		// Filter changes re-render the widget feed without waiting for the
		// next sync.
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case _, ok := <-model.Updates():
					if !ok {
						return nil
					}
					_ = app.Refresher.Refresh(ctx)
				}
			}
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
