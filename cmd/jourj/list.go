package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/display"
	"github.com/malotru/jourj/internal/filter"
)

var (
	listQuery   string
	listSurface string
	listActions bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming birthdays, soonest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := app.Store.All(cmd.Context())
		if err != nil {
			return err
		}

		rules := app.Settings.Rules()
		var sel filter.Selection
		switch listSurface {
		case config.SurfaceDrawer:
			sel = rules.Drawer
		case config.SurfaceNotifications:
			sel = rules.Notifications
		case config.SurfaceWidget:
			sel = rules.Widget
		default:
			return fmt.Errorf("%s: %q", config.ErrUnknownSurface, listSurface)
		}

		visible := filter.Visible(snapshot, sel, rules.Blocked, listQuery)

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(visible)
		}

		if len(visible) == 0 {
			fmt.Println("No upcoming birthdays.")
			return nil
		}

		display.Header(fmt.Sprintf("Upcoming birthdays (%d):", len(visible)))
		fmt.Println()
		for _, c := range visible {
			fmt.Println("  " + display.ContactLine(c))
			if listActions {
				if hints := display.ActionHints(c.Actions); hints != "" {
					fmt.Println(hints)
				}
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listQuery, "query", "", "Search by name (bypasses label selection, keeps global blocks)")
	listCmd.Flags().StringVar(&listSurface, "surface", config.SurfaceDrawer, "Surface whose filters apply: drawer, notifications, widget")
	listCmd.Flags().BoolVar(&listActions, "actions", false, "Show contact action hints (call, mail, messengers)")

	rootCmd.AddCommand(listCmd)
}
