package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/display"
	"github.com/malotru/jourj/internal/filter"
)

var labelsSurface string

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Show and edit which labels each surface displays",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := app.Store.All(cmd.Context())
		if err != nil {
			return err
		}

		sel, err := surfaceSelection(labelsSurface)
		if err != nil {
			return err
		}
		rules := app.Settings.Rules()
		universe := filter.Universe(snapshot)
		matrix := filter.Matrix(universe, sel, rules.Blocked)

		if flagJSON {
			out := make(map[string]string, len(matrix))
			for l, s := range matrix {
				out[l] = s.String()
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		if len(universe) == 0 {
			fmt.Println("No labels yet. Run 'jourj sync' first.")
			return nil
		}

		display.Header(fmt.Sprintf("Labels on %s:", labelsSurface))
		fmt.Println()
		for _, l := range universe {
			fmt.Printf("  %s %s\n", display.StateBadge(matrix[l]), l)
		}
		return nil
	},
}

// surfaceSelection resolves a surface name to its persisted selection.
func surfaceSelection(surface string) (filter.Selection, error) {
	switch surface {
	case config.SurfaceDrawer, config.SurfaceNotifications, config.SurfaceWidget:
		return app.Settings.Selection(surface), nil
	default:
		return filter.Selection{}, fmt.Errorf("%s: %q", config.ErrUnknownSurface, surface)
	}
}

// labelEdit builds a subcommand that applies one settings mutation to a label.
func labelEdit(use, short string, apply func(label string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <label>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apply(args[0]); err != nil {
				return err
			}
			if !flagQuiet {
				display.SuccessMsg("%s: %s", use, args[0])
			}
			return nil
		},
	}
}

func init() {
	labelsCmd.PersistentFlags().StringVar(&labelsSurface, "surface", config.SurfaceDrawer, "Surface to inspect or edit: drawer, notifications, widget")

	labelsCmd.AddCommand(
		labelEdit("select", "Show a label on the surface", func(l string) error {
			return app.Settings.Select(labelsSurface, l)
		}),
		labelEdit("deselect", "Stop showing a label on the surface", func(l string) error {
			return app.Settings.Deselect(labelsSurface, l)
		}),
		labelEdit("exclude", "Block a label on this surface only", func(l string) error {
			return app.Settings.Exclude(labelsSurface, l)
		}),
		labelEdit("unexclude", "Lift a surface-local block", func(l string) error {
			return app.Settings.Unexclude(labelsSurface, l)
		}),
		labelEdit("block", "Block a label everywhere", func(l string) error {
			return app.Settings.Block(l)
		}),
		labelEdit("unblock", "Lift a global block", func(l string) error {
			return app.Settings.Unblock(l)
		}),
	)

	rootCmd.AddCommand(labelsCmd)
}
