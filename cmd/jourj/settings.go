package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malotru/jourj/internal/addrbook"
	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/display"
)

var (
	setNotifyHour  int
	setNotifyMin   int
	setLeadDays    []int
	setWidgetCount int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show notification and widget settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		hour, minute := app.Settings.NotifyTime()
		out := struct {
			NotifyHour   int   `json:"notify_hour"`
			NotifyMinute int   `json:"notify_minute"`
			LeadDays     []int `json:"lead_days"`
			WidgetCount  int   `json:"widget_count"`
		}{hour, minute, app.Settings.LeadDays(), app.Settings.WidgetCount()}

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		display.Header("Settings:")
		fmt.Printf("  notify time   %02d:%02d\n", out.NotifyHour, out.NotifyMinute)
		fmt.Printf("  lead days     %v\n", out.LeadDays)
		fmt.Printf("  widget count  %d\n", out.WidgetCount)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change notification and widget settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("hour") {
			if err := app.Settings.SetInt(config.KeyNotifyHour, setNotifyHour); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("minute") {
			if err := app.Settings.SetInt(config.KeyNotifyMin, setNotifyMin); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("lead-days") {
			if err := app.Settings.SetIntSet(config.KeyLeadDays, setLeadDays); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("widget-count") {
			if err := app.Settings.SetInt(config.KeyWidgetCount, setWidgetCount); err != nil {
				return err
			}
		}
		if !flagQuiet {
			display.SuccessMsg("Settings updated")
		}
		return nil
	},
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password <password>",
	Short: "Store the web address book password in the OS keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := addrbook.StoreWebPassword(args[0]); err != nil {
			return err
		}
		if !flagQuiet {
			display.SuccessMsg("Password stored in keyring")
		}
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().IntVar(&setNotifyHour, "hour", config.DefaultNotifyHour, "Notification hour (0-23)")
	settingsSetCmd.Flags().IntVar(&setNotifyMin, "minute", config.DefaultNotifyMin, "Notification minute (0-59)")
	settingsSetCmd.Flags().IntSliceVar(&setLeadDays, "lead-days", config.DefaultLeadDays, "Days before a birthday to remind on")
	settingsSetCmd.Flags().IntVar(&setWidgetCount, "widget-count", config.DefaultWidgetCount, "Maximum entries in the widget feed")

	settingsCmd.AddCommand(settingsSetCmd, setPasswordCmd)
	rootCmd.AddCommand(settingsCmd)
}
