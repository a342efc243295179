package main

import (
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/malotru/jourj/internal/display"
	internalsync "github.com/malotru/jourj/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull a fresh birthday snapshot from the address book",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logStartupInfo()
		result := app.Orchestrator.Run(ctx, true)

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Status   string `json:"status"`
				Count    int    `json:"count"`
				Notified int    `json:"notified"`
				Error    string `json:"error,omitempty"`
			}{
				Status:   result.Status.String(),
				Count:    result.Count,
				Notified: result.Notified,
				Error:    errString(result.Err),
			})
		}

		switch result.Status {
		case internalsync.StatusSuccess:
			if !flagQuiet {
				display.SuccessMsg("Synced %d contacts (%d reminders sent)", result.Count, result.Notified)
			}
			return nil
		case internalsync.StatusSkipped:
			if !flagQuiet {
				display.SubHeader("Sync skipped: address book not readable")
			}
			return nil
		default:
			if result.Err != nil {
				return result.Err
			}
			return errors.New("sync failed")
		}
	},
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
