package main

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/app"
	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"github.com/spf13/cobra"
)

func newSlotsCmd(verbose *bool) *cobra.Command {
	var vehicleID string

	cmd := &cobra.Command{
		Use:   "slots [YYYY-MM-DD]",
		Short: "List free test-drive times for a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().Format(service.DateLayout)
			if len(args) == 1 {
				date = args[0]
			}
			if _, err := service.ParseDate(date); err != nil {
				return err
			}

			cfg, logger, err := loadRuntime(!*verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			bookings, closeStore, err := app.OpenBookings(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			free := bookings.AvailableSlots(date, vehicleID)
			if len(free) == 0 {
				fmt.Fprintf(out, "No free times on %s\n", dialogue.FormatDate(date))
				return nil
			}

			fmt.Fprintf(out, "Free times on %s (%d):\n", dialogue.FormatDate(date), len(free))
			for _, slot := range free {
				fmt.Fprintf(out, "  %s\n", slot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "vehicle id; empty shows times free for every vehicle")
	return cmd
}
