package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/app"
	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"github.com/spf13/cobra"
)

func newBookingsCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect and manage test-drive bookings",
	}

	cmd.AddCommand(newBookingsListCmd(verbose))
	cmd.AddCommand(newBookingsCancelCmd(verbose))
	cmd.AddCommand(newBookingsRescheduleCmd(verbose))
	return cmd
}

func newBookingsListCmd(verbose *bool) *cobra.Command {
	var date, phone string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List confirmed bookings for a day, or all bookings of a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBookings(cmd, *verbose, func(bookings *service.BookingService) error {
				var result []model.Booking
				if phone != "" {
					result = bookings.BookingsByCustomer(phone)
				} else {
					if date == "" {
						date = time.Now().Format(service.DateLayout)
					}
					result = bookings.BookingsByDate(date)
				}
				printBookings(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to list (default today)")
	cmd.Flags().StringVar(&phone, "phone", "", "list every booking of this customer phone instead")
	return cmd
}

func newBookingsCancelCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToUpper(args[0])
			return withBookings(cmd, *verbose, func(bookings *service.BookingService) error {
				if err := bookings.CancelBooking(cmd.Context(), id); err != nil {
					return fmt.Errorf("cancel %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booking %s cancelled\n", id)
				return nil
			})
		},
	}
}

func newBookingsRescheduleCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <booking-id> <YYYY-MM-DD> <HH:MM>",
		Short: "Move a booking to another slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToUpper(args[0])
			return withBookings(cmd, *verbose, func(bookings *service.BookingService) error {
				booking, err := bookings.RescheduleBooking(cmd.Context(), id, args[1], args[2])
				if err != nil {
					return fmt.Errorf("reschedule %s: %s: %w", id, service.Reason(err), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booking %s moved to %s %s\n", booking.ID, booking.Date, booking.SlotStart)
				return nil
			})
		},
	}
}

func withBookings(cmd *cobra.Command, verbose bool, fn func(*service.BookingService) error) error {
	cfg, logger, err := loadRuntime(!verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	bookings, closeStore, err := app.OpenBookings(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(bookings)
}

func printBookings(out io.Writer, bookings []model.Booking) {
	if len(bookings) == 0 {
		fmt.Fprintln(out, "No bookings")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tVEHICLE\tCUSTOMER\tPHONE\tSTATUS")
	for _, b := range bookings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Date, b.SlotStart, b.Vehicle, b.Customer.Name, b.Customer.Phone, b.Status)
	}
	tw.Flush()
}
