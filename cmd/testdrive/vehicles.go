package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/Freeeeeet/testdrive_bot/internal/repository"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"github.com/spf13/cobra"
)

func newVehiclesCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Inspect and manage the vehicle catalog",
	}

	cmd.AddCommand(newVehiclesFeaturedCmd(verbose))
	cmd.AddCommand(newVehiclesAvailabilityCmd(verbose))
	return cmd
}

func newVehiclesFeaturedCmd(verbose *bool) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "List the most expensive available vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			return withCatalog(*verbose, func(catalog *service.CatalogService) error {
				printVehicles(cmd.OutOrStdout(), catalog.Featured(count))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", dialogue.MaxCandidates, "how many vehicles to show")
	return cmd
}

func newVehiclesAvailabilityCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:       "availability <vehicle-id> on|off",
		Short:     "Offer or withdraw a vehicle for test drives",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var available bool
			switch args[1] {
			case "on":
				available = true
			case "off":
				available = false
			default:
				return fmt.Errorf("availability must be on or off, got %q", args[1])
			}

			id := args[0]
			return withCatalog(*verbose, func(catalog *service.CatalogService) error {
				if err := catalog.SetAvailability(id, available); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Vehicle %s availability: %s\n", id, args[1])
				return nil
			})
		},
	}
}

func withCatalog(verbose bool, fn func(*service.CatalogService) error) error {
	cfg, logger, err := loadRuntime(!verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog, err := service.NewCatalogService(repository.NewVehicleRepository(cfg.CatalogPath), logger)
	if err != nil {
		return err
	}
	return fn(catalog)
}

func printVehicles(out io.Writer, vehicles []model.Vehicle) {
	if len(vehicles) == 0 {
		fmt.Fprintln(out, "No vehicles")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVEHICLE\tYEAR\tTYPE\tPRICE")
	for _, v := range vehicles {
		fmt.Fprintf(tw, "%s\t%s %s\t%d\t%s\t%s\n",
			v.ID, v.Make, v.Model, v.Year, v.Type, dialogue.FormatPrice(v.Price))
	}
	tw.Flush()
}
