package main

import (
	"github.com/Freeeeeet/testdrive_bot/internal/app"
	"github.com/Freeeeeet/testdrive_bot/internal/controller"
	"github.com/Freeeeeet/testdrive_bot/internal/controller/state"
	"github.com/spf13/cobra"
)

func newChatCmd(verbose *bool) *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(!*verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			chat := controller.NewConsoleChat(svc.Engine, state.NewManager(0), logger)
			return chat.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), phone)
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "contact phone used for bookings made in this chat")
	return cmd
}
