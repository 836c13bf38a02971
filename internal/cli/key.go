package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKeyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the saved OpenAI API key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <api-key>",
		Short: "Save the API key in local storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				local, err := a.localStore()
				if err != nil {
					return err
				}
				if err := local.SetAPIKey(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key saved")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved API key, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				local, err := a.localStore()
				if err != nil {
					return err
				}
				key, err := local.APIKey()
				if err != nil {
					return err
				}
				if key == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No API key saved")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), maskKey(key))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the saved API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				local, err := a.localStore()
				if err != nil {
					return err
				}
				if err := local.SetAPIKey(""); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
				return nil
			})
		},
	})
	return cmd
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "********"
	}
	return key[:3] + "..." + key[len(key)-4:]
}
