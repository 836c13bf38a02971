package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "playlist",
		Aliases: []string{"playlists"},
		Short:   "Manage playlists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				playlists, err := a.playlistService().Playlists(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(playlists))
				for _, p := range playlists {
					rows = append(rows, []string{p.ID, p.Name, strconv.Itoa(len(p.Cards))})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Cards"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}, ""))
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				p, err := a.playlistService().CreatePlaylist(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %q (%s)\n", p.Name, p.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <playlist-id>",
		Short: "Delete a playlist, keeping its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.playlistService().DeletePlaylist(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted playlist %s\n", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <playlist-id>",
		Short: "List the cards of a playlist in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				svc := a.playlistService()
				p, err := svc.Playlist(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cards, err := svc.PlaylistCards(cmd.Context(), p.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCards(cards, p.Name))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <playlist-id> <card-id>",
		Short: "Add a card to a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				svc := a.playlistService()
				if _, err := svc.Playlist(cmd.Context(), args[0]); err != nil {
					return err
				}
				if _, err := a.cards.Get(cmd.Context(), args[1]); err != nil {
					return err
				}
				membership, err := svc.Membership(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				membership[args[0]] = true
				if err := svc.SetMembership(cmd.Context(), args[1], membership); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", args[1], args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <playlist-id> <card-id>",
		Short: "Remove a card from a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if err := a.playlistService().RemoveFromPlaylist(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], args[0])
				return nil
			})
		},
	})

	return cmd
}
