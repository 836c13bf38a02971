package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/flashcards/internal/spaced_repetition"
	"github.com/example/flashcards/internal/study"
	"github.com/example/flashcards/pkg/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	var playlistID string
	var dueOnly bool
	var search string

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List cards in study order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				all, err := a.cards.GetAll(cmd.Context())
				if err != nil {
					return err
				}

				var filter *models.Playlist
				if playlistID != "" {
					if filter, err = a.playlistService().Playlist(cmd.Context(), playlistID); err != nil {
						return err
					}
				}

				listed := all
				if search != "" {
					if listed, err = study.SearchCards(cmd.Context(), a.cards, search); err != nil {
						return err
					}
				}

				today := time.Now()
				active := study.SelectActiveSet(listed, filter)
				if dueOnly {
					active = spaced_repetition.DueCards(active, today)
				}

				stats := spaced_repetition.Statistics(all, today)
				caption := fmt.Sprintf("%d cards, %d due today, %d new", stats.Total, stats.DueToday, stats.Unseen)
				fmt.Fprintln(cmd.OutOrStdout(), renderCards(active, caption))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&playlistID, "playlist", "p", "", "Only list cards of this playlist, in playlist order")
	cmd.Flags().BoolVar(&dueOnly, "due", false, "Only list cards due today")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list cards whose word or definition contains this text")

	cmd.AddCommand(newCardsAddCommand(ctx))
	cmd.AddCommand(newCardsDeleteCommand(ctx))
	return cmd
}

func renderCards(cards []models.Card, caption string) string {
	rows := make([][]string, 0, len(cards))
	for i, c := range cards {
		due := c.Progress.DueDate
		if due == "" {
			due = "new"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.ID,
			c.Word,
			strings.Join(c.POS.FullNames(), ", "),
			c.Definition,
			due,
		})
	}
	headers := []string{"#", "ID", "Word", "POS", "Definition", "Due"}
	return renderTable(headers, rows, []columnAlignment{alignRight}, caption)
}

func newCardsAddCommand(ctx *commandContext) *cobra.Command {
	var card models.Card
	var pos string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			card.ID = uuid.NewString()
			card.Word = strings.TrimSpace(card.Word)
			card.CreatedAt = time.Now().UTC()
			for _, tag := range strings.Split(pos, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					card.POS = append(card.POS, tag)
				}
			}

			return ctx.withApp(func(a *app) error {
				session, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				if _, err := session.Dispatch(cmd.Context(), study.AddCard{Card: card}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", card.Word, card.ID)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&card.Word, "word", "w", "", "The word")
	flags.StringVar(&pos, "pos", "", "Parts of speech, comma separated (n, v, adj, adv)")
	flags.StringVarP(&card.Definition, "definition", "d", "", "Definition")
	flags.StringVarP(&card.ExampleSentence, "example", "e", "", "Example sentence")
	flags.StringVar(&card.ZhTraditional, "zh", "", "Traditional Chinese translation")
	flags.StringVar(&card.AudioUK, "audio-uk", "", "URL of the UK pronunciation audio")
	flags.StringVar(&card.AudioUS, "audio-us", "", "URL of the US pronunciation audio")
	flags.StringVar(&card.Notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("word")
	return cmd
}

func newCardsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card. Playlists keep their reference.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if _, err := a.cards.Get(cmd.Context(), args[0]); err != nil {
					return err
				}
				if err := a.cards.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
