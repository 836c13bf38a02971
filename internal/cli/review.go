package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/flashcards/internal/spaced_repetition"
	"github.com/example/flashcards/internal/study"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var playlistID string

	cmd := &cobra.Command{
		Use:   "review [card-id outcome]",
		Short: "Review cards interactively, or record one outcome (again, good, easy)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.New("expected no arguments or <card-id> <outcome>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				if len(args) == 2 {
					outcome, err := spaced_repetition.ParseOutcome(args[1])
					if err != nil {
						return err
					}
					card, err := study.ReviewCard(cmd.Context(), a.cards, args[0], outcome, time.Now())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s is due %s\n", card.Word, card.Progress.DueDate)
					return nil
				}

				session, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				if playlistID != "" {
					p, err := a.playlistService().Playlist(cmd.Context(), playlistID)
					if err != nil {
						return err
					}
					if _, err := session.Dispatch(cmd.Context(), study.SetFilter{Playlist: *p}); err != nil {
						return err
					}
				}
				return reviewLoop(cmd, session)
			})
		},
	}

	cmd.Flags().StringVarP(&playlistID, "playlist", "p", "", "Review only this playlist")
	return cmd
}

const reviewHelp = "[a]gain [g]ood [e]asy  [n]ext [p]revious  [j]ump N  [o] notes TEXT  [d]elete  [q]uit"

// reviewLoop reads one command per line and applies it to the session
func reviewLoop(cmd *cobra.Command, session *study.Session) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	printCurrent(out, session.State())
	for {
		fmt.Fprintf(out, "%s\n> ", reviewHelp)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")

		var command study.Command
		switch strings.ToLower(verb) {
		case "q", "quit":
			return nil
		case "a", "again":
			command = study.Review{Outcome: spaced_repetition.OutcomeAgain, Today: time.Now()}
		case "g", "good":
			command = study.Review{Outcome: spaced_repetition.OutcomeGood, Today: time.Now()}
		case "e", "easy":
			command = study.Review{Outcome: spaced_repetition.OutcomeEasy, Today: time.Now()}
		case "n", "next":
			command = study.Next{}
		case "p", "previous":
			command = study.Previous{}
		case "j", "jump":
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				fmt.Fprintln(out, "usage: j N")
				continue
			}
			command = study.JumpTo{Index: n - 1}
		case "o", "notes":
			command = study.SaveNotes{Notes: rest}
		case "d", "delete":
			command = study.Delete{Index: session.State().Nav.Index()}
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
			continue
		}

		state, err := session.Dispatch(cmd.Context(), command)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		printCurrent(out, state)
	}
}

func printCurrent(out io.Writer, state study.State) {
	card, ok := state.Current()
	if !ok {
		fmt.Fprintln(out, "No cards to review.")
		return
	}

	fmt.Fprintf(out, "\n[%s] %s", state.Nav.String(), card.Word)
	if len(card.POS) > 0 {
		fmt.Fprintf(out, " (%s)", strings.Join(card.POS.FullNames(), ", "))
	}
	fmt.Fprintln(out)
	if card.Definition != "" {
		fmt.Fprintf(out, "  %s\n", card.Definition)
	}
	if card.ExampleSentence != "" {
		fmt.Fprintf(out, "  e.g. %s\n", card.ExampleSentence)
	}
	if card.Notes != "" {
		fmt.Fprintf(out, "  notes: %s\n", card.Notes)
	}
	due := card.Progress.DueDate
	if due == "" {
		due = "new"
	}
	fmt.Fprintf(out, "  due: %s\n", due)
}
