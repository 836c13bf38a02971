package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/example/flashcards/internal/ai"
	"github.com/example/flashcards/internal/study"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Find English words in a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			return ctx.withApp(func(a *app) error {
				client, err := a.aiClient()
				if err != nil {
					return err
				}
				candidates, err := ai.NewImageAnalyzer(client).Analyze(cmd.Context(), image)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(candidates))
				for _, c := range candidates {
					rows = append(rows, []string{c.Word, strings.Join(c.POS.FullNames(), ", "), c.Definition})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Word", "POS", "Definition"}, rows, nil, ""))
				if !add {
					return nil
				}

				cards := study.CardsFromCandidates(candidates, image, http.DetectContentType(image), uuid.NewString, time.Now().UTC())
				session, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				if _, err := session.Dispatch(cmd.Context(), study.AddCards{Cards: cards}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d cards\n", len(cards))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "Add every recognized word as a card")
	return cmd
}

func newAskCommand(ctx *commandContext) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the dictionary assistant about a word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				client, err := a.aiClient()
				if err != nil {
					return err
				}
				reply, err := ai.NewAssistant(client).Ask(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				if asHTML {
					fmt.Fprintln(cmd.OutOrStdout(), reply.HTML)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), reply.Markdown)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the answer as HTML")
	return cmd
}
