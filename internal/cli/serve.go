package cli

import (
	"github.com/example/flashcards/internal/ai"
	"github.com/example/flashcards/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API and the daily reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				runCtx := cmd.Context()

				session, err := a.session(runCtx)
				if err != nil {
					return err
				}
				quizzes, err := a.quizModule()
				if err != nil {
					return err
				}
				deps := server.Deps{
					Session:   session,
					Playlists: a.playlistService(),
					Quizzes:   quizzes,
					Importer:  a.importer(),
				}
				client, err := a.optionalAIClient()
				if err != nil {
					return err
				}
				if client != nil {
					deps.Analyzer = ai.NewImageAnalyzer(client)
					deps.Assistant = ai.NewAssistant(client)
				} else {
					a.logger.Warn("AI features disabled, set an OpenAI API key to enable them")
				}

				if a.cfg.Reminder.Enabled {
					reminder, err := a.reminder()
					if err != nil {
						return err
					}
					if err := reminder.Start(); err != nil {
						return err
					}
					defer reminder.Stop()
				}

				if addr == "" {
					addr = a.cfg.Server.Addr
				}
				return server.New(deps, a.logger).Run(runCtx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
