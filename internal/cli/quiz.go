package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/flashcards/internal/quiz"
	"github.com/example/flashcards/pkg/models"
	"github.com/spf13/cobra"
)

func newQuizCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take a generated multiple-choice quiz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				m, err := a.quizModule()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Generating quiz...")
				q, err := m.Start(cmd.Context())
				if err != nil {
					return err
				}
				return runQuiz(cmd, q)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "List past quiz scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				m, err := a.quizModule()
				if err != nil {
					return err
				}
				results, err := m.History(cmd.Context())
				if err != nil {
					return err
				}
				summary, err := m.Summary(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{
						r.CreatedAt.Local().Format("2006-01-02 15:04"),
						fmt.Sprintf("%d/%d", r.Correct, r.Total),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Taken", "Score"}, rows, []columnAlignment{alignLeft, alignRight}, historyCaption(summary)))
				return nil
			})
		},
	})
	return cmd
}

func historyCaption(s models.QuizSummary) string {
	if s.Quizzes == 0 {
		return "no quizzes taken yet"
	}
	return fmt.Sprintf("%d quizzes, %d/%d correct (%.0f%%), best %d", s.Quizzes, s.Correct, s.Questions, s.Accuracy*100, s.Best)
}

// runQuiz asks every question on stdin, then scores and saves the quiz
func runQuiz(cmd *cobra.Command, q *quiz.Quiz) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for i, question := range q.Questions {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, question.Question)
		for j, option := range question.Options {
			fmt.Fprintf(out, "   %c) %s\n", 'a'+j, option)
		}
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return err
				}
				return fmt.Errorf("quiz aborted after %d of %d questions", i, len(q.Questions))
			}
			option, ok := parseOption(scanner.Text(), len(question.Options))
			if !ok {
				fmt.Fprintln(out, "Pick one of the listed options.")
				continue
			}
			if err := q.Answer(i, option); err != nil {
				return err
			}
			break
		}
	}

	result, err := q.Finish(cmd.Context())
	if err != nil {
		return err
	}

	answers := q.Answers()
	fmt.Fprintf(out, "\nScore: %d/%d\n", result.Correct, result.Total)
	for i, question := range q.Questions {
		if answers[i] != question.CorrectAnswer {
			fmt.Fprintf(out, "%d. %s\n   answer: %s\n", i+1, question.Question, question.Options[question.CorrectAnswer])
		}
	}
	return nil
}

// parseOption accepts a letter (a-d) or a 1-based number
func parseOption(s string, count int) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= 'a' && int(s[0]-'a') < count {
		return int(s[0] - 'a'), true
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= count {
		return n - 1, true
	}
	return 0, false
}
