package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/example/flashcards/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	configPath string
	dir        string
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("FLASHCARDS_STORAGE", "")
	t.Setenv("OPENAI_API_KEY", "")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "flashcards.toml")
	body := fmt.Sprintf(`
[storage]
backend = "local"
local_path = %q

[logging]
level = "error"
`, filepath.Join(dir, "local.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o600))
	return &cliEnv{configPath: configPath, dir: dir}
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func TestCards_ListsBundledDeck(t *testing.T) {
	env := setupCLI(t)
	out := env.mustRun(t, "cards")
	assert.Contains(t, out, "abandon")
	assert.Contains(t, out, "journey")
	assert.Contains(t, out, "6 cards, 0 due today, 6 new")
}

func TestCards_Search(t *testing.T) {
	env := setupCLI(t)
	out := env.mustRun(t, "cards", "--search", "TRAVEL")
	assert.Contains(t, out, "journey")
	assert.NotContains(t, out, "abandon")

	out = env.mustRun(t, "cards", "-s", "zzz")
	assert.NotContains(t, out, "journey")
	assert.Contains(t, out, "6 cards", "the caption still counts the whole deck")
}

func TestReview_SingleCard(t *testing.T) {
	env := setupCLI(t)

	want := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	out := env.mustRun(t, "review", "1", "good")
	assert.Equal(t, "abandon is due "+want+"\n", out)

	out = env.mustRun(t, "cards")
	assert.Contains(t, out, want)

	_, err := env.run(t, "", "review", "1", "hard")
	assert.Error(t, err)
	_, err = env.run(t, "", "review", "1")
	assert.Error(t, err)
}

func TestReview_Interactive(t *testing.T) {
	env := setupCLI(t)

	out, err := env.run(t, "g\nn\nbogus\nj 9\nq\n", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/6] abandon")
	assert.Contains(t, out, "[2/6] benefit")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "error:")

	out = env.mustRun(t, "cards", "--due")
	assert.NotContains(t, out, "abandon")
}

func TestCards_AddAndDelete(t *testing.T) {
	env := setupCLI(t)

	out := env.mustRun(t, "cards", "add", "--word", "zephyr", "--pos", "n", "--definition", "a gentle wind")
	assert.Contains(t, out, `Added "zephyr"`)
	id := regexp.MustCompile(`\(([0-9a-f-]{36})\)`).FindStringSubmatch(out)
	require.Len(t, id, 2)

	assert.Contains(t, env.mustRun(t, "cards"), "zephyr")

	_, err := env.run(t, "", "cards", "delete", "1")
	assert.ErrorContains(t, err, "cannot be deleted")

	env.mustRun(t, "cards", "delete", id[1])
	assert.NotContains(t, env.mustRun(t, "cards"), "zephyr")

	_, err = env.run(t, "", "cards", "add", "--word", " ")
	assert.Error(t, err)
}

func TestPlaylistCommands(t *testing.T) {
	env := setupCLI(t)

	out := env.mustRun(t, "playlist", "create", "Travel")
	m := regexp.MustCompile(`\(([0-9a-f-]{36})\)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	id := m[1]

	_, err := env.run(t, "", "playlist", "create", "Travel")
	assert.ErrorContains(t, err, "already exists")

	env.mustRun(t, "playlist", "add", id, "6")
	env.mustRun(t, "playlist", "add", id, "2")

	out = env.mustRun(t, "playlist", "show", id)
	assert.Less(t, strings.Index(out, "journey"), strings.Index(out, "benefit"), "playlist order is kept")

	out = env.mustRun(t, "cards", "--playlist", id)
	assert.NotContains(t, out, "abandon")

	assert.Contains(t, env.mustRun(t, "playlist"), "Travel")

	env.mustRun(t, "playlist", "remove", id, "6")
	env.mustRun(t, "playlist", "delete", id)
	assert.NotContains(t, env.mustRun(t, "playlist"), "Travel")
}

func TestKeyCommands(t *testing.T) {
	env := setupCLI(t)

	assert.Contains(t, env.mustRun(t, "key", "show"), "No API key saved")
	env.mustRun(t, "key", "set", "sk-abcdefghijkl")
	assert.Contains(t, env.mustRun(t, "key", "show"), "sk-...ijkl")
	env.mustRun(t, "key", "clear")
	assert.Contains(t, env.mustRun(t, "key", "show"), "No API key saved")
}

func TestQuiz_WithoutKey(t *testing.T) {
	env := setupCLI(t)
	_, err := env.run(t, "", "quiz")
	assert.ErrorIs(t, err, quiz.ErrNoGenerator)

	history := env.mustRun(t, "quiz", "history")
	assert.Contains(t, history, "Score")
	assert.Contains(t, history, "no quizzes taken yet")
}

func TestQuiz_UnreadableKeyStoreIsNotMissingKey(t *testing.T) {
	t.Setenv("FLASHCARDS_STORAGE", "")
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "flashcards.toml")
	body := fmt.Sprintf(`
[database]
dsn = %q

[storage]
backend = "sql"
local_path = %q

[logging]
level = "error"
`, filepath.Join(dir, "cards.db"), dir)
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o600))
	env := &cliEnv{configPath: configPath, dir: dir}

	_, err := env.run(t, "", "quiz")
	require.Error(t, err)
	assert.NotErrorIs(t, err, quiz.ErrNoGenerator)
	assert.ErrorContains(t, err, "open local storage")
}

func TestRemind(t *testing.T) {
	env := setupCLI(t)
	out := env.mustRun(t, "remind")
	assert.Contains(t, out, "0 due, 6 new, 0 upcoming")
}

func TestImportCSV(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(env.dir, "words.csv")
	require.NoError(t, os.WriteFile(path, []byte("Word,POS,Definition\nFood,,\nbread,n,baked dough\n"), 0o600))

	out := env.mustRun(t, "import", path)
	assert.Contains(t, out, "Cards created")
	assert.Contains(t, env.mustRun(t, "playlist"), "Food")
	assert.Contains(t, env.mustRun(t, "cards"), "bread")
}

func TestConfigShow(t *testing.T) {
	env := setupCLI(t)
	out := env.mustRun(t, "config", "show")
	assert.Contains(t, out, "[storage]")
	assert.Contains(t, out, "local")
}

func TestParseOption(t *testing.T) {
	cases := map[string]int{"a": 0, "D": 3, " 2 ": 1}
	for in, want := range cases {
		got, ok := parseOption(in, 4)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"e", "0", "5", "", "ab"} {
		_, ok := parseOption(in, 4)
		assert.False(t, ok, in)
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "********", maskKey("short"))
	assert.Equal(t, "sk-...wxyz", maskKey("sk-abcdefwxyz"))
}
