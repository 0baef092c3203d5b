package cli

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/questree/internal/api"
	"github.com/idilsaglam/questree/internal/api/apitest"
	"github.com/idilsaglam/questree/internal/auth"
	"github.com/idilsaglam/questree/internal/model"
	"github.com/idilsaglam/questree/internal/tui"
	"github.com/idilsaglam/questree/internal/ui"
)

type env struct {
	srv      *apitest.Server
	opt      Options
	out, err *bytes.Buffer
	clip     []string
}

func setup(t *testing.T) *env {
	t.Helper()
	e := &env{srv: apitest.New(t), out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	e.opt = Options{Client: api.New(e.srv.BaseURL(), api.Options{}), Timeout: 5 * time.Second}

	prevOut, prevErr, prevCopy, prevTUI := ui.Out, ui.Err, copyToClipboard, runTUI
	ui.Out, ui.Err = e.out, e.err
	copyToClipboard = func(s string) error { e.clip = append(e.clip, s); return nil }
	t.Cleanup(func() {
		ui.Out, ui.Err, copyToClipboard, runTUI = prevOut, prevErr, prevCopy, prevTUI
	})
	return e
}

func (e *env) run(args ...string) int { return Run(args, e.opt) }

func TestNoArgsOpensTUI(t *testing.T) {
	e := setup(t)
	var got tui.Options
	runTUI = func(_ tui.Client, opt tui.Options) error { got = opt; return nil }

	assert.Equal(t, 0, e.run())
	assert.Equal(t, 5*time.Second, got.Timeout)

	runTUI = func(tui.Client, tui.Options) error { return errors.New("no tty") }
	assert.Equal(t, 1, e.run("tui"))
	assert.Contains(t, e.err.String(), "no tty")
}

func TestUsageErrors(t *testing.T) {
	e := setup(t)
	assert.Equal(t, 2, e.run("frobnicate"))
	assert.Equal(t, 2, e.run("rm"))
	assert.Equal(t, 2, e.run("rm", "abc"))
	assert.Equal(t, 2, e.run("answer", "1"))
	assert.Equal(t, 2, e.run("add"))
	assert.Equal(t, 2, e.run("auth", "sudo"))
	assert.Contains(t, e.err.String(), "unknown subcommand: frobnicate")
	assert.Zero(t, e.srv.Calls("POST /questions"))
}

func TestAddAndList(t *testing.T) {
	e := setup(t)

	require.Equal(t, 0, e.run("add", "Should", "we", "migrate?"))
	assert.Contains(t, e.out.String(), "added question #1")
	require.Equal(t, 0, e.run("add", "-parent", "1", "What does it cost?"))

	child := int64(2)
	e.srv.AddItem(child, "ask finance", true)
	e.srv.AddItem(child, "check contracts", false)
	e.srv.SetTimeFrame(child, "2020-01-01")

	e.out.Reset()
	require.Equal(t, 0, e.run("ls"))
	out := e.out.String()
	assert.Contains(t, out, "#1 Should we migrate?")
	assert.Contains(t, out, "  #2 What does it cost?")
	assert.Contains(t, out, "due 2020-01-01 Overdue")
	assert.Contains(t, out, "ask finance")
	assert.Contains(t, out, " 50%")

	tree := e.srv.Tree()
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "What does it cost?", tree[0].Children[0].Text)
}

func TestAddUnderMissingParentFails(t *testing.T) {
	e := setup(t)
	assert.Equal(t, 1, e.run("add", "-parent", "42", "orphan"))
	assert.Contains(t, e.err.String(), "server answered 404")
}

func TestRemove(t *testing.T) {
	e := setup(t)
	root := e.srv.AddQuestion("root", nil)
	child := e.srv.AddQuestion("child", &root)
	e.srv.AddQuestion("grandchild", &child)

	assert.Equal(t, 2, e.run("rm", "1"))
	assert.Contains(t, e.err.String(), "root questions cannot be deleted")
	assert.Equal(t, 2, e.run("rm", "99"))
	assert.Zero(t, e.srv.Calls("DELETE /questions/{id}"))

	assert.Equal(t, 0, e.run("rm", "2"))
	tree := e.srv.Tree()
	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Children)
}

func TestAnswer(t *testing.T) {
	e := setup(t)
	id := e.srv.AddQuestion("Which DB?", nil)

	require.Equal(t, 0, e.run("answer", "1", "Postgres,", "probably"))
	q, ok := model.Find(e.srv.Tree(), id)
	require.True(t, ok)
	assert.Equal(t, "Postgres, probably", q.Answer())
}

func TestExport(t *testing.T) {
	e := setup(t)
	e.srv.AddQuestion("Which DB?", nil)

	require.Equal(t, 0, e.run("export"))
	assert.Equal(t, []string{"- **Which DB?**"}, e.clip)
	assert.Contains(t, e.out.String(), "Copied to clipboard!")

	e.out.Reset()
	require.Equal(t, 0, e.run("export", "-stdout"))
	assert.Equal(t, "- **Which DB?**\n", e.out.String())
	assert.Len(t, e.clip, 1)

	e.srv.FailNext("GET /export/markdown", http.StatusInternalServerError)
	assert.Equal(t, 1, e.run("export"))
	assert.Contains(t, e.err.String(), "Failed to export markdown. Please try again.")
}

func TestAuthCommands(t *testing.T) {
	e := setup(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv(auth.EnvToken, "")
	prevStdin := stdin
	t.Cleanup(func() { stdin = prevStdin })

	require.Equal(t, 0, e.run("auth", "status"))
	assert.Contains(t, e.out.String(), "not logged in")
	assert.Equal(t, 2, e.run("auth", "whoami"))

	stdin = strings.NewReader("Bearer opaque-token\n")
	require.Equal(t, 0, e.run("auth", "login"))
	ti, err := auth.GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "opaque-token", ti.Token)

	e.out.Reset()
	require.Equal(t, 0, e.run("auth", "whoami"))
	assert.Contains(t, e.out.String(), "Opaque token")

	require.Equal(t, 0, e.run("auth", "logout"))
	ti, err = auth.GetToken()
	require.NoError(t, err)
	assert.Nil(t, ti)

	t.Setenv(auth.EnvToken, "from-env")
	e.out.Reset()
	require.Equal(t, 0, e.run("auth", "logout"))
	assert.Contains(t, e.out.String(), "nothing to delete")
}
