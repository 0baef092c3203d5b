package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/idilsaglam/questree/internal/api"
	"github.com/idilsaglam/questree/internal/auth"
	"github.com/idilsaglam/questree/internal/config"
	"github.com/idilsaglam/questree/internal/log"
	"github.com/idilsaglam/questree/internal/tui"
	"github.com/idilsaglam/questree/internal/ui"
)

// Options carry what the root flags resolved to.
type Options struct {
	Client  *api.Client
	Timeout time.Duration
}

// Swapped in tests.
var (
	stdin           io.Reader = os.Stdin
	copyToClipboard           = clipboard.WriteAll
	runTUI                    = tui.Run
)

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// With no arguments it opens the interactive tree.
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		args = []string{"tui"}
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "tui":
		if err := runTUI(opt.Client, tui.Options{Timeout: opt.Timeout}); err != nil {
			fail("tui", err)
			return 1
		}
		return 0

	case "ls":
		return doList(opt)

	case "add":
		return doAdd(opt, a)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: questree rm <id>")
			return 2
		}
		id, ok := parseID("rm", a[0])
		if !ok {
			return 2
		}
		return doRemove(opt, id)

	case "answer":
		if len(a) < 2 {
			ui.Fail("usage: questree answer <id> <text...>")
			return 2
		}
		id, ok := parseID("answer", a[0])
		if !ok {
			return 2
		}
		return doAnswer(opt, id, strings.Join(a[1:], " "))

	case "export":
		return doExport(opt, a)

	case "auth":
		if len(a) != 1 {
			ui.Fail("usage: questree auth <login|logout|status|whoami>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin()
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		case "whoami":
			return doAuthWhoAmI()
		}
		ui.Fail("usage: questree auth <login|logout|status|whoami>")
		return 2
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprintf(ui.Out, `questree - track open questions as a tree

Usage:
  questree [flags] [subcommand] [args]

Subcommands:
  tui                       Interactive tree (default)
  ls                        Print the tree with to-resolve progress
  add [-parent ID] <text>   Add a question, as a root or under ID
  rm <id>                   Delete a question and everything below it
  answer <id> <text>        Record the current answer of a question
  export [-stdout]          Copy the markdown export (or print it)
  auth <login|logout|status|whoami>
                            Bearer token management

Flags:
  -api URL        questions API (default %s, env QUESTREE_API)
  -timeout D      per-request timeout
  -theme NAME     classic, neon or mono
  -no-color       disable colors
  -log-file PATH  diagnostic log ("-" for stderr, env QUESTREE_LOG)
  -debug          log every request

Examples:
  questree add "Should we migrate to Postgres?"
  questree add -parent 1 "What does it cost?"
  questree answer 2 "About 40k a year"
  questree export -stdout > questions.md
`, config.DefaultAPI)
}

// -------------- subcommand impls ----------------

func (o Options) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.Timeout)
}

func doList(opt Options) int {
	ctx, cancel := opt.ctx()
	defer cancel()
	qs, err := opt.Client.ListQuestions(ctx)
	if err != nil {
		fail("load", err)
		return 1
	}
	ui.Panel(treeLines(qs, time.Now()))
	return 0
}

func doAdd(opt Options, args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	parent := fs.Int64("parent", 0, "id of the parent question")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		ui.Fail("usage: questree add [-parent ID] <text...>")
		return 2
	}
	var parentID *int64
	if *parent > 0 {
		parentID = parent
	}

	ctx, cancel := opt.ctx()
	defer cancel()
	q, err := opt.Client.CreateQuestion(ctx, text, parentID)
	if err != nil {
		fail("add", err)
		return 1
	}
	log.Infof("created question %d (parent %d)", q.ID, *parent)
	ui.OK(fmt.Sprintf("added question #%d", q.ID))
	return 0
}

// doRemove refuses root questions, which the tree never offers to delete.
func doRemove(opt Options, id int64) int {
	ctx, cancel := opt.ctx()
	defer cancel()
	qs, err := opt.Client.ListQuestions(ctx)
	if err != nil {
		fail("load", err)
		return 1
	}
	level, found := levelOf(qs, id)
	switch {
	case !found:
		ui.Fail(fmt.Sprintf("no question #%d", id))
		ui.Hint("Hint: run `questree ls` to see ids")
		return 2
	case level == 0:
		ui.Fail("root questions cannot be deleted")
		return 2
	}
	if err := opt.Client.DeleteQuestion(ctx, id); err != nil {
		fail("rm", err)
		return 1
	}
	log.Infof("deleted question %d", id)
	ui.OK(fmt.Sprintf("removed question #%d", id))
	return 0
}

func doAnswer(opt Options, id int64, text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		ui.Fail("answer: empty text")
		return 2
	}
	ctx, cancel := opt.ctx()
	defer cancel()
	if _, err := opt.Client.SetAnswer(ctx, id, text); err != nil {
		fail("answer", err)
		return 1
	}
	ui.OK(fmt.Sprintf("answered question #%d", id))
	return 0
}

func doExport(opt Options, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	toStdout := fs.Bool("stdout", false, "print instead of copying to the clipboard")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, cancel := opt.ctx()
	defer cancel()
	md, err := opt.Client.ExportMarkdown(ctx)
	if err == nil && !*toStdout {
		err = copyToClipboard(md)
	}
	if err != nil {
		log.Errorf("export: %v", err)
		ui.Fail("Failed to export markdown. Please try again.")
		return 1
	}
	if *toStdout {
		fmt.Fprintln(ui.Out, md)
		return 0
	}
	ui.OK("Copied to clipboard!")
	return 0
}

// -------------- auth ----------------

func doAuthLogin() int {
	fmt.Fprint(ui.Out, "Paste your token: ")
	token, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fail("read token", err)
		return 1
	}
	ti, err := auth.SetToken(token)
	if err != nil {
		fail("save token", err)
		return 1
	}
	if ti.Expired(time.Now()) {
		ui.Hint("warning: this token has already expired")
	}
	log.Infof("token saved, expires %v", ti.ExpiresAt)
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		fail("logout", err)
		return 1
	}
	log.Infof("token removed")
	ui.OK("logged out")
	return 0
}

func doAuthStatus() int {
	ti, err := auth.GetToken()
	if err != nil {
		fail("credentials", err)
		return 1
	}
	if ti == nil {
		fmt.Fprintln(ui.Out, ui.C(ui.Current().Muted, "not logged in"))
		fmt.Fprintln(ui.Out, "Run: questree auth login")
		return 0
	}
	fmt.Fprintf(ui.Out, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(ui.Out, "expires: (unknown)")
	case ti.Expired(time.Now()):
		fmt.Fprintf(ui.Out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.C(ui.Current().Error, "(expired)"))
	default:
		fmt.Fprintf(ui.Out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(ui.Out, "env override: "+auth.EnvToken)
	return 0
}

// whoami decodes a JWT locally without verifying it; opaque tokens print basic info.
func doAuthWhoAmI() int {
	ti, _ := auth.GetToken()
	if ti == nil {
		ui.Fail("not logged in. Run: questree auth login")
		return 2
	}
	if claims, ok := auth.ClaimsJSON(ti.Token); ok {
		fmt.Fprintln(ui.Out, "JWT payload:")
		fmt.Fprintln(ui.Out, claims)
		return 0
	}
	fmt.Fprintln(ui.Out, "Opaque token (cannot introspect locally).")
	fmt.Fprintln(ui.Out, "source:", ti.Source)
	return 0
}

// -------------- helpers ----------------

func parseID(cmd, s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		ui.Fail(cmd + ": not a question id: " + s)
		return 0, false
	}
	return id, true
}

// fail reports err on stderr and in the log, which keeps the request details.
func fail(what string, err error) {
	log.Errorf("%s: %v", what, err)
	var se *api.StatusError
	if errors.As(err, &se) {
		ui.Fail(fmt.Sprintf("%s: server answered %d", what, se.Code))
		return
	}
	ui.Fail(what + ": " + err.Error())
}
