package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/questree/internal/api"
	"github.com/idilsaglam/questree/internal/api/apitest"
)

// delayed stands in for a tea.Tick: the harness parks it until a test fires it.
type delayed struct {
	d   time.Duration
	msg tea.Msg
}

type harness struct {
	t       *testing.T
	srv     *apitest.Server
	m       *Model
	now     time.Time
	clip    []string
	copyErr error
	timers  []delayed
}

func newHarness(t *testing.T, seed func(*apitest.Server)) *harness {
	t.Helper()
	srv := apitest.New(t)
	if seed != nil {
		seed(srv)
	}
	h := &harness{t: t, srv: srv, now: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)}
	client := api.New(srv.BaseURL(), api.Options{Timeout: 5 * time.Second})
	h.m = New(client, Options{
		Now: func() time.Time { return h.now },
		Copy: func(s string) error {
			if h.copyErr != nil {
				return h.copyErr
			}
			h.clip = append(h.clip, s)
			return nil
		},
	})
	h.m.schedule = func(d time.Duration, msg tea.Msg) tea.Cmd {
		return func() tea.Msg { return delayed{d: d, msg: msg} }
	}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.run(h.m.Init())
	return h
}

// send delivers msg and runs every resulting command to completion.
func (h *harness) send(msg tea.Msg) {
	_, cmd := h.m.Update(msg)
	h.run(cmd)
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case delayed:
		h.timers = append(h.timers, msg)
	default:
		h.send(msg)
	}
}

// fire delivers the parked timers whose message matches, keeping the rest.
func (h *harness) fire(match func(tea.Msg) bool) int {
	pending := h.timers
	h.timers = nil
	n := 0
	for _, d := range pending {
		if match(d.msg) {
			n++
			h.send(d.msg)
			continue
		}
		h.timers = append(h.timers, d)
	}
	return n
}

func (h *harness) pending(match func(tea.Msg) bool) int {
	n := 0
	for _, d := range h.timers {
		if match(d.msg) {
			n++
		}
	}
	return n
}

func isSaveTick(msg tea.Msg) bool    { _, ok := msg.(saveTickMsg); return ok }
func isRefreshTick(msg tea.Msg) bool { _, ok := msg.(refreshTickMsg); return ok }
func isExportReset(msg tea.Msg) bool { _, ok := msg.(exportResetMsg); return ok }

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(runes(string(r)))
	}
}

func (h *harness) selectQuestion(id int64) {
	h.m.selectRow(id, 0)
	h.t.Helper()
	if r := h.m.rows()[h.m.cursor]; r.node.id != id || r.item != nil {
		h.t.Fatalf("question %d is not visible", id)
	}
}

func (h *harness) selectItem(questionID, itemID int64) {
	h.m.selectRow(questionID, itemID)
	h.t.Helper()
	if r := h.m.rows()[h.m.cursor]; r.item == nil || r.item.id != itemID {
		h.t.Fatalf("item %d is not visible", itemID)
	}
}

func (h *harness) node(id int64) *questionNode {
	h.t.Helper()
	n := h.m.index[id]
	if n == nil {
		h.t.Fatalf("question %d not rendered", id)
	}
	return n
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

var errClipboard = errors.New("no clipboard")
