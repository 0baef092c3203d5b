package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/questree/internal/log"
	"github.com/idilsaglam/questree/internal/model"
)

// Client is the slice of the API the tree needs.
type Client interface {
	ListQuestions(ctx context.Context) ([]model.Question, error)
	CreateQuestion(ctx context.Context, text string, parentID *int64) (model.Question, error)
	UpdateQuestion(ctx context.Context, id int64, upd model.QuestionUpdate) error
	DeleteQuestion(ctx context.Context, id int64) error
	CreateToResolve(ctx context.Context, questionID int64, text string) (model.ToResolveItem, error)
	UpdateToResolve(ctx context.Context, questionID, itemID int64, patch model.ToResolvePatch) (model.ToResolveItem, error)
	DeleteToResolve(ctx context.Context, questionID, itemID int64) error
	SetAnswer(ctx context.Context, questionID int64, text string) (string, error)
	ExportMarkdown(ctx context.Context) (string, error)
}

const (
	saveDelay     = 500 * time.Millisecond
	refreshEvery  = 60 * time.Second
	copiedFor     = 2 * time.Second
	exportLabel   = "Export markdown"
	copiedLabel   = "Copied to clipboard!"
	exportFailure = "Failed to export markdown. Please try again."
)

// Async results. Anything aimed at a node carries the generation it was
// issued in; results for a discarded generation are dropped.
type (
	treeLoadedMsg struct {
		questions []model.Question
		err       error
	}
	questionCreatedMsg struct {
		gen      int
		parentID *int64
		id       int64
		err      error
	}
	questionSavedMsg struct {
		id  int64
		err error
	}
	questionDeletedMsg struct {
		id  int64
		err error
	}
	itemCreatedMsg struct {
		gen        int
		questionID int64
		item       model.ToResolveItem
		err        error
	}
	itemToggledMsg struct {
		gen        int
		questionID int64
		itemID     int64
		prior      bool
		err        error
	}
	itemEditedMsg struct {
		gen        int
		questionID int64
		itemID     int64
		original   string
		item       model.ToResolveItem
		err        error
	}
	itemDeletedMsg struct {
		gen        int
		questionID int64
		itemID     int64
		err        error
	}
	answerSavedMsg struct {
		gen        int
		questionID int64
		text       string
		err        error
	}
	exportedMsg struct {
		markdown string
		err      error
	}
)

// Timer messages.
type (
	saveTickMsg struct {
		gen int
		id  int64
		seq int
	}
	refreshTickMsg struct {
		gen int
		id  int64
	}
	exportResetMsg struct{ seq int }
)

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (m *Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		qs, err := m.client.ListQuestions(ctx)
		return treeLoadedMsg{questions: qs, err: err}
	}
}

func (m *Model) createQuestionCmd(text string, parentID *int64) tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		q, err := m.client.CreateQuestion(ctx, text, parentID)
		return questionCreatedMsg{gen: gen, parentID: parentID, id: q.ID, err: err}
	}
}

func (m *Model) saveQuestionCmd(id int64, upd model.QuestionUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		return questionSavedMsg{id: id, err: m.client.UpdateQuestion(ctx, id, upd)}
	}
}

func (m *Model) deleteQuestionCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		return questionDeletedMsg{id: id, err: m.client.DeleteQuestion(ctx, id)}
	}
}

func (m *Model) createItemCmd(questionID int64, text string) tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		it, err := m.client.CreateToResolve(ctx, questionID, text)
		return itemCreatedMsg{gen: gen, questionID: questionID, item: it, err: err}
	}
}

func (m *Model) toggleItemCmd(questionID, itemID int64, prior bool) tea.Cmd {
	gen := m.gen
	completed := !prior
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		_, err := m.client.UpdateToResolve(ctx, questionID, itemID, model.ToResolvePatch{Completed: &completed})
		return itemToggledMsg{gen: gen, questionID: questionID, itemID: itemID, prior: prior, err: err}
	}
}

func (m *Model) editItemCmd(questionID, itemID int64, original, text string) tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		it, err := m.client.UpdateToResolve(ctx, questionID, itemID, model.ToResolvePatch{Text: &text})
		return itemEditedMsg{gen: gen, questionID: questionID, itemID: itemID, original: original, item: it, err: err}
	}
}

func (m *Model) deleteItemCmd(questionID, itemID int64) tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		err := m.client.DeleteToResolve(ctx, questionID, itemID)
		return itemDeletedMsg{gen: gen, questionID: questionID, itemID: itemID, err: err}
	}
}

func (m *Model) answerCmd(questionID int64, text string) tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		_, err := m.client.SetAnswer(ctx, questionID, text)
		return answerSavedMsg{gen: gen, questionID: questionID, text: text, err: err}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		md, err := m.client.ExportMarkdown(ctx)
		return exportedMsg{markdown: md, err: err}
	}
}

// logFailure is the diagnostic channel for failed operations; the user only
// sees an alert for exports.
func logFailure(format string, args ...any) {
	log.Errorf(format, args...)
}
