// Package tui is the interactive question tree.
//
// Every structural change (create or delete of a question) throws the
// rendered tree away and rebuilds it from a fresh GET /questions. Text,
// due date, status, answers and to-resolve items are patched in place.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/questree/internal/remaining"
)

type mode int

const (
	modeBrowse mode = iota
	modeEditText
	modeEditDue
	modeEditItem
	modeChildForm
	modeItemForm
	modeAnswerForm
	modeRootForm
	modeConfirmDelete
)

type Options struct {
	Timeout time.Duration
	Now     func() time.Time
	Copy    func(string) error // clipboard writer
}

type Model struct {
	client   Client
	timeout  time.Duration
	now      func() time.Time
	copy     func(string) error
	schedule func(time.Duration, tea.Msg) tea.Cmd

	gen        int
	roots      []*questionNode
	index      map[int64]*questionNode
	loading    bool
	loadFailed bool

	cursor        int
	pendingSelect int64 // question to select after the next load
	mode          mode
	active        *questionNode
	activeItem    *itemNode
	rootForm      textinput.Model
	confirmID     int64

	exportLabel string
	exportSeq   int
	alert       string
	status      string

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int
}

func New(client Client, opt Options) *Model {
	if opt.Timeout <= 0 {
		opt.Timeout = 10 * time.Second
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Copy == nil {
		opt.Copy = clipboard.WriteAll
	}
	m := &Model{
		client:      client,
		timeout:     opt.Timeout,
		now:         opt.Now,
		copy:        opt.Copy,
		schedule:    after,
		index:       map[int64]*questionNode{},
		loading:     true,
		rootForm:    newInput("Enter a new question", 500),
		exportLabel: exportLabel,
		keys:        defaultKeys(),
		help:        help.New(),
		viewport:    viewport.New(76, 16),
	}
	m.help.Styles.ShortKey = accentStyle
	m.help.Styles.ShortDesc = helpStyle
	m.layout()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(client Client, opt Options) error {
	p := tea.NewProgram(New(client, opt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return m.loadCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.layout()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width - 4
		return nil

	case tea.KeyMsg:
		if m.alert != "" {
			m.alert = ""
			return nil
		}
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		m.status = ""
		return m.handleKey(msg)

	case treeLoadedMsg:
		return m.onTreeLoaded(msg)
	case saveTickMsg:
		return m.onSaveTick(msg)
	case refreshTickMsg:
		return m.onRefreshTick(msg)
	case exportResetMsg:
		if msg.seq == m.exportSeq {
			m.exportLabel = exportLabel
		}
		return nil

	case questionSavedMsg:
		if msg.err != nil {
			logFailure("update question %d: %v", msg.id, msg.err)
		}
		return nil
	case questionCreatedMsg:
		return m.onQuestionCreated(msg)
	case questionDeletedMsg:
		if msg.err != nil {
			logFailure("delete question %d: %v", msg.id, msg.err)
			return nil
		}
		return m.reload()
	case itemCreatedMsg:
		m.onItemCreated(msg)
	case itemToggledMsg:
		m.onItemToggled(msg)
	case itemEditedMsg:
		m.onItemEdited(msg)
	case itemDeletedMsg:
		m.onItemDeleted(msg)
	case answerSavedMsg:
		m.onAnswerSaved(msg)
	case exportedMsg:
		return m.onExported(msg)
	}
	return nil
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	return m.loadCmd()
}

func (m *Model) rows() []row { return visibleRows(m.roots) }

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selection names the selected row by ids so it survives a rebuild.
func (m *Model) selection() (questionID, itemID int64) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return 0, 0
	}
	r := rows[m.cursor]
	if r.item != nil {
		itemID = r.item.id
	}
	return r.node.id, itemID
}

func (m *Model) selectRow(questionID, itemID int64) {
	rows := m.rows()
	fallback := -1
	for i, r := range rows {
		if r.node.id != questionID {
			continue
		}
		if r.item == nil && fallback < 0 {
			fallback = i
		}
		if (r.item == nil && itemID == 0) || (r.item != nil && r.item.id == itemID) {
			m.cursor = i
			return
		}
	}
	if fallback >= 0 {
		m.cursor = fallback
	}
	m.clampCursor(len(rows))
}

func (m *Model) onTreeLoaded(msg treeLoadedMsg) tea.Cmd {
	selQ, selItem := m.selection()
	if m.pendingSelect != 0 {
		selQ, selItem = m.pendingSelect, 0
		m.pendingSelect = 0
	}

	// Text still waiting on its debounce survives the rebuild and is saved now.
	var flush []*questionNode
	for _, n := range m.index {
		if n.unsaved {
			flush = append(flush, n)
		}
	}

	// Bumping the generation orphans every timer and in-flight result of the
	// old nodes.
	m.gen++
	m.loading = false
	m.roots = nil
	m.index = map[int64]*questionNode{}
	if m.mode != modeRootForm {
		m.mode, m.active, m.activeItem = modeBrowse, nil, nil
	}

	var cmds []tea.Cmd
	if msg.err != nil {
		logFailure("load questions: %v", msg.err)
		m.loadFailed = true
		m.cursor = 0
		for _, old := range flush {
			cmds = append(cmds, m.saveQuestionCmd(old.id, old.update()))
		}
		return tea.Batch(cmds...)
	}
	m.loadFailed = false

	now := m.now()
	for _, q := range msg.questions {
		m.roots = append(m.roots, buildNode(q, 0, nil, now, m.index))
	}
	for _, old := range flush {
		n := m.index[old.id]
		if n == nil {
			continue
		}
		n.text.SetValue(old.text.Value())
		cmds = append(cmds, m.saveQuestionCmd(n.id, n.update()))
	}
	for _, n := range m.index {
		if n.timeFrame != "" {
			n.ticking = true
			cmds = append(cmds, m.refreshCmd(n))
		}
	}
	m.selectRow(selQ, selItem)
	return tea.Batch(cmds...)
}

// node resolves a result back to its node, or nil if that node was discarded.
func (m *Model) node(gen int, id int64) *questionNode {
	if gen != m.gen {
		return nil
	}
	return m.index[id]
}

func (m *Model) refreshCmd(n *questionNode) tea.Cmd {
	return m.schedule(refreshEvery, refreshTickMsg{gen: m.gen, id: n.id})
}

func (m *Model) onSaveTick(msg saveTickMsg) tea.Cmd {
	n := m.node(msg.gen, msg.id)
	if n == nil || msg.seq != n.saveSeq {
		return nil
	}
	n.unsaved = false
	return m.saveQuestionCmd(n.id, n.update())
}

func (m *Model) onRefreshTick(msg refreshTickMsg) tea.Cmd {
	n := m.node(msg.gen, msg.id)
	if n == nil {
		return nil
	}
	if n.timeFrame == "" {
		n.ticking = false
		n.remaining = ""
		return nil
	}
	n.remaining = remaining.ForTimeFrame(n.timeFrame, m.now())
	return m.refreshCmd(n)
}

func (m *Model) onQuestionCreated(msg questionCreatedMsg) tea.Cmd {
	if msg.err != nil {
		logFailure("create question: %v", msg.err)
		m.status = "Could not add the question."
		return nil
	}
	if msg.parentID == nil {
		m.rootForm.SetValue("")
		if m.mode == modeRootForm {
			m.rootForm.Blur()
			m.mode = modeBrowse
		}
	} else if n := m.node(msg.gen, *msg.parentID); n != nil {
		n.childForm = nil
		if m.mode == modeChildForm && m.active == n {
			m.mode, m.active = modeBrowse, nil
		}
	}
	m.pendingSelect = msg.id
	return m.reload()
}

func (m *Model) onItemCreated(msg itemCreatedMsg) {
	n := m.node(msg.gen, msg.questionID)
	if n == nil {
		return
	}
	n.itemSubmitting = false
	if msg.err != nil {
		logFailure("create to-resolve item on %d: %v", msg.questionID, msg.err)
		return
	}
	n.items = append(n.items, newItemNode(msg.item))
	if n.itemForm != nil {
		n.itemForm.SetValue("")
	}
}

func (m *Model) onItemToggled(msg itemToggledMsg) {
	if msg.err == nil {
		return
	}
	logFailure("update to-resolve item %d: %v", msg.itemID, msg.err)
	if n := m.node(msg.gen, msg.questionID); n != nil {
		if _, it := n.item(msg.itemID); it != nil {
			it.completed = msg.prior
		}
	}
}

func (m *Model) onItemEdited(msg itemEditedMsg) {
	n := m.node(msg.gen, msg.questionID)
	if n == nil {
		return
	}
	_, it := n.item(msg.itemID)
	if it == nil {
		return
	}
	it.saving = false
	if msg.err != nil {
		logFailure("update to-resolve item %d: %v", msg.itemID, msg.err)
		it.text = msg.original
		return
	}
	if msg.item.Text != "" {
		it.text = msg.item.Text
	}
}

func (m *Model) onItemDeleted(msg itemDeletedMsg) {
	if msg.err != nil {
		logFailure("delete to-resolve item %d: %v", msg.itemID, msg.err)
		return
	}
	n := m.node(msg.gen, msg.questionID)
	if n == nil {
		return
	}
	if i, _ := n.item(msg.itemID); i >= 0 {
		n.items = append(n.items[:i], n.items[i+1:]...)
	}
	m.clampCursor(len(m.rows()))
}

func (m *Model) onAnswerSaved(msg answerSavedMsg) {
	if msg.err != nil {
		logFailure("save answer on %d: %v", msg.questionID, msg.err)
		return
	}
	n := m.node(msg.gen, msg.questionID)
	if n == nil {
		return
	}
	n.answer, n.hasAnswer = msg.text, true
	n.answerForm = nil
	if m.mode == modeAnswerForm && m.active == n {
		m.mode, m.active = modeBrowse, nil
	}
}

func (m *Model) onExported(msg exportedMsg) tea.Cmd {
	err := msg.err
	if err == nil {
		err = m.copy(msg.markdown)
	}
	if err != nil {
		logFailure("export markdown: %v", err)
		m.alert = exportFailure
		return nil
	}
	m.exportLabel = copiedLabel
	m.exportSeq++
	return m.schedule(copiedFor, exportResetMsg{seq: m.exportSeq})
}
