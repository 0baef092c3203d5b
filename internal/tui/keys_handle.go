package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/questree/internal/model"
	"github.com/idilsaglam/questree/internal/remaining"
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case modeEditText:
		return m.keyEditText(msg)
	case modeEditDue:
		return m.keyEditDue(msg)
	case modeEditItem:
		return m.keyEditItem(msg)
	case modeChildForm:
		return m.keyChildForm(msg)
	case modeItemForm:
		return m.keyItemForm(msg)
	case modeAnswerForm:
		return m.keyAnswerForm(msg)
	case modeRootForm:
		return m.keyRootForm(msg)
	case modeConfirmDelete:
		return m.keyConfirm(msg)
	}
	return m.keyBrowse(msg)
}

func (m *Model) focus(md mode, n *questionNode) {
	m.mode, m.active, m.activeItem = md, n, nil
}

func (m *Model) browse() {
	m.mode, m.active, m.activeItem = modeBrowse, nil, nil
}

func (m *Model) keyBrowse(msg tea.KeyMsg) tea.Cmd {
	rows := m.rows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return nil
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return nil
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(rows) - 1
		m.clampCursor(len(rows))
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Export):
		return m.exportCmd()
	case key.Matches(msg, m.keys.Root):
		m.focus(modeRootForm, nil)
		m.rootForm.SetValue("")
		return m.rootForm.Focus()
	}

	if len(rows) == 0 {
		return nil
	}
	m.clampCursor(len(rows))
	r := rows[m.cursor]
	if r.item != nil {
		if cmd, handled := m.keyItemRow(msg, r.node, r.item); handled {
			return cmd
		}
	}
	return m.keyQuestionRow(msg, r.node)
}

// keyItemRow handles the keys that act on a to-resolve item; anything else
// falls through to the owning question.
func (m *Model) keyItemRow(msg tea.KeyMsg, n *questionNode, it *itemNode) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Fold):
		prior := it.completed
		it.completed = !prior
		return m.toggleItemCmd(n.id, it.id, prior), true
	case key.Matches(msg, m.keys.Edit):
		ed := newInput("To-resolve item", 500)
		ed.SetValue(it.text)
		ed.CursorEnd()
		it.edit = &ed
		m.focus(modeEditItem, n)
		m.activeItem = it
		return it.edit.Focus(), true
	case key.Matches(msg, m.keys.Delete):
		return m.deleteItemCmd(n.id, it.id), true
	}
	return nil, false
}

func (m *Model) keyQuestionRow(msg tea.KeyMsg, n *questionNode) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Fold):
		n.folded = !n.folded
	case key.Matches(msg, m.keys.Edit):
		m.focus(modeEditText, n)
		n.text.CursorEnd()
		return n.text.Focus()
	case key.Matches(msg, m.keys.Due):
		m.focus(modeEditDue, n)
		n.due.SetValue(n.timeFrame)
		n.due.CursorEnd()
		n.dueErr = ""
		return n.due.Focus()
	case key.Matches(msg, m.keys.Status):
		n.status = model.NextStatus(n.status)
		return m.saveQuestionCmd(n.id, n.update())
	case key.Matches(msg, m.keys.Child):
		n.folded = false
		f := newInput("Enter child question", 500)
		n.childForm = &f
		m.focus(modeChildForm, n)
		return n.childForm.Focus()
	case key.Matches(msg, m.keys.Todo):
		n.folded = false
		if n.itemForm == nil {
			f := newInput("Add to-resolve item", 500)
			n.itemForm = &f
		}
		m.focus(modeItemForm, n)
		return n.itemForm.Focus()
	case key.Matches(msg, m.keys.Answer):
		n.folded = false
		ta := textarea.New()
		ta.Placeholder = "Current answer"
		ta.ShowLineNumbers = false
		ta.SetHeight(3)
		ta.SetWidth(m.formWidth(n.level))
		ta.Cursor.SetMode(cursor.CursorStatic)
		n.answerForm = &ta
		m.focus(modeAnswerForm, n)
		return n.answerForm.Focus()
	case key.Matches(msg, m.keys.Delete):
		if n.level == 0 {
			m.status = "Root questions cannot be deleted."
			return nil
		}
		m.focus(modeConfirmDelete, n)
		m.confirmID = n.id
	}
	return nil
}

// keyEditText re-arms the 500ms save debounce on every change.
func (m *Model) keyEditText(msg tea.KeyMsg) tea.Cmd {
	n := m.active
	switch msg.String() {
	case "enter", "esc":
		n.text.Blur()
		m.browse()
		return nil
	}
	before := n.text.Value()
	var cmd tea.Cmd
	n.text, cmd = n.text.Update(msg)
	if n.text.Value() == before {
		return cmd
	}
	n.saveSeq++
	n.unsaved = true
	return tea.Batch(cmd, m.schedule(saveDelay, saveTickMsg{gen: m.gen, id: n.id, seq: n.saveSeq}))
}

// keyEditDue commits on enter: no debounce, the PUT goes out at once.
func (m *Model) keyEditDue(msg tea.KeyMsg) tea.Cmd {
	n := m.active
	switch msg.String() {
	case "esc":
		n.due.SetValue(n.timeFrame)
		n.due.Blur()
		n.dueErr = ""
		m.browse()
		return nil
	case "enter":
		v := strings.TrimSpace(n.due.Value())
		if v != "" {
			if _, ok := remaining.ParseTimeFrame(v); !ok {
				n.dueErr = "use YYYY-MM-DD"
				return nil
			}
		}
		n.due.SetValue(v)
		n.due.Blur()
		n.dueErr = ""
		m.browse()
		if v == n.timeFrame {
			return nil
		}
		n.timeFrame = v
		n.remaining = remaining.ForTimeFrame(v, m.now())
		cmds := []tea.Cmd{m.saveQuestionCmd(n.id, n.update())}
		if v != "" && !n.ticking {
			n.ticking = true
			cmds = append(cmds, m.refreshCmd(n))
		}
		return tea.Batch(cmds...)
	}
	n.dueErr = ""
	var cmd tea.Cmd
	n.due, cmd = n.due.Update(msg)
	return cmd
}

// keyEditItem commits on enter or esc, the terminal's version of blur.
func (m *Model) keyEditItem(msg tea.KeyMsg) tea.Cmd {
	n, it := m.active, m.activeItem
	switch msg.String() {
	case "enter", "esc":
		text := strings.TrimSpace(it.edit.Value())
		it.edit = nil
		m.browse()
		if text == "" || text == it.text {
			return nil
		}
		original := it.text
		it.text, it.saving = text, true
		return m.editItemCmd(n.id, it.id, original, text)
	}
	ed, cmd := it.edit.Update(msg)
	*it.edit = ed
	return cmd
}

func (m *Model) keyChildForm(msg tea.KeyMsg) tea.Cmd {
	n := m.active
	switch msg.String() {
	case "esc":
		n.childForm = nil
		m.browse()
		return nil
	case "enter":
		text := strings.TrimSpace(n.childForm.Value())
		if text == "" {
			return nil
		}
		parent := n.id
		return m.createQuestionCmd(text, &parent)
	}
	f, cmd := n.childForm.Update(msg)
	*n.childForm = f
	return cmd
}

// keyItemForm allows one create request in flight per form; repeated
// submits while it is pending are dropped.
func (m *Model) keyItemForm(msg tea.KeyMsg) tea.Cmd {
	n := m.active
	switch msg.String() {
	case "esc":
		n.itemForm.Blur()
		n.itemForm = nil
		m.browse()
		return nil
	case "enter":
		if n.itemSubmitting {
			return nil
		}
		text := strings.TrimSpace(n.itemForm.Value())
		if text == "" {
			return nil
		}
		n.itemSubmitting = true
		return m.createItemCmd(n.id, text)
	}
	f, cmd := n.itemForm.Update(msg)
	*n.itemForm = f
	return cmd
}

func (m *Model) keyAnswerForm(msg tea.KeyMsg) tea.Cmd {
	n := m.active
	switch msg.String() {
	case "esc":
		n.answerForm = nil
		m.browse()
		return nil
	case "ctrl+s":
		text := strings.TrimSpace(n.answerForm.Value())
		if text == "" {
			return nil
		}
		return m.answerCmd(n.id, text)
	}
	ta, cmd := n.answerForm.Update(msg)
	*n.answerForm = ta
	return cmd
}

func (m *Model) keyRootForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.rootForm.Blur()
		m.browse()
		return nil
	case "enter":
		text := strings.TrimSpace(m.rootForm.Value())
		if text == "" {
			return nil
		}
		return m.createQuestionCmd(text, nil)
	}
	var cmd tea.Cmd
	m.rootForm, cmd = m.rootForm.Update(msg)
	return cmd
}

func (m *Model) keyConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmID
		m.browse()
		return m.deleteQuestionCmd(id)
	case "n", "N", "esc":
		m.browse()
	}
	return nil
}
