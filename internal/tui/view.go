package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/questree/internal/model"
)

func (m *Model) size() (int, int) {
	if m.width <= 0 || m.height <= 0 {
		return 80, 24
	}
	return m.width, m.height
}

func (m *Model) formWidth(level int) int {
	w, _ := m.size()
	fw := w - 12 - 2*level
	if fw < 20 {
		fw = 20
	}
	return fw
}

// layout sizes the viewport and scrolls it so the cursor stays visible.
func (m *Model) layout() {
	w, h := m.size()
	footer := lipgloss.Height(m.footer())
	// border (2) + header and blank line (2) + newline before the footer
	vh := h - 5 - footer
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = w - 4
	m.viewport.Height = vh

	lines, at := m.treeLines()
	m.viewport.SetContent(strings.Join(lines, "\n"))
	switch {
	case at < m.viewport.YOffset:
		m.viewport.SetYOffset(at)
	case at >= m.viewport.YOffset+vh:
		m.viewport.SetYOffset(at - vh + 1)
	}
}

func (m *Model) View() string {
	w, h := m.size()
	if m.alert != "" {
		box := alertStyle.Render(errorStyle.Render(m.alert) + "\n\n" + mutedStyle.Render("press any key"))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
	}
	content := m.header() + "\n\n" + m.viewport.View() + "\n" + m.footer()
	return panelStyle.Render(content)
}

func (m *Model) header() string {
	var done, total int
	for _, n := range m.index {
		for _, it := range n.items {
			total++
			if it.completed {
				done++
			}
		}
	}
	button := buttonStyle.Render(m.exportLabel)
	if m.exportLabel == copiedLabel {
		button = copiedStyle.Render(m.exportLabel)
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		titleStyle.Render("Questions"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), total-done,
		accentStyle.Render("Total"), len(m.index),
		button,
	)
}

func (m *Model) footer() string {
	var lines []string
	switch m.mode {
	case modeRootForm:
		lines = append(lines, accentStyle.Render("New question: ")+m.rootForm.View())
	case modeConfirmDelete:
		lines = append(lines, errorStyle.Render("Delete this question and all its children? (y/n)"))
	case modeEditText, modeEditDue, modeEditItem, modeChildForm, modeItemForm:
		lines = append(lines, helpStyle.Render("enter: done • esc: cancel"))
	case modeAnswerForm:
		lines = append(lines, helpStyle.Render("ctrl+s: save answer • esc: cancel"))
	}
	if m.status != "" {
		lines = append(lines, errorStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

// treeLines renders every visible line and returns the index of the line
// holding the cursor.
func (m *Model) treeLines() ([]string, int) {
	switch {
	case m.loadFailed:
		return []string{errorStyle.Render("Could not load questions. See the log, then press R to retry.")}, 0
	case m.loading && len(m.roots) == 0:
		return []string{mutedStyle.Render("Loading…")}, 0
	case len(m.roots) == 0:
		return []string{mutedStyle.Render("No questions yet. Press n to add one.")}, 0
	}

	var (
		lines  []string
		rowIdx int
		at     int
	)
	prefix := func() string {
		defer func() { rowIdx++ }()
		if rowIdx == m.cursor {
			at = len(lines)
			return selectedStyle.Render("> ")
		}
		return "  "
	}

	var walk func(ns []*questionNode)
	walk = func(ns []*questionNode) {
		for _, n := range ns {
			indent := strings.Repeat("  ", n.level)
			lines = append(lines, prefix()+indent+m.questionLine(n))
			if n.folded {
				continue
			}
			sub := indent + "    "
			for _, it := range n.items {
				lines = append(lines, prefix()+sub+m.itemLine(it))
			}
			if n.itemForm != nil {
				line := "  " + sub + accentStyle.Render("+ ") + n.itemForm.View()
				if n.itemSubmitting {
					line += savingStyle.Render("  adding…")
				}
				lines = append(lines, line)
			}
			if n.hasAnswer {
				for i, l := range strings.Split(n.answer, "\n") {
					lead := "  "
					if i == 0 {
						lead = "↳ "
					}
					lines = append(lines, "  "+sub+mutedStyle.Render(lead)+answerStyle.Render(l))
				}
			}
			if n.answerForm != nil {
				for _, l := range strings.Split(n.answerForm.View(), "\n") {
					lines = append(lines, "  "+sub+l)
				}
			}
			walk(n.children)
			if n.childForm != nil {
				lines = append(lines, "  "+indent+"  "+accentStyle.Render("↳ new child: ")+n.childForm.View())
			}
		}
	}
	walk(m.roots)
	return lines, at
}

func (m *Model) questionLine(n *questionNode) string {
	fold := foldOpen
	if n.folded {
		fold = foldClosed
	}
	line := mutedStyle.Render(fold) + " " + levelStyle(n.level).Render("●") + " "

	if m.mode == modeEditText && m.active == n {
		line += n.text.View()
	} else if v := n.text.Value(); v != "" {
		line += v
	} else {
		line += mutedStyle.Render("(untitled)")
	}

	switch n.status {
	case model.StatusInProgress:
		line += " " + pendingStyle.Render("[in progress]")
	case model.StatusDone:
		line += " " + successStyle.Render("[done]")
	}

	switch {
	case m.mode == modeEditDue && m.active == n:
		line += "  " + mutedStyle.Render("due ") + n.due.View()
		if n.dueErr != "" {
			line += " " + errorStyle.Render(n.dueErr)
		}
	case n.timeFrame != "":
		line += "  " + mutedStyle.Render("due "+n.timeFrame)
		if n.remaining != "" {
			style := accentStyle
			if n.remaining == "Overdue" {
				style = overdueStyle
			}
			line += " " + style.Render(n.remaining)
		}
	}

	if n.folded {
		if hidden := len(n.items) + len(n.children); hidden > 0 {
			line += " " + mutedStyle.Render(fmt.Sprintf("(+%d)", hidden))
		}
	}
	return line
}

func (m *Model) itemLine(it *itemNode) string {
	box := mutedStyle.Render(boxUnchecked)
	if it.completed {
		box = successStyle.Render(boxChecked)
	}
	switch {
	case it.edit != nil:
		return box + " " + it.edit.View()
	case it.saving:
		return box + " " + savingStyle.Render(it.text)
	case it.completed:
		return box + " " + doneStyle.Render(it.text)
	}
	return box + " " + it.text
}
