package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/idilsaglam/questree/internal/model"
	"github.com/idilsaglam/questree/internal/remaining"
)

// questionNode is one rendered question with every input and timer handle
// it owns. Nodes live for exactly one load generation.
type questionNode struct {
	id     int64
	level  int
	parent *questionNode

	text      textinput.Model
	due       textinput.Model
	dueErr    string
	timeFrame string // committed due date, sent with every PUT
	status    string
	remaining string
	folded    bool

	saveSeq int  // debounce: only the tick carrying the latest seq saves
	unsaved bool // a debounced save has not fired yet
	ticking bool // a remaining-time refresh is scheduled

	items          []*itemNode
	itemForm       *textinput.Model
	itemSubmitting bool

	answer     string
	hasAnswer  bool
	answerForm *textarea.Model

	childForm *textinput.Model
	children  []*questionNode
}

type itemNode struct {
	id        int64
	text      string
	completed bool
	edit      *textinput.Model // non-nil while being edited
	saving    bool
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func newItemNode(it model.ToResolveItem) *itemNode {
	return &itemNode{id: it.ID, text: it.Text, completed: it.Completed}
}

// buildNode turns a server question into its rendered subtree.
// index collects every node by id for message routing.
func buildNode(q model.Question, level int, parent *questionNode, now time.Time, index map[int64]*questionNode) *questionNode {
	n := &questionNode{
		id:        q.ID,
		level:     level,
		parent:    parent,
		text:      newInput("Question", 500),
		due:       newInput("YYYY-MM-DD", 10),
		timeFrame: q.TimeFrame,
		status:    q.Status,
		remaining: remaining.ForTimeFrame(q.TimeFrame, now),
	}
	n.text.SetValue(q.Text)
	n.due.SetValue(q.TimeFrame)
	if q.CurrentAnswer != nil {
		n.answer, n.hasAnswer = *q.CurrentAnswer, true
	}
	for _, it := range q.ToResolve {
		n.items = append(n.items, newItemNode(it))
	}
	for _, c := range q.Children {
		n.children = append(n.children, buildNode(c, level+1, n, now, index))
	}
	index[n.id] = n
	return n
}

func (n *questionNode) update() model.QuestionUpdate {
	return model.QuestionUpdate{Text: n.text.Value(), TimeFrame: n.timeFrame, Status: n.status}
}

func (n *questionNode) item(id int64) (int, *itemNode) {
	for i, it := range n.items {
		if it.id == id {
			return i, it
		}
	}
	return -1, nil
}

// row is one selectable line: a question, or one of its to-resolve items.
type row struct {
	node *questionNode
	item *itemNode
}

// visibleRows flattens the tree, skipping the content of folded nodes.
func visibleRows(roots []*questionNode) []row {
	var out []row
	var walk func(ns []*questionNode)
	walk = func(ns []*questionNode) {
		for _, n := range ns {
			out = append(out, row{node: n})
			if n.folded {
				continue
			}
			for _, it := range n.items {
				out = append(out, row{node: n, item: it})
			}
			walk(n.children)
		}
	}
	walk(roots)
	return out
}
