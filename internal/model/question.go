package model

// Question is one node of the tracked hierarchy as the server sends it.
// The client keeps no model of its own; every load replaces the last one.
type Question struct {
	ID            int64           `json:"id"`
	Text          string          `json:"text"`
	TimeFrame     string          `json:"time_frame"`
	Status        string          `json:"status,omitempty"`
	CurrentAnswer *string         `json:"current_answer,omitempty"`
	ToResolve     []ToResolveItem `json:"to_resolve,omitempty"`
	Children      []Question      `json:"children,omitempty"`
}

// ToResolveItem is a checklist entry attached to a question.
type ToResolveItem struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Question statuses known to the server.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// NextStatus cycles pending -> in_progress -> done -> pending.
// Unknown or empty statuses count as pending.
func NextStatus(s string) string {
	switch s {
	case StatusInProgress:
		return StatusDone
	case StatusDone:
		return StatusPending
	default:
		return StatusInProgress
	}
}

// Answer returns the current answer text, or "" when there is none.
func (q Question) Answer() string {
	if q.CurrentAnswer == nil {
		return ""
	}
	return *q.CurrentAnswer
}

// Walk visits the forest depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func Walk(qs []Question, fn func(q Question, level int) bool) {
	walk(qs, 0, fn)
}

func walk(qs []Question, level int, fn func(Question, int) bool) {
	for _, q := range qs {
		if !fn(q, level) {
			continue
		}
		walk(q.Children, level+1, fn)
	}
}

// Find returns the question with the given id anywhere in the forest.
func Find(qs []Question, id int64) (Question, bool) {
	var (
		found Question
		ok    bool
	)
	Walk(qs, func(q Question, _ int) bool {
		if ok {
			return false
		}
		if q.ID == id {
			found, ok = q, true
			return false
		}
		return true
	})
	return found, ok
}

// CountItems tallies to-resolve items over the whole forest.
func CountItems(qs []Question) (done, total int) {
	Walk(qs, func(q Question, _ int) bool {
		for _, it := range q.ToResolve {
			total++
			if it.Completed {
				done++
			}
		}
		return true
	})
	return
}
