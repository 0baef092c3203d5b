package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/questree/internal/model"
	"github.com/idilsaglam/questree/internal/remaining"
	"github.com/idilsaglam/questree/internal/ui"
)

// -------------- rendering helpers --------------

func treeLines(qs []model.Question, now time.Time) []string {
	t := ui.Current()
	done, total := model.CountItems(qs)
	count := 0
	model.Walk(qs, func(model.Question, int) bool { count++; return true })

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Questions"),
		ui.C(t.Success, t.SymDone), done,
		ui.C(t.Pending, t.SymUnchecked), total-done,
		ui.C(t.Accent, "Total"), count,
	)
	lines := []string{
		header,
		ui.C(t.Muted, ui.ProgressBar(done, total, 28)),
		"",
	}
	if len(qs) == 0 {
		lines = append(lines, ui.C(t.Muted, "no questions"))
	}
	model.Walk(qs, func(q model.Question, level int) bool {
		lines = append(lines, questionLines(q, level, now)...)
		return true
	})
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `questree add -parent ID \"text\"`"))
	return lines
}

func questionLines(q model.Question, level int, now time.Time) []string {
	t := ui.Current()
	indent := strings.Repeat("  ", level)

	head := indent + ui.Dim(fmt.Sprintf("#%d", q.ID)) + " " + truncate(q.Text, 80)
	switch q.Status {
	case model.StatusInProgress:
		head += " " + ui.C(t.Pending, "[in progress]")
	case model.StatusDone:
		head += " " + ui.C(t.Success, "[done]")
	}
	if q.TimeFrame != "" {
		head += "  " + ui.C(t.Muted, "due "+q.TimeFrame)
		if left := remaining.ForTimeFrame(q.TimeFrame, now); left == "Overdue" {
			head += " " + ui.C(t.Overdue, left)
		} else if left != "" {
			head += " " + ui.C(t.Accent, left)
		}
	}

	out := []string{head}
	sub := indent + "    "
	for _, it := range q.ToResolve {
		box, color := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, sub+ui.C(color, box)+" "+truncate(it.Text, 80))
	}
	if q.CurrentAnswer != nil {
		out = append(out, sub+ui.C(t.Muted, "↳ ")+*q.CurrentAnswer)
	}
	return out
}

// levelOf reports the depth of id in the forest.
func levelOf(qs []model.Question, id int64) (level int, found bool) {
	model.Walk(qs, func(q model.Question, l int) bool {
		if q.ID == id {
			level, found = l, true
		}
		return !found
	})
	return
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
