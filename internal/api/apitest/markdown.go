package apitest

import (
	"strings"

	"github.com/idilsaglam/questree/internal/model"
)

// Markdown renders a forest in the server's export format: tab-indented
// bullets, bold question text, then TO RESOLVE and CURRENT ANSWER sections.
func Markdown(qs []model.Question) string {
	var lines []string
	for _, q := range qs {
		lines = appendMarkdown(lines, q, 0)
	}
	return strings.Join(lines, "\n")
}

func appendMarkdown(lines []string, q model.Question, level int) []string {
	indent := strings.Repeat("\t", level)

	head := "**" + q.Text + "**"
	if q.TimeFrame != "" {
		head += " (" + q.TimeFrame + ")"
	}
	if q.Status == model.StatusDone {
		head += " (Done)"
	}
	lines = append(lines, indent+"- "+head)

	if len(q.ToResolve) > 0 {
		lines = append(lines, indent+"\t- TO RESOLVE:")
		for _, it := range q.ToResolve {
			box := "[]"
			if it.Completed {
				box = "[x]"
			}
			lines = append(lines, indent+"\t\t- "+it.Text+" "+box)
		}
	}
	if q.CurrentAnswer != nil {
		lines = append(lines, indent+"\t- CURRENT ANSWER", indent+"\t\t- "+*q.CurrentAnswer)
	}
	for _, c := range q.Children {
		lines = appendMarkdown(lines, c, level+1)
	}
	return lines
}
