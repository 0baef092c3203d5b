package api

import (
	"context"
	"net/http"

	"github.com/idilsaglam/questree/internal/model"
)

const (
	questionsPath = "/questions"
	questionPath  = "/questions/{id}"
	toResolvePath = "/questions/{id}/to-resolve"
	itemPath      = "/questions/{id}/to-resolve/{item}"
	answerPath    = "/questions/{id}/answer"
	exportPath    = "/export/markdown"
)

// ListQuestions fetches the whole tree, roots first.
func (c *Client) ListQuestions(ctx context.Context) ([]model.Question, error) {
	var qs []model.Question
	if err := c.do(ctx, http.MethodGet, questionsPath, nil, nil, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// CreateQuestion adds a root question, or a child when parentID is non-nil.
func (c *Client) CreateQuestion(ctx context.Context, text string, parentID *int64) (model.Question, error) {
	var q model.Question
	err := c.do(ctx, http.MethodPost, questionsPath, nil, model.NewQuestion{Text: text, ParentID: parentID}, &q)
	return q, err
}

func (c *Client) UpdateQuestion(ctx context.Context, id int64, upd model.QuestionUpdate) error {
	return c.do(ctx, http.MethodPut, questionPath, idParams(id), upd, nil)
}

// DeleteQuestion removes a question; the server removes its descendants too.
func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, questionPath, idParams(id), nil, nil)
}

func (c *Client) CreateToResolve(ctx context.Context, questionID int64, text string) (model.ToResolveItem, error) {
	var it model.ToResolveItem
	err := c.do(ctx, http.MethodPost, toResolvePath, idParams(questionID), model.NewToResolve{Text: text}, &it)
	return it, err
}

func (c *Client) UpdateToResolve(ctx context.Context, questionID, itemID int64, patch model.ToResolvePatch) (model.ToResolveItem, error) {
	var it model.ToResolveItem
	err := c.do(ctx, http.MethodPut, itemPath, itemParams(questionID, itemID), patch, &it)
	return it, err
}

func (c *Client) DeleteToResolve(ctx context.Context, questionID, itemID int64) error {
	return c.do(ctx, http.MethodDelete, itemPath, itemParams(questionID, itemID), nil, nil)
}

// SetAnswer creates or replaces the question's answer and returns the stored text.
func (c *Client) SetAnswer(ctx context.Context, questionID int64, text string) (string, error) {
	var a model.Answer
	if err := c.do(ctx, http.MethodPost, answerPath, idParams(questionID), model.Answer{Text: text}, &a); err != nil {
		return "", err
	}
	return a.Text, nil
}

// ExportMarkdown asks the server to render the whole tree as markdown.
func (c *Client) ExportMarkdown(ctx context.Context) (string, error) {
	var out model.MarkdownExport
	if err := c.do(ctx, http.MethodGet, exportPath, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Markdown, nil
}
