package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/questree/internal/api"
	"github.com/idilsaglam/questree/internal/api/apitest"
	"github.com/idilsaglam/questree/internal/model"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	return api.New(srv.BaseURL(), api.Options{Timeout: 5 * time.Second}), srv
}

func TestCreateAndListTree(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	root, err := c.CreateQuestion(ctx, "Should we migrate?", nil)
	require.NoError(t, err)
	assert.NotZero(t, root.ID)

	child, err := c.CreateQuestion(ctx, "What does it cost?", &root.ID)
	require.NoError(t, err)

	qs, err := c.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Should we migrate?", qs[0].Text)
	require.Len(t, qs[0].Children, 1)
	assert.Equal(t, child.ID, qs[0].Children[0].ID)
}

func TestUpdateQuestionSendsTextAndTimeFrame(t *testing.T) {
	c, srv := newClient(t)
	id := srv.AddQuestion("old", nil)

	err := c.UpdateQuestion(context.Background(), id, model.QuestionUpdate{Text: "new", TimeFrame: ""})
	require.NoError(t, err)

	bodies := srv.Bodies("PUT /questions/{id}")
	require.Len(t, bodies, 1)
	assert.JSONEq(t, `{"text":"new","time_frame":""}`, bodies[0])
	assert.Equal(t, "new", srv.Tree()[0].Text)
}

func TestDeleteQuestionCascades(t *testing.T) {
	c, srv := newClient(t)
	root := srv.AddQuestion("root", nil)
	mid := srv.AddQuestion("mid", &root)
	leaf := srv.AddQuestion("leaf", &mid)
	srv.AddItem(leaf, "check", false)
	sibling := srv.AddQuestion("sibling", &root)

	require.NoError(t, c.DeleteQuestion(context.Background(), mid))

	qs, err := c.ListQuestions(context.Background())
	require.NoError(t, err)
	_, ok := model.Find(qs, mid)
	assert.False(t, ok)
	_, ok = model.Find(qs, leaf)
	assert.False(t, ok)
	_, ok = model.Find(qs, sibling)
	assert.True(t, ok)
}

func TestToResolveLifecycle(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	q := srv.AddQuestion("q", nil)
	keep := srv.AddItem(q, "keep me", false)

	it, err := c.CreateToResolve(ctx, q, "find owner")
	require.NoError(t, err)
	assert.Equal(t, "find owner", it.Text)
	assert.False(t, it.Completed)

	done := true
	got, err := c.UpdateToResolve(ctx, q, it.ID, model.ToResolvePatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "find owner", got.Text)

	text := "find an owner"
	got, err = c.UpdateToResolve(ctx, q, it.ID, model.ToResolvePatch{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "find an owner", got.Text)
	assert.True(t, got.Completed)

	require.NoError(t, c.DeleteToResolve(ctx, q, it.ID))
	items := srv.Tree()[0].ToResolve
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0].ID)
}

func TestSetAnswerAndExport(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	q := srv.AddQuestion("Which DB?", nil)
	srv.AddItem(q, "benchmark", true)

	text, err := c.SetAnswer(ctx, q, "Postgres")
	require.NoError(t, err)
	assert.Equal(t, "Postgres", text)

	md, err := c.ExportMarkdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, "- **Which DB?**\n\t- TO RESOLVE:\n\t\t- benchmark [x]\n\t- CURRENT ANSWER\n\t\t- Postgres", md)
}

func TestStatusErrorsWrapRequestFailed(t *testing.T) {
	c, srv := newClient(t)
	srv.FailNext("GET /questions", http.StatusInternalServerError)

	_, err := c.ListQuestions(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrRequestFailed)

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)

	err = c.DeleteQuestion(context.Background(), 404)
	assert.ErrorIs(t, err, api.ErrRequestFailed)
}

func TestDecodeAndTransportErrors(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"markdown":`))
	}))
	defer bad.Close()

	_, err := api.New(bad.URL, api.Options{}).ExportMarkdown(context.Background())
	assert.ErrorIs(t, err, api.ErrRequestFailed)

	bad.Close()
	_, err = api.New(bad.URL, api.Options{Timeout: time.Second}).ListQuestions(context.Background())
	assert.ErrorIs(t, err, api.ErrRequestFailed)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":3,"text":"x"}`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, api.Options{Token: "secret"})
	_, err := c.CreateToResolve(context.Background(), 1, "x")
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	assert.NotEmpty(t, got.Get("X-Request-Id"))
}
