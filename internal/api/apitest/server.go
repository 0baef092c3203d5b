// Package apitest runs an in-memory questions API for tests.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/idilsaglam/questree/internal/model"
)

type question struct {
	id        int64
	parent    *int64
	text      string
	timeFrame string
	status    string
	answer    *string
	items     []model.ToResolveItem
	children  []int64
}

// Server is a fake questions API. Routes are counted by "METHOD pattern",
// e.g. "GET /questions", and can be made to fail on demand.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int64
	questions map[int64]*question
	roots     []int64
	calls     map[string]int
	failures  map[string]int
	bodies    map[string][]string
}

func New(t testing.TB) *Server {
	s := &Server{
		questions: map[int64]*question{},
		calls:     map[string]int{},
		failures:  map[string]int{},
		bodies:    map[string][]string{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root the client should be pointed at.
func (s *Server) BaseURL() string { return s.URL + "/api" }

func (s *Server) routes() http.Handler {
	api := chi.NewRouter()
	s.handle(api, http.MethodGet, "/questions", s.listQuestions)
	s.handle(api, http.MethodPost, "/questions", s.createQuestion)
	s.handle(api, http.MethodPut, "/questions/{id}", s.updateQuestion)
	s.handle(api, http.MethodDelete, "/questions/{id}", s.deleteQuestion)
	s.handle(api, http.MethodPost, "/questions/{id}/to-resolve", s.createItem)
	s.handle(api, http.MethodPut, "/questions/{id}/to-resolve/{item}", s.updateItem)
	s.handle(api, http.MethodDelete, "/questions/{id}/to-resolve/{item}", s.deleteItem)
	s.handle(api, http.MethodPost, "/questions/{id}/answer", s.setAnswer)
	s.handle(api, http.MethodGet, "/export/markdown", s.exportMarkdown)

	root := chi.NewRouter()
	root.Mount("/api", api)
	return root
}

func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := method + " " + pattern
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[key]++
		status, fail := s.failures[key]
		if fail {
			delete(s.failures, key)
		}
		s.mu.Unlock()
		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		h(w, req)
	}))
}

// Calls reports how many requests hit the route, failed ones included.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next request to route answer with status.
func (s *Server) FailNext(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Bodies returns the raw JSON bodies received by a mutating route, in order.
func (s *Server) Bodies(route string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies[route]...)
}

// AddQuestion seeds a question directly, bypassing the HTTP layer.
func (s *Server) AddQuestion(text string, parent *int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertQuestion(text, parent, "")
}

// AddItem seeds a to-resolve item on question id.
func (s *Server) AddItem(id int64, text string, completed bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.questions[id]
	s.nextID++
	q.items = append(q.items, model.ToResolveItem{ID: s.nextID, Text: text, Completed: completed})
	return s.nextID
}

// SetTimeFrame seeds a due date.
func (s *Server) SetTimeFrame(id int64, tf string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[id].timeFrame = tf
}

// Tree snapshots the stored forest the way GET /questions returns it.
func (s *Server) Tree() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree(s.roots)
}

func (s *Server) insertQuestion(text string, parent *int64, timeFrame string) int64 {
	s.nextID++
	id := s.nextID
	s.questions[id] = &question{id: id, parent: parent, text: text, timeFrame: timeFrame, status: model.StatusPending}
	if parent == nil {
		s.roots = append(s.roots, id)
	} else {
		p := s.questions[*parent]
		p.children = append(p.children, id)
	}
	return id
}

func (s *Server) tree(ids []int64) []model.Question {
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		q := s.questions[id]
		out = append(out, model.Question{
			ID:            q.id,
			Text:          q.text,
			TimeFrame:     q.timeFrame,
			Status:        q.status,
			CurrentAnswer: q.answer,
			ToResolve:     append([]model.ToResolveItem(nil), q.items...),
			Children:      s.tree(q.children),
		})
	}
	return out
}

func (s *Server) remove(id int64) {
	q := s.questions[id]
	for _, c := range q.children {
		s.remove(c)
	}
	delete(s.questions, id)
}

func without(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// lookup resolves the {id} URL param; the caller must hold s.mu.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*question, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return nil, false
	}
	q, ok := s.questions[id]
	if !ok {
		http.Error(w, fmt.Sprintf("question %d not found", id), http.StatusNotFound)
		return nil, false
	}
	return q, true
}

func (s *Server) lookupItem(w http.ResponseWriter, r *http.Request, q *question) (int, bool) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "item"), 10, 64)
	if err != nil {
		http.Error(w, "bad item id", http.StatusBadRequest)
		return 0, false
	}
	for i, it := range q.items {
		if it.ID == itemID {
			return i, true
		}
	}
	http.Error(w, fmt.Sprintf("item %d not found", itemID), http.StatusNotFound)
	return 0, false
}
