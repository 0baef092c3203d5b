package apitest

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/idilsaglam/questree/internal/model"
)

// decode reads a JSON body and remembers it under route.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, route string, v any) bool {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	s.mu.Lock()
	s.bodies[route] = append(s.bodies[route], string(b))
	s.mu.Unlock()
	if err := render.DecodeJSON(bytes.NewReader(b), v); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Tree())
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text      string `json:"text"`
		ParentID  *int64 `json:"parent_id"`
		TimeFrame string `json:"time_frame"`
	}
	if !s.decode(w, r, "POST /questions", &body) {
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if body.ParentID != nil {
		if _, ok := s.questions[*body.ParentID]; !ok {
			http.Error(w, "parent not found", http.StatusNotFound)
			return
		}
	}
	id := s.insertQuestion(body.Text, body.ParentID, body.TimeFrame)
	render.JSON(w, r, model.Question{ID: id, Text: body.Text})
}

func (s *Server) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text      *string `json:"text"`
		TimeFrame *string `json:"time_frame"`
		Status    *string `json:"status"`
	}
	if !s.decode(w, r, "PUT /questions/{id}", &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if body.Text != nil {
		q.text = *body.Text
	}
	if body.TimeFrame != nil {
		q.timeFrame = *body.TimeFrame
	}
	if body.Status != nil {
		q.status = *body.Status
	}
	render.JSON(w, r, model.Question{ID: q.id, Text: q.text})
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if q.parent == nil {
		s.roots = without(s.roots, q.id)
	} else if p, ok := s.questions[*q.parent]; ok {
		p.children = without(p.children, q.id)
	}
	s.remove(q.id)
	render.JSON(w, r, map[string]string{"message": "Question deleted successfully"})
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var body model.NewToResolve
	if !s.decode(w, r, "POST /questions/{id}/to-resolve", &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.nextID++
	it := model.ToResolveItem{ID: s.nextID, Text: body.Text}
	q.items = append(q.items, it)
	render.JSON(w, r, it)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var body model.ToResolvePatch
	if !s.decode(w, r, "PUT /questions/{id}/to-resolve/{item}", &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.lookup(w, r)
	if !ok {
		return
	}
	i, ok := s.lookupItem(w, r, q)
	if !ok {
		return
	}
	if body.Text != nil {
		q.items[i].Text = *body.Text
	}
	if body.Completed != nil {
		q.items[i].Completed = *body.Completed
	}
	render.JSON(w, r, q.items[i])
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.lookup(w, r)
	if !ok {
		return
	}
	i, ok := s.lookupItem(w, r, q)
	if !ok {
		return
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
	render.JSON(w, r, map[string]string{"message": "To-resolve item deleted successfully"})
}

func (s *Server) setAnswer(w http.ResponseWriter, r *http.Request) {
	var body model.Answer
	if !s.decode(w, r, "POST /questions/{id}/answer", &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.lookup(w, r)
	if !ok {
		return
	}
	text := body.Text
	q.answer = &text
	render.JSON(w, r, model.Answer{Text: text})
}

func (s *Server) exportMarkdown(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, model.MarkdownExport{Markdown: Markdown(s.Tree())})
}
