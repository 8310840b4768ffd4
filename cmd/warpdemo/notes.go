package main

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iaconlabs/warpchain/host/nethttp"
	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/response"
	"github.com/iaconlabs/warpchain/route"
)

type note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type createNote struct {
	Title string   `json:"title" validate:"required,max=120"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags" validate:"max=8,dive,min=1"`
}

type listNotes struct {
	Tag   string `query:"tag"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type store struct {
	mu    sync.RWMutex
	next  int
	notes map[int]note
}

func newStore() *store {
	return &store{next: 1, notes: make(map[int]note)}
}

func (s *store) add(in createNote) note {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := note{ID: s.next, Title: in.Title, Body: in.Body, Tags: in.Tags, CreatedAt: time.Now().UTC()}
	s.notes[n.ID] = n
	s.next++
	return n
}

func (s *store) get(id int) (note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	return n, ok
}

func (s *store) remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notes[id]
	delete(s.notes, id)
	return ok
}

func (s *store) list(q listNotes) []note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]note, 0, len(s.notes))
	for _, n := range s.notes {
		if q.Tag == "" || slices.Contains(n.Tags, q.Tag) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b note) int { return a.ID - b.ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

type req = middleware.Request[nethttp.Base]

func routes(db *store, log *slog.Logger) *route.Router[nethttp.Base] {
	b := nethttp.New(route.WithLogger(log)).Use(
		middleware.RequestID(func(b nethttp.Base) string {
			return b.Request.Header.Get("X-Request-ID")
		}, middleware.RequestIDConfig{UseExisting: true}),
		middleware.AccessLog(log, func(b nethttp.Base) []slog.Attr {
			return []slog.Attr{
				slog.String("method", b.Request.Method),
				slog.String("path", b.Request.URL.Path),
			}
		}),
		echoRequestID,
	)

	return route.NewRouter(
		b.Get("/health").Handler(func(context.Context, *req) (response.Response, error) {
			return response.OK(map[string]string{"status": "ok"}), nil
		}),
		b.Get("/notes").Use(nethttp.Query[listNotes]()).Handler(func(_ context.Context, r *req) (response.Response, error) {
			return response.OK(db.list(middleware.MustField[listNotes](r, "query"))), nil
		}),
		b.Post("/notes").Use(nethttp.Body[createNote]()).Handler(func(_ context.Context, r *req) (response.Response, error) {
			n := db.add(middleware.MustField[createNote](r, "body"))
			return response.Created(n), nil
		}),
		b.Get("/notes/:id(int)").Handler(func(_ context.Context, r *req) (response.Response, error) {
			id, _ := r.RouteParams().Int("id")
			n, ok := db.get(id)
			if !ok {
				return response.NotFound(map[string]string{"error": "note not found"}), nil
			}
			return response.OK(n), nil
		}),
		b.Delete("/notes/:id(int)").Handler(func(_ context.Context, r *req) (response.Response, error) {
			id, _ := r.RouteParams().Int("id")
			if !db.remove(id) {
				return response.NotFound(map[string]string{"error": "note not found"}), nil
			}
			return response.NoContent(nil), nil
		}),
	)
}

// echoRequestID sends the request id back to the client.
func echoRequestID(_ context.Context, r *req) (middleware.Outcome, error) {
	if id, ok := middleware.Field[string](r, middleware.RequestIDField); ok {
		r.Base.Writer.Header().Set("X-Request-ID", id)
	}
	return middleware.Continue(), nil
}
