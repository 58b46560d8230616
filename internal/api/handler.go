package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"newsdesk/internal/model"
	"newsdesk/internal/newsevents"
)

// Service is the read surface the handlers expose.
type Service interface {
	FetchLanding(ctx context.Context, terms string, limit int) newsevents.Landing
	FetchEvents(ctx context.Context, q newsevents.EventsQuery) newsevents.Result[model.EventCollection]
	FetchNews(ctx context.Context, q newsevents.NewsQuery) newsevents.Result[model.NewsCollection]
}

// Handler serves news-and-events content as JSON.
type Handler struct {
	svc Service
	log *slog.Logger
}

// NewHandler creates a new handler over svc.
func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Router returns the full API router with middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/landing", h.GetLanding)
	r.Get("/events", h.ListEvents)
	r.Get("/news", h.ListNews)
	return r
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// GetLanding handles GET /landing?q=&limit=
func (h *Handler) GetLanding(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	landing := h.svc.FetchLanding(r.Context(), r.URL.Query().Get("q"), limit)
	if err := landing.Err(); err != nil {
		h.unavailable(w, r, err)
		return
	}
	render.JSON(w, r, landing)
}

// ListEvents handles GET /events?q=&before=&since=&type=&limit=&skip=
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, skip, err := page(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	q := r.URL.Query()
	res := h.svc.FetchEvents(r.Context(), newsevents.EventsQuery{
		Terms:          q.Get("q"),
		StartBefore:    q.Get("before"),
		StartOnOrAfter: q.Get("since"),
		EventTypes:     listParam(r, "type"),
		Limit:          limit,
		Skip:           skip,
	})
	if !res.OK() {
		h.unavailable(w, r, res.Err)
		return
	}
	render.JSON(w, r, res.Value)
}

// ListNews handles GET /news?q=&before=&since=&limit=&skip=
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	limit, skip, err := page(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	q := r.URL.Query()
	res := h.svc.FetchNews(r.Context(), newsevents.NewsQuery{
		Terms:              q.Get("q"),
		PublishedBefore:    q.Get("before"),
		PublishedOnOrAfter: q.Get("since"),
		Limit:              limit,
		Skip:               skip,
	})
	if !res.OK() {
		h.unavailable(w, r, res.Err)
		return
	}
	render.JSON(w, r, res.Value)
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

// unavailable hides upstream details from clients; they are already logged
// by the fetcher.
func (h *Handler) unavailable(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Debug("api: content unavailable", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	render.Status(r, http.StatusBadGateway)
	render.JSON(w, r, ErrorResponse{Error: "content unavailable"})
}

func page(r *http.Request) (limit, skip int, err error) {
	if limit, err = intParam(r, "limit"); err != nil {
		return 0, 0, err
	}
	if skip, err = intParam(r, "skip"); err != nil {
		return 0, 0, err
	}
	return limit, skip, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// listParam accepts repeated and comma-separated values.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
