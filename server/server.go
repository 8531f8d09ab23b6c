// Package server exposes the portal over HTTP: server-rendered form pages,
// the submit flow and the submissions table with its column, sort and order
// interactions.
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	portal "github.com/coverleaf/go-portal"
	"github.com/coverleaf/go-portal/pkg/form"
	"github.com/coverleaf/go-portal/pkg/schema"
	"github.com/coverleaf/go-portal/pkg/table"
)

type Server struct {
	handler       http.Handler
	listenAddress string
	server        *http.Server

	portal *portal.Portal
	logger *zerolog.Logger

	// The submissions view survives across requests so that column toggles,
	// the sort cycle and manual row order persist between page loads.
	mu   sync.Mutex
	view *table.View
}

func NewServer(listenAddress string, p *portal.Portal, logger *zerolog.Logger) (*Server, error) {
	if p == nil {
		return nil, errors.New("server: portal is required")
	}
	if logger == nil {
		return nil, errors.New("server: logger is required")
	}

	router := chi.NewRouter()

	server := &Server{
		handler:       router,
		listenAddress: listenAddress,
		portal:        p,
		logger:        logger,
	}

	router.Use(middleware.Compress(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)

	router.Use(hlog.NewHandler(*logger))
	router.Use(hlog.RequestIDHandler("request_id", "x-request-id"))
	router.Use(hlog.MethodHandler("method"))
	router.Use(hlog.URLHandler("url"))
	router.Use(hlog.RemoteAddrHandler("remote_ip"))
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))

	router.Use(middleware.Recoverer)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/forms", http.StatusFound)
	})
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(portal.AssetsFS())))
	router.Get("/forms", server.handleFormIndex)
	router.Get("/forms/{formID}", server.handleFormPage)
	router.Post("/forms/{formID}", server.handleFormSubmit)
	router.Get("/submissions", server.handleSubmissions)
	router.Post("/submissions/sort", server.handleSort)
	router.Post("/submissions/toggle", server.handleToggle)
	router.Post("/submissions/reorder", server.handleReorder)

	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Serve() error {
	s.server = &http.Server{
		Addr:    s.listenAddress,
		Handler: s.handler,
	}

	s.logger.Info().Str("listen_address", s.listenAddress).Msg("Starting HTTP server")

	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server")
	s.server.SetKeepAlivesEnabled(false)
	return s.server.Shutdown(ctx)
}

// handleFormIndex lists the published forms, optionally filtered by the
// ?type= insurance category.
func (s *Server) handleFormIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.URL.Query().Get("type")

	var (
		forms []schema.Form
		err   error
	)
	if category == "" {
		forms, err = s.portal.Forms(ctx)
	} else {
		forms, err = s.portal.FormsFor(ctx, category)
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><body><h1>Insurance Forms</h1>\n<ul>\n")
	for _, f := range forms {
		fmt.Fprintf(&b, "<li><a href=%q>%s</a></li>\n",
			"/forms/"+f.FormID, html.EscapeString(schema.SanitizeLabel(f.Title)))
	}
	b.WriteString("</ul>\n</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

func (s *Server) handleFormPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	s.renderSession(w, r, sess)
}

// handleFormSubmit binds the posted values into a fresh session, submits, and
// renders the resulting state: field errors, the error banner, or the success
// banner over a cleared form.
func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	bindValues(sess, r.PostForm)

	if err := sess.Submit(r.Context()); err != nil {
		if !errors.Is(err, form.ErrValidation) {
			hlog.FromRequest(r).Warn().Err(err).Msg("submission failed")
		}
	}
	s.renderSession(w, r, sess)
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	view, err := s.currentView(r.Context(), r.URL.Query().Has("refresh"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	page, err := s.portal.RenderSubmissions(r.Context(), view, r.URL.Query().Get("renderer"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleSort advances the sort cycle for a column. Mutations ride on POST so
// link prefetchers cannot disturb the shared view.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	s.mutateView(w, r, func(view *table.View, column string) {
		view.SortBy(column)
	})
}

// handleToggle flips a column's visibility.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.mutateView(w, r, func(view *table.View, column string) {
		view.ToggleColumn(column)
	})
}

func (s *Server) mutateView(w http.ResponseWriter, r *http.Request, apply func(*table.View, string)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	column := r.PostForm.Get("column")
	if column == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	view, err := s.currentView(r.Context(), false)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	apply(view, column)
	// Redirect so a reload does not repeat the interaction.
	http.Redirect(w, r, "/submissions", http.StatusSeeOther)
}

// handleReorder applies a drag-and-drop row move: the source row is inserted
// at the position the target row occupied before the move.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	source := r.PostForm.Get("source")
	target := r.PostForm.Get("target")
	if source == "" || target == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	view, err := s.currentView(r.Context(), false)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	view.Reorder(source, target)
	http.Redirect(w, r, "/submissions", http.StatusSeeOther)
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) (*form.Session, bool) {
	formID := chi.URLParam(r, "formID")
	sess, err := s.portal.NewSession(r.Context(), formID)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("form_id", formID).Msg("form not available")
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) renderSession(w http.ResponseWriter, r *http.Request, sess *form.Session) {
	page, err := s.portal.RenderForm(r.Context(), sess, r.URL.Query().Get("renderer"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) currentView(ctx context.Context, refresh bool) (*table.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != nil && !refresh {
		return s.view, nil
	}
	view, err := s.portal.SubmissionsView(ctx)
	if err != nil {
		return nil, err
	}
	s.view = view
	return s.view, nil
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// bindValues converts posted form values into session inputs using the field
// kind: checkboxes become booleans, numbers are parsed, everything else stays
// a string. An absent checkbox is false; an absent input is left unset.
func bindValues(sess *form.Session, posted map[string][]string) {
	for _, field := range sess.Form().Fields {
		raw, present := posted[field.ID]
		switch field.Kind {
		case schema.FieldKindCheckbox:
			sess.Set(field.ID, present && raw[0] != "" && raw[0] != "false")
		case schema.FieldKindNumber:
			if !present || raw[0] == "" {
				sess.Set(field.ID, "")
				continue
			}
			if n, err := strconv.ParseFloat(raw[0], 64); err == nil {
				sess.Set(field.ID, n)
			} else {
				sess.Set(field.ID, raw[0])
			}
		default:
			if present {
				sess.Set(field.ID, raw[0])
			}
		}
	}
}
