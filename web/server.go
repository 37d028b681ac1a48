// ABOUTME: HTTP server for the block site: public pages, the admin editor, component stories, and the JSON API.
// ABOUTME: Every handler reads through the store on each request; nothing is cached in memory.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/2389-research/blocksite/content"
	"github.com/2389-research/blocksite/logging"
	"github.com/2389-research/blocksite/metrics"
	"github.com/2389-research/blocksite/render"
	"github.com/2389-research/blocksite/stories"
	"github.com/2389-research/blocksite/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes caps admin API request bodies.
const maxBodyBytes = 1 << 20

// Server serves the public site and the admin surface over one chi router.
type Server struct {
	store     *store.Store
	stories   *stories.Registry
	templates *TemplateEngine
	router    chi.Router
	addr      string
	siteTitle string
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr      string // listen address (default: "127.0.0.1:3000")
	SiteTitle string // <title> of the homepage (default: "Eng Manager")
}

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logging.OrNop(l)
	}
}

// WithMetrics enables request metrics and mounts /metrics.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a Server backed by st.
func NewServer(st *store.Store, cfg ServerConfig, opts ...ServerOption) (*Server, error) {
	if st == nil {
		return nil, errors.New("store must not be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:3000"
	}
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = "Eng Manager"
	}

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}
	reg, err := stories.Load()
	if err != nil {
		return nil, fmt.Errorf("loading stories: %w", err)
	}

	s := &Server{
		store:     st,
		stories:   reg,
		templates: tmpl,
		addr:      cfg.Addr,
		siteTitle: cfg.SiteTitle,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.buildRouter()
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(middleware.Recoverer)
	r.NotFound(s.handleNotFound)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	staticFS, err := fs.Sub(StaticFS, "static")
	if err != nil {
		s.logger.Warn("failed to create static sub-FS", zap.Error(err))
	} else {
		files := http.FileServer(http.FS(staticFS))
		r.Handle("/assets/*", files)
		r.Handle("/features/*", files)
	}

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", s.handleAdminIndex)
		r.Get("/route/", s.handleRouteIndex)
		r.Get("/route/{name}/", s.handleEditor)
		r.Get("/features/", s.handleStoriesIndex)
		r.Get("/features/{name}/", s.handleStory)

		r.Route("/api", func(r chi.Router) {
			r.Get("/routes", s.handleGetRoutes)
			r.Put("/routes", s.handlePutRoutes)
			r.Get("/route/{name}", s.handleGetBlocks)
			r.Post("/route/{name}", s.handleSaveBlocks)
			r.Post("/homepage", s.handleSaveHomepage)
		})
	})

	r.Get("/", s.handlePage)
	r.Get("/*", s.handlePage)

	return r
}

// handleHealth returns a JSON health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePage renders the route whose path matches the request. The homepage
// falls back to the seed content when it has none.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	route, ok := s.store.FindRouteByPath(r.URL.Path)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	blocks, err := s.store.LoadRoute(route)
	if err != nil {
		s.logger.Warn("cannot load blocks", zap.String("route", route.Name), zap.Error(err))
	}
	title := s.siteTitle
	if route.Name == store.HomepageRoute {
		blocks = s.store.DefaultIfEmpty(route.Name, blocks)
	} else {
		title = route.Name + " - " + s.siteTitle
	}

	body, err := render.Blocks(blocks)
	if err != nil {
		s.serverError(w, "render page", err, zap.String("route", route.Name))
		return
	}

	s.renderPage(w, http.StatusOK, "page.html", PageData{
		Title:       title,
		Stylesheets: render.Stylesheets(blocks),
		Body:        body,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusNotFound, "not_found.html", PageData{
		Title:       "Not Found",
		Stylesheets: []string{render.GlobalStylesheet},
		Message:     fmt.Sprintf("Nothing is published at %s.", r.URL.Path),
	})
}

func (s *Server) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, "admin_index.html", adminPage("Admin"))
}

func (s *Server) handleRouteIndex(w http.ResponseWriter, r *http.Request) {
	data := adminPage("Routes - Admin")
	data.Routes = s.store.LoadRoutes()
	s.renderPage(w, http.StatusOK, "route_index.html", data)
}

// handleEditor renders the block editor for one route, seeded with whatever
// LoadRoute returns (empty when the file is missing or corrupt).
func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	route, ok := s.store.FindRoute(name)
	if !ok {
		s.adminNotFound(w, fmt.Sprintf("Route %q is not in the routes index.", name))
		return
	}

	blocks, err := s.store.LoadRoute(route)
	if err != nil {
		s.logger.Warn("cannot load blocks", zap.String("route", name), zap.Error(err))
	}
	doc, err := content.MarshalDocument(content.NewDocument(blocks))
	if err != nil {
		s.serverError(w, "encode document", err, zap.String("route", name))
		return
	}

	templates := make(map[content.BlockType]json.RawMessage)
	for _, bt := range content.BlockTypes() {
		b, err := content.NewBlock(bt)
		if err != nil {
			s.serverError(w, "block template", err)
			return
		}
		raw, err := content.MarshalBlock(b)
		if err != nil {
			s.serverError(w, "block template", err)
			return
		}
		templates[bt] = raw
	}

	data := adminPage("Edit " + name)
	data.Route = route
	data.DocumentJSON = string(doc)
	data.BlockTypes = content.BlockTypes()
	data.BlockTemplates = templates
	s.renderPage(w, http.StatusOK, "editor.html", data)
}

func (s *Server) handleStoriesIndex(w http.ResponseWriter, r *http.Request) {
	data := adminPage("Component Stories - Admin")
	data.Stories = s.stories.All()
	s.renderPage(w, http.StatusOK, "stories_index.html", data)
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	story, ok := s.stories.Get(name)
	if !ok {
		s.adminNotFound(w, fmt.Sprintf("No story named %q.", name))
		return
	}

	body, err := story.Render()
	if err != nil {
		s.serverError(w, "render story", err, zap.String("story", name))
		return
	}
	fixture, err := story.FixtureJSON()
	if err != nil {
		s.serverError(w, "encode fixture", err, zap.String("story", name))
		return
	}

	data := adminPage(story.Title + " Story - Component Preview")
	data.Stylesheets = story.Stylesheets()
	data.Story = story
	data.Body = body
	data.FixtureJSON = fixture
	s.renderPage(w, http.StatusOK, "story.html", data)
}

func (s *Server) handleGetRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.LoadRoutes())
}

func (s *Server) handlePutRoutes(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var routes []store.Route
	if err := json.Unmarshal(body, &routes); err != nil {
		http.Error(w, fmt.Sprintf("Invalid routes: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.store.SaveRoutes(routes); err != nil {
		s.saveError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Routes updated successfully")
}

// handleGetBlocks returns the route's document as LoadRouteBlocks sees it.
func (s *Server) handleGetBlocks(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	blocks, err := s.store.LoadRouteBlocks(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, content.NewDocument(blocks))
}

func (s *Server) handleSaveBlocks(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.saveBlocks(w, r, name, fmt.Sprintf("Route %s updated successfully", name))
}

func (s *Server) handleSaveHomepage(w http.ResponseWriter, r *http.Request) {
	s.saveBlocks(w, r, store.HomepageRoute, "Homepage updated successfully")
}

// saveBlocks decodes a {"blocks": [...]} body, assigns ids to blocks that
// lack one, and replaces the route's content file.
func (s *Server) saveBlocks(w http.ResponseWriter, r *http.Request, name, okMessage string) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := content.ParseDocument(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid document: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.store.SaveBlocks(name, content.EnsureBlockIDs(doc.Blocks)); err != nil {
		s.saveError(w, err)
		return
	}
	s.logger.Info("blocks saved", zap.String("route", name), zap.Int("blocks", len(doc.Blocks)))
	writeText(w, http.StatusOK, okMessage)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isMaxBytesError(err) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// saveError maps store write failures to HTTP statuses.
func (s *Server) saveError(w http.ResponseWriter, err error) {
	if store.IsRouteError(err) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Error("save failed", zap.Error(err))
	http.Error(w, fmt.Sprintf("Failed to save: %v", err), http.StatusInternalServerError)
}

func (s *Server) adminNotFound(w http.ResponseWriter, msg string) {
	data := adminPage("Not Found")
	data.Message = msg
	s.renderPage(w, http.StatusNotFound, "not_found.html", data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data PageData) {
	if err := s.templates.RenderStatus(w, status, name, data); err != nil {
		s.serverError(w, "render "+name, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, what string, err error, fields ...zap.Field) {
	s.logger.Error(what, append(fields, zap.Error(err))...)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func adminPage(title string) PageData {
	return PageData{
		Title:       title,
		Admin:       true,
		Stylesheets: []string{render.GlobalStylesheet},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}

// isMaxBytesError reports whether err (or any error in its chain) is an
// *http.MaxBytesError, indicating the request body exceeded the size limit.
func isMaxBytesError(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
