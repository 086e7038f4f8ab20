package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"timeline/internal/auth"
	"timeline/internal/config"
	apperrors "timeline/internal/errors"
	"timeline/internal/export"
	"timeline/internal/ics"
	appLog "timeline/internal/log"
	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/render/font"
	"timeline/internal/render/raster"
	"timeline/internal/render/svg"
	"timeline/internal/timeline"
)

// maxImportBytes caps POST /api/import bodies.
const maxImportBytes = 8 << 20

// Server exposes the editor over HTTP: a JSON API, rendered images and the
// embedded browser UI.
type Server struct {
	cfg      *config.Config
	editor   *timeline.Editor
	exporter *export.Exporter
	style    render.Style
	window   func() ics.ExpandConfig
	router   chi.Router
}

// embeddedStatic contains the browser editor.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server around editor.
func NewServer(cfg *config.Config, editor *timeline.Editor, exporter *export.Exporter) *Server {
	s := &Server{
		cfg:      cfg,
		editor:   editor,
		exporter: exporter,
		style:    render.StyleFromConfig(cfg.Style),
		window: func() ics.ExpandConfig {
			return ics.Window(time.Now(), resolveLocationOrUTC(cfg.Import.Timezone), cfg.Import.BackfillDays, cfg.Import.HorizonDays)
		},
	}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or hash means disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.PasswordHash != ""
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "user", s.cfg.BasicAuth.Username)
		r.Use(auth.Middleware(s.cfg.BasicAuth.Username, s.cfg.BasicAuth.PasswordHash, "/health"))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleListEvents)
		r.Post("/events", s.handleAddEvent)
		r.Delete("/events", s.handleClearEvents)
		r.Delete("/events/{index}", s.handleDeleteEvent)
		r.Get("/layout", s.handleLayout)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown API endpoint"))
		})
	})

	r.Get("/timeline.png", s.handleRaster(raster.FormatPNG))
	r.Get("/timeline.jpg", s.handleRaster(raster.FormatJPEG))
	r.Get("/timeline.svg", s.handleSVG)
	r.Get("/timeline.ics", s.handleICS)

	r.Handle("/*", s.staticFileServer())
	return r
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
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
	appLog.Info("shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventDTO is the JSON view of one list row.
type eventDTO struct {
	Index   int              `json:"index"`
	Title   string           `json:"title"`
	Date    string           `json:"date"`
	Display string           `json:"display"`
	Format  model.DateFormat `json:"format"`
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Events []eventDTO `json:"events"`
	Count  int        `json:"count"`
}

// addRequest is the POST /api/events body.
type addRequest struct {
	Title  string `json:"title"`
	Date   string `json:"date"`
	Format string `json:"format"`
}

// layoutResponse carries what the browser canvas needs to redraw.
type layoutResponse struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	BaselineY   float64            `json:"baseline_y"`
	MarginLeft  float64            `json:"margin_left"`
	MarginRight float64            `json:"margin_right"`
	Radius      float64            `json:"radius"`
	Style       render.Style       `json:"style"`
	Placements  []render.Placement `json:"placements"`
}

func (s *Server) listResponse() eventsResponse {
	events := s.editor.Events()
	dtos := make([]eventDTO, 0, len(events))
	for i, ev := range events {
		dtos = append(dtos, eventDTO{
			Index:   i,
			Title:   ev.Title,
			Date:    ev.Date.Format("2006-01-02"),
			Display: ev.Display,
			Format:  ev.Format,
		})
	}
	return eventsResponse{Events: dtos, Count: len(dtos)}
}

func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.listResponse())
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return
	}
	if _, err := s.editor.Add(req.Title, req.Date, req.Format); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, s.listResponse())
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "index %q is not a number", raw))
		return
	}
	if err := s.editor.Delete(idx); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.listResponse())
}

func (s *Server) handleClearEvents(w http.ResponseWriter, _ *http.Request) {
	s.editor.Clear()
	writeJSON(w, http.StatusOK, s.listResponse())
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	measure, err := font.Measurer(s.style.FontSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeInternal, err, "font unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Width:       render.Width,
		Height:      render.Height,
		BaselineY:   render.BaselineY,
		MarginLeft:  render.MarginLeft,
		MarginRight: render.MarginRight,
		Radius:      render.MarkerRadius,
		Style:       s.style,
		Placements:  render.Layout(s.editor.Events(), measure),
	})
}

func (s *Server) handleRaster(f raster.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := raster.Render(s.editor.Events(), s.style, f, s.cfg.Export.Quality)
		if err != nil {
			writeError(w, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "render failed"))
			return
		}
		writeBytes(w, f.ContentType(), data)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	data, err := svg.Render(s.editor.Events(), s.style)
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "render failed"))
		return
	}
	writeBytes(w, "image/svg+xml", data)
}

// handleExport is the browser's "Save Timeline as Image" download.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	events := s.editor.Events()
	data, err := s.exporter.Encode(events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.exporter.Filename()))
	writeBytes(w, s.exporter.ContentType(), data)
	appLog.Info("timeline image downloaded", "events", len(events), "bytes", len(data))
}

func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := ics.Encode(&buf, s.editor.Events(), time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "ics encode failed"))
		return
	}
	writeBytes(w, "text/calendar; charset=utf-8", buf.Bytes())
}

// handleImport merges the VEVENTs of an ICS request body into the list.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cannot read body"))
		return
	}
	format := s.editor.Input().Format
	events, err := ics.Decode(ics.Source{ID: "upload"}, body, s.window(), format)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := s.editor.AddEvents(events); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.listResponse())
}

// staticFileServer serves the embedded editor from internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}
	return http.FileServer(http.FS(sub))
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrCodeOutOfRange):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		appLog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Microsecond),
		)
	})
}

func resolveLocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to UTC", err, "name", name)
		return time.UTC
	}
	return loc
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	type errResp struct {
		Error string         `json:"error"`
		Code  apperrors.Code `json:"code,omitempty"`
	}
	if status >= http.StatusInternalServerError {
		appLog.Error("http request failed", err, "status", status)
	}
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, status, errResp{Error: strings.TrimSpace(apperrors.UserMessage(err)), Code: code})
}
