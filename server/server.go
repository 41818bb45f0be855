// Package server exposes the studio REST API: auth, generation, history,
// brand voice, calendar, image settings, and export.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"marketing_content_studio/config"
	"marketing_content_studio/generator"
	"marketing_content_studio/media"
	"marketing_content_studio/store"
)

const generateTimeout = 120 * time.Second

type Server struct {
	store    *store.Store
	agent    *generator.Agent
	images   *media.Generator
	log      *zap.Logger
	cfg      config.Config
	limiters *limiterPool
}

func New(st *store.Store, agent *generator.Agent, images *media.Generator, log *zap.Logger, cfg config.Config) (*Server, error) {
	if st == nil {
		return nil, errors.New("store required")
	}
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:    st,
		agent:    agent,
		images:   images,
		log:      log,
		cfg:      cfg,
		limiters: newLimiterPool(cfg.RateLimitPerMinute),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	p := s.cfg.APIPrefix

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("POST "+p+"/register", s.handleRegister)
	mux.HandleFunc("POST "+p+"/login", s.handleLogin)
	mux.HandleFunc("POST "+p+"/login/form", s.handleLoginForm)
	mux.HandleFunc("GET "+p+"/me", s.auth(s.handleMe))

	mux.HandleFunc("POST "+p+"/generate", s.auth(s.handleGenerate))
	mux.HandleFunc("POST "+p+"/generate/stream", s.auth(s.handleGenerateStream))

	mux.HandleFunc("GET "+p+"/history", s.auth(s.handleHistory))
	mux.HandleFunc("POST "+p+"/history/{id}/save", s.auth(s.handleSaveGeneration))
	mux.HandleFunc("DELETE "+p+"/history/{id}", s.auth(s.handleDeleteGeneration))

	mux.HandleFunc("GET "+p+"/brandvoice", s.auth(s.admin(s.handleBrandVoiceList)))
	mux.HandleFunc("PUT "+p+"/brandvoice", s.auth(s.admin(s.handleBrandVoiceUpdate)))
	mux.HandleFunc("GET "+p+"/brand-voice/examples", s.auth(s.admin(s.handleExampleList)))
	mux.HandleFunc("POST "+p+"/brand-voice/examples", s.auth(s.admin(s.handleExampleCreate)))
	mux.HandleFunc("DELETE "+p+"/brand-voice/examples/{id}", s.auth(s.admin(s.handleExampleDelete)))
	mux.HandleFunc("POST "+p+"/brand-voice/analyze", s.auth(s.admin(s.handleBrandVoiceAnalyze)))

	mux.HandleFunc("POST "+p+"/improve/{action}", s.auth(s.handleImprove))
	mux.HandleFunc("POST "+p+"/hashtags/generate", s.auth(s.handleHashtags))
	mux.HandleFunc("POST "+p+"/series/generate", s.auth(s.handleSeries))
	mux.HandleFunc("POST "+p+"/content-plan/generate", s.auth(s.handleContentPlan))
	mux.HandleFunc("POST "+p+"/audience/analyze", s.auth(s.handleAudience))

	mux.HandleFunc("GET "+p+"/calendar", s.auth(s.handleCalendarList))
	mux.HandleFunc("POST "+p+"/calendar", s.auth(s.handleCalendarCreate))
	mux.HandleFunc("GET "+p+"/calendar/{id}", s.auth(s.handleCalendarGet))
	mux.HandleFunc("PUT "+p+"/calendar/{id}", s.auth(s.handleCalendarUpdate))
	mux.HandleFunc("DELETE "+p+"/calendar/{id}", s.auth(s.handleCalendarDelete))

	mux.HandleFunc("GET "+p+"/image-settings", s.auth(s.admin(s.handleImageSettingsGet)))
	mux.HandleFunc("PUT "+p+"/image-settings", s.auth(s.admin(s.handleImageSettingsUpdate)))
	mux.HandleFunc("POST "+p+"/media/generate-image", s.auth(s.handleGenerateImage))

	mux.HandleFunc("POST "+p+"/export/{format}", s.auth(s.handleExport))

	return s.logMiddleware(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Marketing Content Studio API",
		"docs":    s.cfg.APIPrefix,
		"version": "1.0",
	})
}

// --- Helpers ---

type messageResp struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mirrors the {"detail": ...} error shape the web client expects.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// storeError maps store sentinels onto HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrMalformedContent):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("store operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}
