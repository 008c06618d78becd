package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	collectorService "github.com/rdl-tech/coupon-radar/internal/modules/collector/service"
	"github.com/rdl-tech/coupon-radar/internal/shared/config"
	apperrors "github.com/rdl-tech/coupon-radar/internal/shared/errors"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes the operational surface of the collector: health,
// status, lifecycle and the interactive login.
type Server struct {
	cfg       *config.Config
	collector *collectorService.Service
	logger    *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, collector *collectorService.Service) *Server {
	return &Server{
		cfg:       cfg,
		collector: collector,
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /stop", s.handleStop)
	mux.HandleFunc("POST /restart", s.handleRestart)
	mux.HandleFunc("POST /auth/send-code", s.handleSendCode)
	mux.HandleFunc("POST /auth/verify", s.handleVerify)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("ops server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.collector.Status())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.collector.Start(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "started"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.collector.Stop(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "stopped"})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.collector.Stop(); err != nil && !errors.Is(err, apperrors.ErrNotRunning) {
		s.writeError(w, err)
		return
	}
	if err := s.collector.Start(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "restarted"})
}

func (s *Server) handleSendCode(w http.ResponseWriter, r *http.Request) {
	if err := s.collector.SendCode(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "code sent"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	if err := s.collector.VerifyCode(r.Context(), body.Code, body.Password); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "authenticated"})
}

// writeError maps the app's error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrAlreadyRunning),
		errors.Is(err, apperrors.ErrNotRunning):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrAuthRequired),
		errors.Is(err, apperrors.ErrMissingCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNoActiveChannels),
		errors.Is(err, apperrors.ErrCodeExpired),
		errors.Is(err, apperrors.ErrPasswordNeeded):
		status = http.StatusBadRequest
	}

	if rl, ok := apperrors.IsRateLimited(err); ok {
		w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.Wait.Seconds()))
		status = http.StatusTooManyRequests
	}

	s.logger.Error("request failed", "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
