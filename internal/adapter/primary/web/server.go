package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"volumectl/internal/adapter/primary/bridge"
	"volumectl/internal/logging"
)

var log = logging.Named("Web")

// Server is a primary adapter that exposes the bridge over HTTP and WebSocket.
// It depends on the dispatcher only.
type Server struct {
	dispatcher *bridge.Dispatcher
	validate   *validator.Validate
	server     *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(d *bridge.Dispatcher, addr string) *Server {
	srv := &Server{
		dispatcher: d,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(srv.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Handler returns the routing table without the logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exec/{action}", s.handleExec)
	mux.HandleFunc("/api/volume", s.handleVolume)
	mux.HandleFunc("/api/volume/muted", s.handleMuted)
	mux.HandleFunc("/api/volume/info", s.handleInfo)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type execResponse struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

type setVolumePayload struct {
	Volume *float64 `json:"volume" validate:"required"`
}

func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, execResponse{Error: "read body: " + err.Error()})
		return
	}
	s.exec(w, r.PathValue("action"), body)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.exec(w, bridge.ActionGetVolume, nil)
	case http.MethodPut:
		var req setVolumePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, execResponse{Error: "invalid JSON"})
			return
		}
		if err := s.validate.Struct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, execResponse{Error: "volume is required"})
			return
		}
		args, _ := json.Marshal([]float64{*req.Volume})
		s.exec(w, bridge.ActionSetVolume, args)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMuted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.exec(w, bridge.ActionIsMuted, nil)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.exec(w, bridge.ActionGetVolumeInfo, nil)
}

func (s *Server) exec(w http.ResponseWriter, action string, args json.RawMessage) {
	result, err := s.dispatcher.Call(action, args)
	switch {
	case errors.Is(err, bridge.ErrUnhandledAction):
		respondJSON(w, http.StatusNotFound, execResponse{Error: err.Error()})
	case err != nil:
		respondJSON(w, http.StatusInternalServerError, execResponse{Error: err.Error()})
	default:
		respondJSON(w, http.StatusOK, execResponse{Success: true, Result: result})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warnf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
