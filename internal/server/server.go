package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"repairhub-backend/internal/chat"
	"repairhub-backend/internal/config"
	"repairhub-backend/internal/devicecheck"
	"repairhub-backend/internal/intent"
	"repairhub-backend/internal/llm"
	"repairhub-backend/internal/refdata"
	"repairhub-backend/internal/types"
)

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	pipeline *chat.Service
}

func NewServer(cfg config.Config) (*Server, error) {
	classifier, err := intent.Load()
	if err != nil {
		return nil, fmt.Errorf("load intent rules: %w", err)
	}

	cache := refdata.NewCache(refdata.FileLoader{Dir: cfg.DataDir})
	verifier := devicecheck.NewClient(cfg.DeviceCheckURL)
	pipeline := chat.NewService(classifier, cache, verifier, func() (llm.Provider, error) {
		return llm.New(llm.Config{
			Provider: cfg.LLMProvider,
			APIKey:   cfg.LLMAPIKey,
			Model:    cfg.LLMModel,
			BaseURL:  cfg.LLMBaseURL,
		})
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(cfg.AllowedOrigins, cfg.DefaultOrigin))

	s := &Server{router: r, cfg: cfg, pipeline: pipeline}
	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	return s, nil
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "messages must be a non-empty array", "provide at least one conversation turn")
		return
	}
	if !hasUserTurn(req.Messages) {
		s.writeError(w, http.StatusBadRequest, "messages must contain at least one user turn", "the last user turn drives intent classification")
		return
	}

	role := req.Role
	if role != "shop" {
		role = "customer"
	}

	sid := req.SessionID
	if sid == "" {
		sid = uuid.NewString()
	}
	w.Header().Set("X-Session-Id", sid)

	resp, err := s.pipeline.Handle(r.Context(), role, req.Messages)
	if err != nil {
		slog.Error("chat pipeline failed", "session", sid, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to generate a reply", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func hasUserTurn(turns []types.ChatTurn) bool {
	for _, t := range turns {
		if t.Role == "user" {
			return true
		}
	}
	return false
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg, debug string) {
	resp := types.ErrorResponse{Error: msg}
	if !s.cfg.IsProduction() {
		resp.Debug = debug
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
