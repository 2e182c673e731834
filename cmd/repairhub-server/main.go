package main

import (
	"log/slog"
	"net/http"
	"os"

	"repairhub-backend/internal/config"
	"repairhub-backend/internal/logging"
	"repairhub-backend/internal/server"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Env)

	s, err := server.NewServer(cfg)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Port
	slog.Info("repairhub server listening", "addr", addr, "provider", cfg.LLMProvider)
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
