package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"notes-api/internals/config"
	"notes-api/internals/handlers/notes"
	"notes-api/internals/handlers/users"
	"notes-api/internals/storage"
)

func main() {
	cfg := config.MustLoad()

	store, err := storage.Open(cfg.Database.SQLitePath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.Database.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database ready", "path", cfg.Database.SQLitePath)

	router := http.NewServeMux()
	router.HandleFunc("POST /users", users.RegisterHandler(store))
	router.HandleFunc("POST /login", users.LoginHandler(store))
	router.HandleFunc("POST /logout", users.LogoutHandler(store))
	router.HandleFunc("POST /me/notes", notes.CreateHandler(store))
	router.HandleFunc("GET /me/notes", notes.ListHandler(store))
	router.HandleFunc("GET /notes/{note_id}", notes.GetHandler(store))
	router.HandleFunc("DELETE /notes/{note_id}", notes.DeleteHandler(store))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS", "PATCH", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: c.Handler(router),
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		slog.Error("failed to gracefully shutdown server", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
