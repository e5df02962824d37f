// Package web serves the browser editor: an embedded single-page UI plus the
// JSON API it talks to. All document logic stays in the registry and syncer;
// the handlers only translate HTTP to protocol calls.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/registry"
	"github.com/appconf/appconf/internal/session"
	"github.com/appconf/appconf/internal/syncer"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds the web server configuration
type Config struct {
	Port        int
	Host        string
	OpenBrowser bool
}

// DefaultConfig returns the default web server configuration
func DefaultConfig() Config {
	return Config{
		Port:        4173,
		Host:        "127.0.0.1",
		OpenBrowser: true,
	}
}

// Server wires the HTTP surface to the sync core.
type Server struct {
	httpServer *http.Server
	sess       *session.Context
	client     *githubapi.Client
	reg        *registry.Registry
	sync       *syncer.Syncer
	config     Config
	index      *template.Template
}

// New creates a web server over an established session.
func New(config Config, sess *session.Context, client *githubapi.Client) (*Server, error) {
	index, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		sess:   sess,
		client: client,
		reg:    registry.New(client, sess.Registry),
		sync:   syncer.New(client),
		config: config,
		index:  index,
	}, nil
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.loggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if s.config.OpenBrowser {
		url := fmt.Sprintf("http://%s", addr)
		go func() {
			time.Sleep(100 * time.Millisecond)
			if err := openBrowser(url); err != nil {
				slog.Warn("failed to open browser", "error", err, "url", url)
			}
		}()
	}

	slog.Info("editor server starting", "url", fmt.Sprintf("http://%s", addr))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()

	return s.Shutdown(context.Background()) //nolint:contextcheck // parent context cancelled, use background for shutdown
}

// Shutdown gracefully shuts down the web server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	slog.Info("shutting down editor server")

	return s.httpServer.Shutdown(shutdownCtx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// openBrowser opens the default browser to the given URL
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}

	return cmd.Start()
}
