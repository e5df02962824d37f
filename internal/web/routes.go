package web

import (
	"io/fs"
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Static files
	staticSubFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSubFS))))

	// Editor page
	mux.HandleFunc("GET /{$}", s.handleIndex)

	// Apps list API
	mux.HandleFunc("GET /api/apps", s.handleListApps)
	mux.HandleFunc("POST /api/apps", s.handleAddApp)
	mux.HandleFunc("POST /api/apps/init", s.handleCreateList)
	mux.HandleFunc("DELETE /api/apps/{name}", s.handleRemoveApp)
	mux.HandleFunc("POST /api/apps/{name}/rename", s.handleRenameApp)

	// Config document API
	mux.HandleFunc("GET /api/apps/{name}/config", s.handleLoadConfig)
	mux.HandleFunc("PUT /api/apps/{name}/config", s.handleSaveConfig)
	mux.HandleFunc("POST /api/apps/{name}/config", s.handleCreateConfig)
	mux.HandleFunc("GET /api/apps/{name}/history", s.handleHistory)

	// System
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
}
