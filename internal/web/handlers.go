package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/appconf/appconf/internal/codec"
	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/model"
	"github.com/appconf/appconf/internal/syncer"
)

// APIResponse is a generic API response
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// appsData is the payload of list endpoints.
type appsData struct {
	State string          `json:"state"`
	Apps  []model.AppItem `json:"apps"`
}

// configData is the payload of document endpoints.
type configData struct {
	State        string                `json:"state"`
	Config       *model.ConfigDocument `json:"config,omitempty"`
	VersionToken string                `json:"versionToken,omitempty"`
	RawURL       string                `json:"rawUrl,omitempty"`
}

// saveRequest carries the edited document plus the version token the browser
// loaded it with; a token mismatch means its view is stale.
type saveRequest struct {
	Config       model.ConfigDocument `json:"config"`
	VersionToken string               `json:"versionToken"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data := struct {
		Registry string
	}{
		Registry: fmt.Sprintf("%s/%s@%s", s.sess.Registry.RepoID, s.sess.Registry.Path, s.sess.Registry.Branch),
	}

	if err := s.index.Execute(w, data); err != nil {
		slog.Error("failed to render index", "error", err)
	}
}

func (s *Server) handleListApps(w http.ResponseWriter, r *http.Request) {
	if s.reg.State() == syncer.StateUnloaded || s.reg.State() == syncer.StateLoadFailed {
		if err := s.reg.Load(r.Context()); err != nil {
			var notFound *githubapi.NotFoundError
			if !errors.As(err, &notFound) {
				s.writeError(w, err)
				return
			}
		}
	}

	s.writeData(w, appsData{State: s.reg.State().String(), Apps: s.reg.Apps()})
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	if err := s.reg.CreateList(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, appsData{State: s.reg.State().String(), Apps: s.reg.Apps()})
}

func (s *Server) handleAddApp(w http.ResponseWriter, r *http.Request) {
	var app model.AppItem
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	if err := s.reg.Add(r.Context(), app); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, appsData{State: s.reg.State().String(), Apps: s.reg.Apps()})
}

func (s *Server) handleRemoveApp(w http.ResponseWriter, r *http.Request) {
	if err := s.reg.Remove(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, appsData{State: s.reg.State().String(), Apps: s.reg.Apps()})
}

func (s *Server) handleRenameApp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	if err := s.reg.Rename(r.Context(), r.PathValue("name"), req.Name); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, appsData{State: s.reg.State().String(), Apps: s.reg.Apps()})
}

func (s *Server) handleLoadConfig(w http.ResponseWriter, r *http.Request) {
	doc, err := s.reg.Select(r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.sync.Load(r.Context(), doc); err != nil {
		var notFound *githubapi.NotFoundError
		if errors.As(err, &notFound) {
			// The UI offers create from here.
			s.writeData(w, configData{State: doc.State().String()})
			return
		}

		s.writeError(w, err)
		return
	}

	s.writeData(w, configData{
		State:        doc.State().String(),
		Config:       doc.Config(),
		VersionToken: doc.VersionToken(),
		RawURL:       githubapi.RawFileURL(doc.App.RepoID, doc.App.Branch, doc.App.Path),
	})
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	doc := s.currentDoc(r.PathValue("name"))
	if doc == nil {
		var err error
		doc, err = s.reg.Select(r.PathValue("name"))
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	if err := s.sync.Create(r.Context(), doc, fmt.Sprintf("create config for %s", doc.App.Name)); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, configData{
		State:        doc.State().String(),
		Config:       doc.Config(),
		VersionToken: doc.VersionToken(),
		RawURL:       githubapi.RawFileURL(doc.App.RepoID, doc.App.Branch, doc.App.Path),
	})
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	doc := s.currentDoc(r.PathValue("name"))
	if doc == nil {
		s.writeJSON(w, http.StatusConflict, APIResponse{
			Success: false,
			Error:   "document is no longer selected, reload it first",
		})
		return
	}

	// The browser saves against the token it loaded; if the server-side
	// document has moved on, its view is stale.
	if req.VersionToken != doc.VersionToken() {
		s.writeJSON(w, http.StatusConflict, APIResponse{
			Success: false,
			Error:   "version token mismatch, reload the document",
		})
		return
	}

	if err := doc.Edit(func(c *model.ConfigDocument) {
		*c = req.Config
		if c.Licenses == nil {
			c.Licenses = []model.License{}
		}
	}); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.sync.Save(r.Context(), doc, fmt.Sprintf("update config for %s", doc.App.Name)); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, configData{
		State:        doc.State().String(),
		VersionToken: doc.VersionToken(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var app *model.AppItem
	for _, a := range s.reg.Apps() {
		if a.Name == name {
			app = &a
			break
		}
	}
	if app == nil {
		s.writeJSON(w, http.StatusNotFound, APIResponse{Success: false, Error: fmt.Sprintf("app %q not found", name)})
		return
	}

	commits, err := s.client.ListHistory(r.Context(), app.RepoID, app.Path, app.Branch, 20)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, commits)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeData(w, map[string]any{
		"sessionId": s.sess.ID,
		"registry":  s.sess.Registry,
		"hasToken":  s.sess.Token != "",
		"listState": s.reg.State().String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "ok"})
}

// currentDoc returns the selected document if it still targets the named
// app, nil otherwise. A response for a deselected document is dropped
// instead of applied.
func (s *Server) currentDoc(name string) *syncer.Document {
	doc := s.reg.Selected()
	if doc == nil || doc.App.Name != name {
		return nil
	}

	return doc
}

func (s *Server) writeData(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: fmt.Sprintf("invalid request body: %v", err)})
}

// writeError maps the protocol error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		vErr      *model.ValidationError
		authErr   *githubapi.AuthError
		notFound  *githubapi.NotFoundError
		conflict  *githubapi.ConflictError
		decodeErr *codec.DecodeError
		remote    *githubapi.RemoteError
	)

	switch {
	case errors.As(err, &vErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &decodeErr), errors.As(err, &remote):
		status = http.StatusBadGateway
	}

	s.writeJSON(w, status, APIResponse{Success: false, Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
