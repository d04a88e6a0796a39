// Package web serves the browser labeling front-end. Handlers are a thin
// adapter: every route translates one request into one session command, so a
// browser session and a CLI session given the same commands persist the same
// metadata. Requests are ordinary synchronous HTTP round trips; nothing is
// held open between them.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mdobak/go-xerrors"

	"github.com/fedepasi/racetagger-training/models"
	"github.com/fedepasi/racetagger-training/scene"
	"github.com/fedepasi/racetagger-training/session"
	"github.com/fedepasi/racetagger-training/utils"
)

// Server drives one labeling session over HTTP.
type Server struct {
	sess      *session.Session
	scenesDir string
	logger    *slog.Logger
	page      *template.Template
}

// NewServer wires the handlers around an open session.
func NewServer(sess *session.Session, scenesDir string) *Server {
	return &Server{
		sess:      sess,
		scenesDir: scenesDir,
		logger:    utils.GetLogger(),
		page:      template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// Handler returns the route mux for the labeling UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /scene/{id}", s.handleSceneImage)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/assign", s.handleAssign)
	mux.HandleFunc("POST /api/skip", s.handleSkip)
	mux.HandleFunc("POST /api/delete", s.handleDelete)
	mux.HandleFunc("POST /api/navigate", s.handleNavigate)
	mux.HandleFunc("POST /api/save", s.handleSave)
	return mux
}

type stateResponse struct {
	ProjectName   string              `json:"project_name"`
	Scenes        []models.SceneInfo  `json:"scenes"`
	DeletedScenes []int               `json:"deleted_scenes"`
	Cursor        int                 `json:"cursor"`
	AtEnd         bool                `json:"at_end"`
	Remaining     int                 `json:"remaining"`
	Complete      bool                `json:"complete"`
	Labels        map[string]string   `json:"labels"`
	Shortcuts     map[string][]string `json:"shortcuts"`
}

func (s *Server) state() stateResponse {
	meta := s.sess.Metadata()
	deleted := meta.DeletedScenes
	if deleted == nil {
		deleted = []int{}
	}
	return stateResponse{
		ProjectName:   meta.Config.ProjectName,
		Scenes:        meta.Scenes,
		DeletedScenes: deleted,
		Cursor:        s.sess.Cursor(),
		AtEnd:         s.sess.AtEnd(),
		Remaining:     s.sess.Remaining(),
		Complete:      s.sess.Complete(),
		Labels:        meta.Config.Labels,
		Shortcuts:     meta.Config.Shortcuts,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	meta := s.sess.Metadata()
	data := struct {
		ProjectName string
		SceneCount  int
	}{
		ProjectName: meta.Config.ProjectName,
		SceneCount:  len(meta.Scenes),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", slog.Any("error", xerrors.New(err)))
	}
}

func (s *Server) handleSceneImage(w http.ResponseWriter, r *http.Request) {
	var sceneID int
	if _, err := fmt.Sscanf(r.PathValue("id"), "%d", &sceneID); err != nil {
		http.Error(w, "invalid scene id", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.scenesDir, scene.RepresentativeFilename(sceneID))
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.state())
}

type assignRequest struct {
	Key    string `json:"key"`
	Custom string `json:"custom"`
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case req.Custom != "":
		err = s.sess.AssignCustom(req.Custom)
	case req.Key != "":
		_, err = s.sess.Assign(req.Key)
	default:
		http.Error(w, "key or custom label required", http.StatusBadRequest)
		return
	}

	if err != nil {
		s.commandError(w, "assign", err)
		return
	}
	s.writeJSON(w, s.state())
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.sess.Skip()
	s.writeJSON(w, s.state())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Delete(); err != nil {
		s.commandError(w, "delete", err)
		return
	}
	s.writeJSON(w, s.state())
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Direction {
	case "next":
		s.sess.Next()
	case "prev":
		s.sess.Prev()
	default:
		http.Error(w, "direction must be next or prev", http.StatusBadRequest)
		return
	}
	s.writeJSON(w, s.state())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Close(); err != nil {
		s.logger.Error("failed to save metadata", slog.Any("error", xerrors.New(err)))
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// commandError maps session errors onto HTTP statuses: an exhausted cursor is
// a client-visible conflict, a bad key is a client mistake, anything else is
// a persistence failure.
func (s *Server) commandError(w http.ResponseWriter, command string, err error) {
	switch {
	case errors.Is(err, session.ErrEndOfList):
		http.Error(w, "no scene under cursor", http.StatusConflict)
	case errors.Is(err, session.ErrUnknownKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("command failed",
			slog.String("command", command),
			slog.Any("error", xerrors.New(err)))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", xerrors.New(err)))
	}
}
