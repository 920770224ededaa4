package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stackup/pkg/buildinfo"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/pipeline"
	"github.com/matzehuels/stackup/pkg/session"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// ArtifactInfo describes one stored artifact.
type ArtifactInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	URL         string `json:"url"`
}

// RenderResponse describes a render session.
type RenderResponse struct {
	ID        string              `json:"id"`
	Board     string              `json:"board"`
	Formats   []string            `json:"formats"`
	Artifacts []ArtifactInfo      `json:"artifacts"`
	ExpiresAt time.Time           `json:"expires_at"`
	Stats     *pipeline.Stats     `json:"stats,omitempty"`
	Cache     *pipeline.CacheInfo `json:"cache,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec := recordFrom(r.Context())
	rec.Action = "render.create"

	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Formats = opts.Formats

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "board document exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read board document"))
		return
	}
	opts.Document = body

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Board = res.Board.Name()

	sess := session.New(res.Board.Name(), res.DocumentHash, opts.Formats, res.Artifacts, s.opts.SessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	rec.SessionID = sess.ID

	resp := describe(sess)
	resp.Stats = &res.Stats
	resp.Cache = &res.CacheInfo
	w.Header().Set("Location", "/api/renders/"+sess.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec := recordFrom(r.Context())
	rec.Action = "render.get"

	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.SessionID, rec.Board = sess.ID, sess.Board
	writeJSON(w, http.StatusOK, describe(sess))
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	rec := recordFrom(r.Context())
	rec.Action = "render.artifact"

	name := chi.URLParam(r, "artifact")
	if err := errors.ValidateArtifactName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.SessionID, rec.Board = sess.ID, sess.Board

	data, ok := sess.Artifacts[name]
	if !ok {
		s.writeError(w, r, notFound("render %s has no artifact %q", sess.ID, name))
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	rec := recordFrom(r.Context())
	rec.Action = "render.delete"

	id := chi.URLParam(r, "id")
	rec.SessionID = id
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if stderrors.Is(err, session.ErrNotFound) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "render %q not found or expired", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	return sess, nil
}

// renderOptions applies the query parameters to the server defaults.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts.Render
	opts.Document = nil
	opts.Formats = append([]string(nil), opts.Formats...)
	q := r.URL.Query()

	if v := q.Get("formats"); v != "" {
		opts.Formats = nil
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.Formats = append(opts.Formats, f)
			}
		}
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"scale", &opts.Scale},
		{"resolution", &opts.Resolution},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number, got %q", p.name, v)
		}
		*p.dst = f
	}
	if v := q.Get("shadow"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "shadow must be a boolean, got %q", v)
		}
		opts.Shadow = b
	}
	opts.Refresh = q.Get("refresh") == "true"
	return opts, nil
}

func describe(sess *session.Session) RenderResponse {
	resp := RenderResponse{
		ID:        sess.ID,
		Board:     sess.Board,
		Formats:   sess.Formats,
		ExpiresAt: sess.ExpiresAt,
		Artifacts: []ArtifactInfo{},
	}
	for _, name := range sess.ArtifactNames() {
		resp.Artifacts = append(resp.Artifacts, ArtifactInfo{
			Name:        name,
			ContentType: pipeline.ContentType(name),
			Size:        len(sess.Artifacts[name]),
			URL:         "/api/renders/" + sess.ID + "/" + name,
		})
	}
	return resp
}
