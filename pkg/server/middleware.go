package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackup/pkg/audit"
	"github.com/matzehuels/stackup/pkg/observability"
)

type recordKey struct{}

// record collects what handlers learn about a request for its audit event.
type record struct {
	Action    string
	SessionID string
	Board     string
	Formats   []string
	Code      string
	Message   string
}

func recordFrom(ctx context.Context) *record {
	rec, _ := ctx.Value(recordKey{}).(*record)
	return rec
}

// observe logs every request, reports it to the HTTP hooks and records
// audit events once the handler has finished.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &record{}
		ctx := context.WithValue(r.Context(), recordKey{}, rec)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, route, status, elapsed)

		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", elapsed)

		s.recordAudit(r, rec, route, status, elapsed)
	})
}

func (s *Server) recordAudit(r *http.Request, rec *record, route string, status int, elapsed time.Duration) {
	action := rec.Action
	if action == "" {
		action = r.Method + " " + route
	}
	e := audit.Event{
		Type:       audit.TypeUserAction,
		Action:     action,
		RequestID:  middleware.GetReqID(r.Context()),
		SessionID:  rec.SessionID,
		Board:      rec.Board,
		Formats:    rec.Formats,
		Status:     status,
		Code:       rec.Code,
		RemoteAddr: r.RemoteAddr,
		Duration:   elapsed.Milliseconds(),
		Time:       time.Now().UTC(),
	}
	// The request context may already be canceled by the client.
	ctx := context.WithoutCancel(r.Context())
	if err := s.audit.Record(ctx, e); err != nil {
		s.logger.Warn("audit write failed", "error", err)
	}
	if status >= http.StatusInternalServerError {
		e.Type = audit.TypeServerError
		e.Message = rec.Message
		if err := s.audit.Record(ctx, e); err != nil {
			s.logger.Warn("audit write failed", "error", err)
		}
	}
}
