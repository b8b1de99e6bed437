// Package server exposes the record store and projection engine over HTTP.
// Authentication is out of scope: the user is resolved from the X-User
// header, defaulting to a single-tenant "default" user.
package server

import (
	"log/slog"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/nestegg/nestegg/internal/calculation"
	"github.com/nestegg/nestegg/internal/storage"
)

const defaultUser = "default"

// Server routes API requests to the store and the projection engine.
type Server struct {
	store  storage.Store
	engine *calculation.ProjectionEngine
	logger *slog.Logger
}

// New creates a server around the given store and engine.
func New(store storage.Store, engine *calculation.ProjectionEngine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return fasthttp.ListenAndServe(addr, s.Handler())
}

// Handler returns the fasthttp request handler with all routes wired.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		method := string(ctx.Method())
		path := string(ctx.Path())
		s.logger.Debug("request", "method", method, "path", path)

		if path == "/healthz" && method == fasthttp.MethodGet {
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
			return
		}

		rest, ok := strings.CutPrefix(path, "/api/v1/")
		if !ok {
			writeError(ctx, fasthttp.StatusNotFound, "unknown path")
			return
		}
		parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")

		switch parts[0] {
		case "profile":
			s.routeProfile(ctx, method, parts)
		case "accounts":
			s.routeAccounts(ctx, method, parts)
		case "scenarios":
			s.routeScenarios(ctx, method, parts)
		case "projections":
			s.routeProjections(ctx, method, parts)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "unknown path")
		}
	}
}

func (s *Server) routeProfile(ctx *fasthttp.RequestCtx, method string, parts []string) {
	if len(parts) != 1 {
		writeError(ctx, fasthttp.StatusNotFound, "unknown path")
		return
	}
	switch method {
	case fasthttp.MethodGet:
		s.handleGetProfile(ctx)
	case fasthttp.MethodPut:
		s.handlePutProfile(ctx)
	default:
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) routeAccounts(ctx *fasthttp.RequestCtx, method string, parts []string) {
	switch {
	case len(parts) == 1 && method == fasthttp.MethodGet:
		s.handleListAccounts(ctx)
	case len(parts) == 1 && method == fasthttp.MethodPost:
		s.handleSaveAccount(ctx, "")
	case len(parts) == 2 && method == fasthttp.MethodGet:
		s.handleGetAccount(ctx, parts[1])
	case len(parts) == 2 && method == fasthttp.MethodPut:
		s.handleSaveAccount(ctx, parts[1])
	case len(parts) == 2 && method == fasthttp.MethodDelete:
		s.handleCloseAccount(ctx, parts[1])
	default:
		writeError(ctx, fasthttp.StatusNotFound, "unknown path")
	}
}

func (s *Server) routeScenarios(ctx *fasthttp.RequestCtx, method string, parts []string) {
	switch {
	case len(parts) == 1 && method == fasthttp.MethodGet:
		s.handleListScenarios(ctx)
	case len(parts) == 1 && method == fasthttp.MethodPost:
		s.handleSaveScenario(ctx, "")
	case len(parts) == 2 && method == fasthttp.MethodGet:
		s.handleGetScenario(ctx, parts[1])
	case len(parts) == 2 && method == fasthttp.MethodPut:
		s.handleSaveScenario(ctx, parts[1])
	case len(parts) == 2 && method == fasthttp.MethodDelete:
		s.handleDeleteScenario(ctx, parts[1])
	case len(parts) == 3 && parts[2] == "default" && method == fasthttp.MethodPost:
		s.handleSetDefaultScenario(ctx, parts[1])
	case len(parts) == 3 && parts[2] == "projection" && method == fasthttp.MethodPost:
		s.handleProjectScenario(ctx, parts[1])
	default:
		writeError(ctx, fasthttp.StatusNotFound, "unknown path")
	}
}

func (s *Server) routeProjections(ctx *fasthttp.RequestCtx, method string, parts []string) {
	if len(parts) == 2 && method == fasthttp.MethodGet {
		s.handleGetProjection(ctx, parts[1])
		return
	}
	writeError(ctx, fasthttp.StatusNotFound, "unknown path")
}

// userID resolves the requesting user.
func userID(ctx *fasthttp.RequestCtx) string {
	if user := string(ctx.Request.Header.Peek("X-User")); user != "" {
		return user
	}
	return defaultUser
}
