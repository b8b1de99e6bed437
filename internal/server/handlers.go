package server

import (
	"errors"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/nestegg/nestegg/internal/config"
	"github.com/nestegg/nestegg/internal/domain"
	"github.com/nestegg/nestegg/internal/storage"
)

// DefaultProjectionSpan is the horizon used when the caller does not supply
// an end year.
const DefaultProjectionSpan = 60

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// projectionRequest is the optional body of a projection call; zero fields
// fall back to the defaults.
type projectionRequest struct {
	StartYear int `json:"start_year,omitempty"`
	EndYear   int `json:"end_year,omitempty"`
}

// projectionResponse wraps the stored result with its record id.
type projectionResponse struct {
	ID string `json:"id"`
	domain.ProjectionResult
}

func (s *Server) handleGetProfile(ctx *fasthttp.RequestCtx) {
	profile, err := s.store.GetProfile(ctx, userID(ctx))
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, profile)
}

func (s *Server) handlePutProfile(ctx *fasthttp.RequestCtx) {
	var profile domain.UserProfile
	if err := json.Unmarshal(ctx.PostBody(), &profile); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.store.PutProfile(ctx, userID(ctx), &profile); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, profile)
}

func (s *Server) handleListAccounts(ctx *fasthttp.RequestCtx) {
	accounts, err := s.store.ListAccounts(ctx, userID(ctx))
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	writeJSON(ctx, fasthttp.StatusOK, accounts)
}

func (s *Server) handleGetAccount(ctx *fasthttp.RequestCtx, accountID string) {
	acct, err := s.store.GetAccount(ctx, userID(ctx), accountID)
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, acct)
}

func (s *Server) handleSaveAccount(ctx *fasthttp.RequestCtx, accountID string) {
	var acct domain.Account
	if err := json.Unmarshal(ctx.PostBody(), &acct); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	status := fasthttp.StatusOK
	if accountID == "" {
		acct.ID = ""
		status = fasthttp.StatusCreated
	} else {
		acct.ID = accountID
	}
	if err := s.store.SaveAccount(ctx, userID(ctx), &acct); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, status, acct)
}

func (s *Server) handleCloseAccount(ctx *fasthttp.RequestCtx, accountID string) {
	if err := s.store.CloseAccount(ctx, userID(ctx), accountID); err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "closed"})
}

func (s *Server) handleListScenarios(ctx *fasthttp.RequestCtx) {
	scenarios, err := s.store.ListScenarios(ctx, userID(ctx))
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	if scenarios == nil {
		scenarios = []domain.Scenario{}
	}
	writeJSON(ctx, fasthttp.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(ctx *fasthttp.RequestCtx, scenarioID string) {
	scenario, err := s.store.GetScenario(ctx, userID(ctx), scenarioID)
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, scenario)
}

func (s *Server) handleSaveScenario(ctx *fasthttp.RequestCtx, scenarioID string) {
	var scenario domain.Scenario
	if err := json.Unmarshal(ctx.PostBody(), &scenario); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	// Bucket tiling is enforced here, at creation time; the engine relies
	// on it and will silently skip uncovered years otherwise.
	if err := config.ValidateScenario(&scenario); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	status := fasthttp.StatusOK
	if scenarioID == "" {
		scenario.ID = ""
		status = fasthttp.StatusCreated
	} else {
		scenario.ID = scenarioID
	}
	if err := s.store.SaveScenario(ctx, userID(ctx), &scenario); err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, status, scenario)
}

func (s *Server) handleDeleteScenario(ctx *fasthttp.RequestCtx, scenarioID string) {
	if err := s.store.DeleteScenario(ctx, userID(ctx), scenarioID); err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSetDefaultScenario(ctx *fasthttp.RequestCtx, scenarioID string) {
	if err := s.store.SetDefaultScenario(ctx, userID(ctx), scenarioID); err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "default set"})
}

func (s *Server) handleProjectScenario(ctx *fasthttp.RequestCtx, scenarioID string) {
	user := userID(ctx)

	var req projectionRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	currentYear := s.engine.Now().Year()
	if req.StartYear == 0 {
		req.StartYear = currentYear
	}
	if req.EndYear == 0 {
		req.EndYear = currentYear + DefaultProjectionSpan
	}

	scenario, err := s.store.GetScenario(ctx, user, scenarioID)
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	profile, err := s.store.GetProfile(ctx, user)
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	accounts, err := s.store.ListAccounts(ctx, user)
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}

	result, err := s.engine.Project(ctx, scenario, profile, accounts, req.StartYear, req.EndYear)
	if err != nil {
		// Precondition violations: reject, persist nothing.
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.SaveProjection(ctx, user, result)
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}

	s.logger.Info("projection computed",
		"user", user, "scenario", scenario.Name,
		"years", len(result.Years), "deficit_years", result.Summary.DeficitYears)
	writeJSON(ctx, fasthttp.StatusOK, projectionResponse{ID: id, ProjectionResult: *result})
}

func (s *Server) handleGetProjection(ctx *fasthttp.RequestCtx, projectionID string) {
	result, err := s.store.GetProjection(ctx, userID(ctx), projectionID)
	if err != nil {
		s.writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, result)
}

func (s *Server) writeStoreError(ctx *fasthttp.RequestCtx, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("store failure", "error", err)
	writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, errorResponse{Status: status, Message: message})
}
