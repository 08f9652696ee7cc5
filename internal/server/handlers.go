package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"courtside/internal/analysis"
	"courtside/internal/core"
	"courtside/internal/extract"
	"courtside/internal/render"
	"courtside/internal/slip"
)

const sessionHeader = "X-Session-ID"

// maxBodyBytes bounds request bodies; a slip or a game is a few kilobytes.
const maxBodyBytes = 1 << 20

// HealthResponse is returned by /health
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// GamesResponse is returned by GET /api/games
type GamesResponse struct {
	Games []core.Game `json:"games"`
}

// AnalysisRequest is the body of POST /api/analysis
type AnalysisRequest struct {
	Game   core.Game `json:"game"`
	Filter string    `json:"filter"`
}

// SlipRequest is the body of POST /api/slip
type SlipRequest struct {
	Props []core.PropPrediction `json:"props"`
}

// SlipResponse carries the export payload and price of a slip
type SlipResponse struct {
	Legs        int                   `json:"legs"`
	Props       []core.PropPrediction `json:"props"`
	DecimalOdds string                `json:"decimalOdds"`
	Odds        string                `json:"odds"`
	Export      string                `json:"export"`
}

var serverStartTime = time.Now()

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"schedule": "ok",
		"analysis": "ok",
	}
	if s.games == nil {
		checks["schedule"] = "unavailable"
	}
	if s.analyzer == nil {
		checks["analysis"] = "unavailable"
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(serverStartTime).Round(time.Second).String(),
		Checks: checks,
	})
}

// handleListGames handles GET /api/games. Lookup failures yield an empty list.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	if s.games == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Schedule lookup is not configured")
		return
	}

	s.respondJSON(w, http.StatusOK, GamesResponse{Games: s.games.Upcoming(r.Context())})
}

// handleAnalyze handles POST /api/analysis. The response is JSON unless
// ?format=html or ?format=markdown is given.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Analysis is not configured")
		return
	}

	var req AnalysisRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req.Game.HomeTeam = strings.TrimSpace(req.Game.HomeTeam)
	req.Game.AwayTeam = strings.TrimSpace(req.Game.AwayTeam)
	if req.Game.HomeTeam == "" || req.Game.AwayTeam == "" {
		s.respondError(w, http.StatusBadRequest, "game.homeTeam and game.awayTeam are required")
		return
	}

	filter, err := core.ParsePropFilter(req.Filter)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", render.FormatJSON, render.FormatHTML, render.FormatMarkdown:
	default:
		s.respondError(w, http.StatusBadRequest, "format must be json, html or markdown")
		return
	}

	result, err := s.runAnalysis(r, req.Game, filter)
	if err != nil {
		status, message := analysisErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("Analysis failed", "game", req.Game.Matchup(), "error", err.Error())
		}
		s.respondError(w, status, message)
		return
	}

	switch format {
	case render.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(render.HTML(result, filter)))
	case render.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(render.Markdown(result, filter)))
	default:
		s.respondJSON(w, http.StatusOK, result)
	}
}

// runAnalysis ties the request to the caller's session when X-Session-ID is
// set, so a newer analysis from the same client cancels this one.
func (s *Server) runAnalysis(r *http.Request, game core.Game, filter core.PropFilter) (core.AnalysisResult, error) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		return s.analyzer.Analyze(r.Context(), game, filter)
	}

	sess, ticket := s.beginSession(r.Context(), id)
	defer s.releaseSession(id, sess, ticket.Generation)

	result, err := s.analyzer.Analyze(ticket.Context(), game, filter)
	if finishErr := sess.Finish(ticket); finishErr != nil {
		return core.AnalysisResult{}, finishErr
	}
	return result, err
}

// analysisErrorStatus maps analysis failures onto HTTP statuses.
func analysisErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrStale), errors.Is(err, context.Canceled):
		return http.StatusConflict, "Analysis superseded by a newer request"
	case errors.Is(err, extract.ErrNoStructureFound), errors.Is(err, extract.ErrUnrecoverableSyntax):
		return http.StatusBadGateway, "The model returned an unreadable analysis. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Analysis timed out"
	}
	return http.StatusBadGateway, "Analysis failed. Please try again. The AI might be overloaded."
}

// handleSlip handles POST /api/slip, pricing the props and building the export text.
func (s *Server) handleSlip(w http.ResponseWriter, r *http.Request) {
	var req SlipRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Props) == 0 {
		s.respondError(w, http.StatusBadRequest, "props must not be empty")
		return
	}

	bet := slip.New(req.Props...)
	s.respondJSON(w, http.StatusOK, SlipResponse{
		Legs:        bet.Len(),
		Props:       bet.Props(),
		DecimalOdds: slip.DecimalOdds(bet.Len()).StringFixed(2),
		Odds:        bet.Odds(),
		Export:      bet.Export(),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError writes the standard error envelope
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"status":  status,
			"message": message,
		},
	})
}
