package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dayoung-dev/joblens/internal/parser"
)

// ParseRequest represents the request body for /api/parse
type ParseRequest struct {
	URL      string `json:"url"`
	Company  string `json:"selected_company,omitempty"`
	Position string `json:"selected_position,omitempty"`
}

// SiteSupportResponse represents the response for /api/site-support
type SiteSupportResponse struct {
	Support string `json:"support"`
	Domain  string `json:"domain,omitempty"`
}

// handleParse runs the pipeline for one URL. A structured not-parseable
// verdict is a 200 with the error branch of the result set; only
// infrastructure failures map to error statuses.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.URL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := s.service.Parse(r.Context(), req.URL, parser.Target{
		Company:  req.Company,
		Position: req.Position,
	})
	if err != nil {
		s.logger.Error("parse failed", zap.String("url", req.URL), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleSiteSupport classifies a URL without fetching it.
func (s *Server) handleSiteSupport(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	classification := s.service.SiteSupport(rawURL)
	s.jsonResponse(w, http.StatusOK, SiteSupportResponse{
		Support: string(classification.Support),
		Domain:  classification.Domain,
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
