package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

type queryRequest struct {
	Query      string `json:"query"`
	DSL        string `json:"dsl,omitempty"`
	Program    string `json:"program,omitempty"`
	AutoRepair *bool  `json:"auto_repair,omitempty"`
	Explain    bool   `json:"explain,omitempty"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind"`
	Missing []string `json:"missing,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query must not be empty", Kind: "bad_request"})
		return
	}

	opts := s.options()
	ctx := r.Context()
	if opts.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	synthReq := domain.SynthesisRequest{
		Context:          ctx,
		Query:            req.Query,
		Program:          req.Program,
		DSLHint:          req.DSL,
		Explain:          req.Explain,
		AutoRepair:       opts.AutoRepair,
		AutoRepairSet:    true,
		ResolverOverride: opts.Resolver,
	}
	if req.AutoRepair != nil {
		synthReq.AutoRepair = *req.AutoRepair
	}

	result, err := s.synth.Synthesize(synthReq)
	if err != nil {
		s.writeSynthesisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeSynthesisError(w http.ResponseWriter, err error) {
	var synthErr *domain.SynthesisError
	if errors.As(err, &synthErr) {
		status := http.StatusUnprocessableEntity
		switch synthErr.Reason {
		case domain.ReasonResolverTimeout:
			status = http.StatusGatewayTimeout
		case domain.ReasonResolver:
			status = http.StatusBadGateway
		case domain.ReasonUnknownProgram:
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{
			Error:   synthErr.Error(),
			Kind:    string(synthErr.Reason),
			Missing: synthErr.Missing,
		})
		return
	}

	var extractErr *domain.ExtractionError
	if errors.As(err, &extractErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: extractErr.Error(), Kind: "extraction_failed"})
		return
	}

	s.log.Error("query failed", err, nil)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := s.doctor.Run(r.Context())
	status := http.StatusOK
	if err != nil || !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.options())
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var opts Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid options body", Kind: "bad_request"})
		return
	}
	if opts.TimeoutSeconds < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "timeout_seconds must be >= 0", Kind: "bad_request"})
		return
	}
	s.setOptions(opts)
	writeJSON(w, http.StatusOK, opts)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
