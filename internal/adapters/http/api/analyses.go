package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/logger"
)

// AnalysesDependencies defines the operations behind /analyses.
type AnalysesDependencies interface {
	RunAnalysis(ctx context.Context, req model.AnalysisRequest) (types.AnalysisResult, error)
	Result(ctx context.Context, runID string) (types.AnalysisResult, error)
}

// AnalysesHandler starts analyses and serves their stored results.
type AnalysesHandler struct {
	deps AnalysesDependencies
	log  logger.Logger
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps AnalysesDependencies, log logger.Logger) *AnalysesHandler {
	return &AnalysesHandler{deps: deps, log: log}
}

// HandlePostAnalysis handles POST /analyses.
func (h *AnalysesHandler) HandlePostAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"

	var req model.AnalysisRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, fmt.Errorf("%w: %w", ErrBadRequest, err)))
		return
	}
	req.RoleName = strings.TrimSpace(req.RoleName)

	res, err := h.deps.RunAnalysis(r.Context(), req)
	if err != nil {
		status, _ := classify(err)
		if status >= http.StatusInternalServerError {
			h.log.Error(r.Context(), "analysis request failed", logger.Error(err))
		}
		writeFailure(w, Wrap(op, err))
		return
	}

	w.Header().Set("Location", "/analyses/"+res.RunID)
	writeJSON(w, http.StatusCreated, res)
}

// HandleGetAnalysis handles GET /analyses/{run_id}.
func (h *AnalysesHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"

	runID := r.PathValue("run_id")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Result(r.Context(), runID)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
