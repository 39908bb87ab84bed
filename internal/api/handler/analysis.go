// Package handler contains the HTTP handlers for the public API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okhsunrog/big-five-tester/internal/ai"
	"github.com/okhsunrog/big-five-tester/internal/api/response"
	"github.com/okhsunrog/big-five-tester/internal/jobs"
	"github.com/okhsunrog/big-five-tester/pkg/models"
)

// JobStarter launches an analysis job and returns its id immediately.
// Satisfied by *jobs.Runner.
type JobStarter interface {
	Start(req ai.Request) string
}

// JobReader reads and consumes job status cells. Satisfied by *jobs.Store.
type JobReader interface {
	Get(id string) (jobs.Status, bool)
	Delete(id string)
}

type startAnalysisRequest struct {
	Profile     models.PersonalityProfile `json:"profile"`
	Lang        string                    `json:"lang"`
	UserContext string                    `json:"user_context"`
	ModelID     string                    `json:"model_id"`
	ResultID    string                    `json:"result_id"`
}

// NewStartAnalysisHandler returns the handler for POST /api/v1/analyses.
// It answers 202 with a job id before any model call begins; the model id is
// validated by the pipeline, so an unknown preset surfaces through polling.
func NewStartAnalysisHandler(runner JobStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startAnalysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if len(req.Profile.Domains) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "profile is required", nil)
			return
		}
		if req.Lang == "" {
			req.Lang = "en"
		}

		jobID := runner.Start(ai.Request{
			Profile:     req.Profile,
			UserContext: req.UserContext,
			Lang:        req.Lang,
			ModelID:     req.ModelID,
			ResultID:    req.ResultID,
		})

		response.Accepted(w, map[string]string{"job_id": jobID})
	}
}

type analysisStatusResponse struct {
	Status   string `json:"status"`
	Analysis string `json:"analysis,omitempty"`
	Message  string `json:"message,omitempty"`
}

// NewAnalysisStatusHandler returns the handler for GET /api/v1/analyses/{jobID}.
//
// Pending and Processing both read as "pending": the poller only needs to
// know whether to keep polling. Observing a terminal state consumes the job
// record, so the next poll for the same id reports "Job not found", which
// is also the answer for ids that never existed. The two cases are
// indistinguishable on purpose.
func NewAnalysisStatusHandler(store JobReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		status, ok := store.Get(jobID)
		if !ok {
			response.JSON(w, analysisStatusResponse{Status: "error", Message: "Job not found"})
			return
		}

		switch status.State {
		case jobs.StatePending, jobs.StateProcessing:
			response.JSON(w, analysisStatusResponse{Status: "pending"})
		case jobs.StateComplete:
			store.Delete(jobID)
			response.JSON(w, analysisStatusResponse{Status: "complete", Analysis: status.Result})
		case jobs.StateError:
			store.Delete(jobID)
			response.JSON(w, analysisStatusResponse{Status: "error", Message: status.Message})
		}
	}
}
