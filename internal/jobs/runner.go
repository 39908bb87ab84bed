package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/okhsunrog/big-five-tester/internal/ai"
)

// Generator produces the final analysis text for one request. Satisfied by
// *ai.Pipeline; tests inject their own.
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
}

// ResultUpdater persists a finished analysis against a saved result.
// Satisfied by the results store.
type ResultUpdater interface {
	UpdateAIAnalysis(ctx context.Context, id, analysis string) error
}

// Runner launches the analysis pipeline as a detached unit of work per job
// and writes outcomes back into the job store.
type Runner struct {
	store    *Store
	generate Generator
	results  ResultUpdater // nil disables persistence
}

// NewRunner creates a runner. results may be nil when no persistence
// collaborator is available.
func NewRunner(store *Store, generate Generator, results ResultUpdater) *Runner {
	return &Runner{store: store, generate: generate, results: results}
}

// Start registers a fresh job and launches the pipeline in a goroutine.
// It returns the job id immediately, before any network call begins; the
// caller observes completion by polling the store.
func (r *Runner) Start(req ai.Request) string {
	jobID := uuid.New().String()
	r.store.Create(jobID)

	slog.Info("starting background analysis job",
		"job_id", jobID,
		"model_id", req.ModelID,
		"lang", req.Lang,
		"has_context", req.UserContext != "",
	)

	go r.run(jobID, req)

	return jobID
}

// run executes one job to its terminal state. It recovers from panics so a
// crashing pipeline marks the job failed instead of killing the process.
func (r *Runner) run(jobID string, req ai.Request) {
	ctx := context.Background()
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic in analysis job", "job_id", jobID, "error", rec)
			r.store.Update(jobID, Failed(fmt.Sprintf("panic: %v", rec)))
		}
	}()

	r.store.Update(jobID, Status{State: StateProcessing})

	text, err := r.generate.Generate(ctx, req)
	if err != nil {
		slog.Error("background analysis failed",
			"job_id", jobID,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		r.store.Update(jobID, Failed(err.Error()))
		return
	}

	slog.Info("background analysis completed",
		"job_id", jobID,
		"elapsed_ms", time.Since(start).Milliseconds(),
		"response_len", len(text),
	)

	// Persist the analysis against the saved result, when one was supplied.
	// The in-memory result stays authoritative for the current poller: a
	// persistence failure is logged, never downgrades a completed job.
	if req.ResultID != "" && r.results != nil {
		if perr := r.results.UpdateAIAnalysis(ctx, req.ResultID, text); perr != nil {
			slog.Error("persisting analysis failed", "job_id", jobID, "result_id", req.ResultID, "error", perr)
		}
	}

	r.store.Update(jobID, Completed(text))
}
