package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/okhsunrog/big-five-tester/internal/api/response"
	"github.com/okhsunrog/big-five-tester/internal/store"
	"github.com/okhsunrog/big-five-tester/pkg/models"
)

type saveResultRequest struct {
	Profile     models.PersonalityProfile `json:"profile"`
	UserContext *string                   `json:"user_context"`
	Lang        string                    `json:"lang"`
}

// NewSaveResultHandler returns the handler for POST /api/v1/results.
// It stores a completed profile under a fresh UUID for shareable URLs.
func NewSaveResultHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveResultRequest
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

		result := &models.SavedResult{
			ID:          uuid.New().String(),
			Profile:     req.Profile,
			UserContext: req.UserContext,
			Lang:        req.Lang,
			CreatedAt:   time.Now().UTC(),
		}

		if err := st.SaveResult(r.Context(), result); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to save result", nil)
			return
		}

		response.Created(w, map[string]string{"id": result.ID})
	}
}

// NewGetResultHandler returns the handler for GET /api/v1/results/{resultID}.
func NewGetResultHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resultID")

		result, err := st.GetResult(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Result not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load result", nil)
			return
		}

		response.JSON(w, result)
	}
}
