package handler

import (
	"net/http"

	"github.com/okhsunrog/big-five-tester/internal/api/response"
	"github.com/okhsunrog/big-five-tester/internal/registry"
)

// ModelLister exposes the registry's read-only preset view.
type ModelLister interface {
	ListModels() []registry.ModelInfo
}

// NewListModelsHandler returns the handler for GET /api/v1/models.
func NewListModelsHandler(reg ModelLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, reg.ListModels())
	}
}
