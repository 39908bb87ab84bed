// Package store persists saved test results in Postgres.
package store

import (
	"context"
	"errors"

	"github.com/okhsunrog/big-five-tester/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	SaveResult(ctx context.Context, result *models.SavedResult) error
	GetResult(ctx context.Context, id string) (*models.SavedResult, error)
	UpdateAIAnalysis(ctx context.Context, id, analysis string) error
}
