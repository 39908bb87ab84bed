package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okhsunrog/big-five-tester/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5. The profile is
// stored as a JSON document; this is a key-value save/load by opaque id, not
// a queryable schema.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) SaveResult(ctx context.Context, result *models.SavedResult) error {
	profileJSON, err := json.Marshal(result.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO results (id, profile_json, user_context, ai_analysis, lang, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		result.ID, profileJSON, result.UserContext, result.AIAnalysis, result.Lang, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetResult(ctx context.Context, id string) (*models.SavedResult, error) {
	var (
		r           models.SavedResult
		profileJSON []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, profile_json, user_context, ai_analysis, lang, created_at
		 FROM results WHERE id = $1`, id,
	).Scan(&r.ID, &profileJSON, &r.UserContext, &r.AIAnalysis, &r.Lang, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}

	if err := json.Unmarshal(profileJSON, &r.Profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) UpdateAIAnalysis(ctx context.Context, id, analysis string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE results SET ai_analysis = $2 WHERE id = $1`, id, analysis)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
