// internal/workers/data-access/persist-blueprint/store.go
package persistblueprint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"
)

// Store keeps one row per run in blueprint_runs. The full blueprint is kept
// as JSONB; the scalar columns exist for ad-hoc reporting.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "blueprint-store"}),
	}
}

// EnsureSchema creates the table on first start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create blueprint_runs: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, bp *models.Blueprint) error {
	payload, err := json.Marshal(bp)
	if err != nil {
		return apperrors.NewBlueprintStoreError(bp.RunID, err)
	}

	_, err = s.db.ExecContext(ctx, upsertBlueprintSQL,
		bp.RunID,
		bp.ExecutionMode,
		bp.Halted(),
		bp.StabilityScore,
		string(bp.RiskLevel),
		string(bp.Archetype.SelectedArchetype),
		bp.ExecutionAudit.TotalRepairs,
		payload,
	)
	if err != nil {
		return apperrors.NewBlueprintStoreError(bp.RunID, err)
	}

	s.logger.Debug("blueprint stored", map[string]interface{}{
		"runId":  bp.RunID,
		"halted": bp.Halted(),
	})
	return nil
}

func (s *Store) Get(ctx context.Context, runID string) (*models.Blueprint, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, selectBlueprintSQL, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewBlueprintNotFoundError(runID)
	}
	if err != nil {
		return nil, apperrors.NewBlueprintStoreError(runID, err)
	}

	var bp models.Blueprint
	if err := json.Unmarshal(payload, &bp); err != nil {
		return nil, apperrors.NewBlueprintStoreError(runID, fmt.Errorf("decode payload: %w", err))
	}
	return &bp, nil
}

// Name and Accept let the store act as a pipeline sink.
func (s *Store) Name() string { return "blueprint-store" }

func (s *Store) Accept(ctx context.Context, bp *models.Blueprint) error {
	return s.Save(ctx, bp)
}
