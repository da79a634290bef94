package persistblueprint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"
)

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, createTestLogger(t)), mock
}

func sampleBlueprint() *models.Blueprint {
	return &models.Blueprint{
		RunID:          "run-42",
		ExecutionMode:  "demo",
		StartupSummary: `A lean mvp architecture for "Bakery orders".`,
		StabilityScore: 85,
		RiskLevel:      models.RiskLow,
		Clarification:  models.Clarification{Status: models.ClarificationResolved},
		Archetype: models.ArchetypeDecision{
			SelectedArchetype: models.ArchetypeModularMonolith,
		},
		ExecutionAudit: models.ExecutionAudit{
			TotalRepairs:        2,
			OrchestratorVersion: "1.3.0",
		},
	}
}

func TestStore_Save(t *testing.T) {
	store, mock := newMockStore(t)
	bp := sampleBlueprint()

	mock.ExpectExec(upsertBlueprintSQL).
		WithArgs("run-42", "demo", false, 85, "Low", "modular_monolith", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), bp)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveDatabaseError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(upsertBlueprintSQL).
		WillReturnError(errors.New("connection reset"))

	err := store.Save(context.Background(), sampleBlueprint())
	require.Error(t, err)

	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeBlueprintStoreFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "run-42")
}

func TestStore_Get(t *testing.T) {
	store, mock := newMockStore(t)
	payload, err := json.Marshal(sampleBlueprint())
	require.NoError(t, err)

	mock.ExpectQuery(selectBlueprintSQL).
		WithArgs("run-42").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	bp, err := store.Get(context.Background(), "run-42")
	require.NoError(t, err)
	assert.Equal(t, "run-42", bp.RunID)
	assert.Equal(t, models.ArchetypeModularMonolith, bp.Archetype.SelectedArchetype)
	assert.Equal(t, 2, bp.ExecutionAudit.TotalRepairs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetErrors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock)
		wantCode apperrors.ErrorCode
	}{
		{
			name: "unknown run",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectBlueprintSQL).WithArgs("missing").WillReturnError(sql.ErrNoRows)
			},
			wantCode: apperrors.ErrCodeBlueprintNotFound,
		},
		{
			name: "query failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectBlueprintSQL).WithArgs("missing").WillReturnError(errors.New("timeout"))
			},
			wantCode: apperrors.ErrCodeBlueprintStoreFailed,
		},
		{
			name: "corrupt payload",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectBlueprintSQL).
					WithArgs("missing").
					WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("{not json")))
			},
			wantCode: apperrors.ErrCodeBlueprintStoreFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setup(mock)

			bp, err := store.Get(context.Background(), "missing")
			assert.Nil(t, bp)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.AsStandardError(err).Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_EnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(createTableSQL).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AcceptSavesHaltedRun(t *testing.T) {
	store, mock := newMockStore(t)
	bp := &models.Blueprint{
		RunID:         "run-halted",
		ExecutionMode: "live",
		Clarification: models.Clarification{Status: models.ClarificationPending},
	}

	mock.ExpectExec(upsertBlueprintSQL).
		WithArgs("run-halted", "live", true, 0, "", "", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.Equal(t, "blueprint-store", store.Name())
	assert.NoError(t, store.Accept(context.Background(), bp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute(t *testing.T) {
	t.Run("stores blueprint", func(t *testing.T) {
		store, mock := newMockStore(t)
		handler := NewHandler(&Config{Timeout: 5 * time.Second}, store, createTestLogger(t))

		mock.ExpectExec(upsertBlueprintSQL).WillReturnResult(sqlmock.NewResult(0, 1))

		out, err := handler.Execute(context.Background(), &Input{Blueprint: *sampleBlueprint()})
		require.NoError(t, err)
		assert.Equal(t, &Output{RunID: "run-42", Stored: true}, out)
	})

	t.Run("missing run id", func(t *testing.T) {
		store, _ := newMockStore(t)
		handler := NewHandler(LoadConfig(), store, createTestLogger(t))

		out, err := handler.Execute(context.Background(), &Input{})
		assert.Nil(t, out)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInputValidationFailed, apperrors.AsStandardError(err).Code)
	})
}
