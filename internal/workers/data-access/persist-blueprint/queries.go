// internal/workers/data-access/persist-blueprint/queries.go
package persistblueprint

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS blueprint_runs (
		run_id          TEXT PRIMARY KEY,
		execution_mode  TEXT NOT NULL,
		halted          BOOLEAN NOT NULL,
		stability_score INTEGER NOT NULL,
		risk_level      TEXT NOT NULL,
		archetype       TEXT NOT NULL,
		total_repairs   INTEGER NOT NULL,
		payload         JSONB NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

const upsertBlueprintSQL = `
	INSERT INTO blueprint_runs
		(run_id, execution_mode, halted, stability_score, risk_level, archetype, total_repairs, payload)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (run_id) DO UPDATE SET
		execution_mode  = EXCLUDED.execution_mode,
		halted          = EXCLUDED.halted,
		stability_score = EXCLUDED.stability_score,
		risk_level      = EXCLUDED.risk_level,
		archetype       = EXCLUDED.archetype,
		total_repairs   = EXCLUDED.total_repairs,
		payload         = EXCLUDED.payload,
		updated_at      = NOW()`

const selectBlueprintSQL = `
	SELECT payload
	FROM blueprint_runs
	WHERE run_id = $1`
