package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (
  id         BIGSERIAL   PRIMARY KEY,
  name       TEXT        NOT NULL UNIQUE,
  api_key    TEXT        NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_problems",
		SQL: `CREATE TABLE IF NOT EXISTS problems (
  id           UUID        PRIMARY KEY,
  project_id   BIGINT      NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  fingerprint  TEXT        NOT NULL,
  error_type   TEXT        NOT NULL,
  message      TEXT        NOT NULL,
  severity     TEXT        NOT NULL,
  environment  TEXT        NOT NULL DEFAULT '',
  first_seen   TIMESTAMPTZ NOT NULL,
  last_seen    TIMESTAMPTZ NOT NULL,
  notice_count BIGINT      NOT NULL DEFAULT 1 CHECK (notice_count >= 0),
  resolved     BOOLEAN     NOT NULL DEFAULT FALSE,
  muted        BOOLEAN     NOT NULL DEFAULT FALSE,
  UNIQUE (project_id, fingerprint)
);`,
	},
	{
		Name: "create_table_notices",
		SQL: `CREATE TABLE IF NOT EXISTS notices (
  id          UUID        PRIMARY KEY,
  problem_id  UUID        NOT NULL REFERENCES problems(id) ON DELETE CASCADE,
  project_id  BIGINT      NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  error_type  TEXT        NOT NULL,
  message     TEXT        NOT NULL,
  severity    TEXT        NOT NULL,
  environment TEXT        NOT NULL DEFAULT '',
  payload_key TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_deploys",
		SQL: `CREATE TABLE IF NOT EXISTS deploys (
  id          UUID        PRIMARY KEY,
  project_id  BIGINT      NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  environment TEXT        NOT NULL,
  repository  TEXT        NOT NULL DEFAULT '',
  revision    TEXT        NOT NULL DEFAULT '',
  version     TEXT        NOT NULL DEFAULT '',
  username    TEXT        NOT NULL DEFAULT '',
  deployed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_problems_project_last_seen",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_problems_project_last_seen ON problems (project_id, last_seen DESC);`,
	},
	{
		Name: "create_index_problems_severity",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_problems_severity ON problems (severity);`,
	},
	{
		Name: "create_index_notices_problem_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notices_problem_created_at ON notices (problem_id, created_at DESC);`,
	},
	{
		Name: "create_index_notices_project_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notices_project_created_at ON notices (project_id, created_at DESC);`,
	},
	{
		Name: "create_index_deploys_project_deployed_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_deploys_project_deployed_at ON deploys (project_id, deployed_at DESC);`,
	},
}

// EnsureMigrated checks if the 'projects' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.projects') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
