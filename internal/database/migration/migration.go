package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ldapsync/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created last; its presence means the schema is complete.
const sentinelTable = "group_members"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_groups",
		SQL: `CREATE TABLE IF NOT EXISTS groups (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL UNIQUE,
  dn         TEXT        NOT NULL,
  source     TEXT        NOT NULL DEFAULT 'ldap',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_name  TEXT        NOT NULL UNIQUE,
  dn         TEXT        NOT NULL DEFAULT '',
  email      TEXT        NOT NULL DEFAULT '',
  active     BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_lower_dn",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_lower_dn ON users (lower(dn));`,
	},
	{
		Name: "create_index_users_lower_user_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_lower_user_name ON users (lower(user_name));`,
	},
	{
		Name: "create_table_sync_runs",
		SQL: `CREATE TABLE IF NOT EXISTS sync_runs (
  id          UUID        PRIMARY KEY,
  group_id    UUID        NOT NULL REFERENCES groups (id) ON DELETE CASCADE,
  group_name  TEXT        NOT NULL,
  status      TEXT        NOT NULL CHECK (status IN ('succeeded', 'failed')),
  recursive   BOOLEAN     NOT NULL,
  dry_run     BOOLEAN     NOT NULL,
  added       INTEGER     NOT NULL DEFAULT 0 CHECK (added >= 0),
  removed     INTEGER     NOT NULL DEFAULT 0 CHECK (removed >= 0),
  unmatched   INTEGER     NOT NULL DEFAULT 0 CHECK (unmatched >= 0),
  error       TEXT        NOT NULL DEFAULT '',
  report_key  TEXT        NOT NULL DEFAULT '',
  started_at  TIMESTAMPTZ NOT NULL,
  finished_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_index_sync_runs_started_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs (started_at DESC);`,
	},
	{
		Name: "create_table_group_members",
		SQL: `CREATE TABLE IF NOT EXISTS group_members (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  group_id   UUID        NOT NULL REFERENCES groups (id) ON DELETE CASCADE,
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (group_id, user_id)
);`,
	},
}

// EnsureMigrated creates the schema unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()
	log := logger.Ctx(ctx).With().
		Str("component", "database").
		Str("db_host", dbHost).
		Logger()

	log.Info().Str("event", "db_migration_check").Msg("checking schema")

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('public.%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Dur("duration", time.Since(start)).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Dur("duration", time.Since(start)).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("migrating schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Dur("duration", time.Since(start)).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Dur("step_duration", time.Since(stepStart)).
			Msg("migration step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Dur("duration", time.Since(start)).
		Msg("schema migrated")
	return nil
}
