package migration

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinelQuery = "SELECT to_regclass('public.group_members') IS NOT NULL"

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("schema present", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.NoError(t, EnsureMigrated(ctx, db, "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fresh database runs every step in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for _, step := range steps {
			mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		}

		assert.NoError(t, EnsureMigrated(ctx, db, "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failing step stops the migration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(steps[1].SQL)).WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, "localhost")

		assert.EqualError(t, err, "migration step create_table_groups failed: permission denied")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).WillReturnError(errors.New("conn refused"))

		err = EnsureMigrated(ctx, db, "localhost")

		assert.ErrorContains(t, err, "failed to check sentinel table: conn refused")
	})
}

func TestSteps_SentinelCreatedLast(t *testing.T) {
	last := steps[len(steps)-1]
	assert.Contains(t, last.SQL, "CREATE TABLE IF NOT EXISTS "+sentinelTable)

	seen := map[string]bool{}
	for _, s := range steps {
		assert.False(t, seen[s.Name], "duplicate step %s", s.Name)
		seen[s.Name] = true
	}
}
