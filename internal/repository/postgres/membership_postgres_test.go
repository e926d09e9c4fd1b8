package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMembershipPostgres_ListMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMembershipPostgres(db)

	rows := sqlmock.NewRows(userCols).
		AddRow("u1", "alice", "cn=alice,dc=x", "", true, time.Now()).
		AddRow("u2", "bob", "cn=bob,dc=x", "", true, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM group_members gm JOIN users u (.+) WHERE gm.group_id = ?").
		WithArgs("g1").
		WillReturnRows(rows)

	users, err := repo.ListMembers(context.Background(), "g1")

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipPostgres_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and adds in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewMembershipPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM group_members WHERE group_id = \\$1 AND user_id IN \\(\\$2, \\$3\\)").
			WithArgs("g1", "u8", "u9").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g1", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g1", "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = repo.Apply(ctx, "g1", []string{"u1", "u2"}, []string{"u8", "u9"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("large removals are split inside the transaction", func(t *testing.T) {
		prev := maxInParams
		maxInParams = 2
		defer func() { maxInParams = prev }()

		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewMembershipPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM group_members WHERE group_id = \\$1 AND user_id IN \\(\\$2, \\$3\\)").
			WithArgs("g1", "u7", "u8").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM group_members WHERE group_id = \\$1 AND user_id IN \\(\\$2\\)").
			WithArgs("g1", "u9").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.Apply(ctx, "g1", nil, []string{"u7", "u8", "u9"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewMembershipPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g1", "u1").
			WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		err = repo.Apply(ctx, "g1", []string{"u1"}, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insert membership: fk violation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to do", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewMembershipPostgres(db)

		assert.NoError(t, repo.Apply(ctx, "g1", nil, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
