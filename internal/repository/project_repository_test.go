package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

// Project deletion must remove tasks, users, and the project row in one
// transaction.
func TestProjectRepository_DeleteCascade_SingleTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `tasks` WHERE project_id = ?")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `users` WHERE project_id = ?")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `projects` WHERE `projects`.`id` = ?")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(42))
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failure mid-cascade rolls the whole transaction back so no orphaned rows
// can reference a deleted project.
func TestProjectRepository_DeleteCascade_RollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	boom := errors.New("users table unavailable")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `tasks` WHERE project_id = ?")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `users` WHERE project_id = ?")).
		WithArgs(uint64(42)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.DeleteCascade(42)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
