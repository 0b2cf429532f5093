package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/server/models"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "git_id", "password_hash",
		"avatar", "twitter", "wallet", "created_at", "updated_at",
	}).AddRow(u.ID, u.Username, u.Email, u.GitID, u.PasswordHash,
		u.Avatar, u.Twitter, u.Wallet, u.CreatedAt, u.UpdatedAt)
}

func TestCreate_ReturnsAssignedID(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "alice@example.com", "", "$2a$10$hash", "", "", int64(0),
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))

	now := time.Now()
	user, err := repo.Create(context.Background(), &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolationMapsToConflict(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	tests := []struct {
		constraint string
		field      string
	}{
		{constraint: "users_username_key", field: "username"},
		{constraint: "users_email_key", field: "email"},
	}

	for _, tc := range tests {
		t.Run(tc.constraint, func(t *testing.T) {
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			_, err := repo.Create(context.Background(), &models.User{Username: "bob", Email: "bob@example.com"})
			require.Error(t, err)

			var conflict *common.ConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tc.field, conflict.Field)
		})
	}
}

func TestGetByEmail_NoRowsIsNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetByGitID_Found(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	stored := &models.User{
		ID: "u2", Username: "carol", Email: "carol@example.com", GitID: "12345",
		PasswordHash: "h", Wallet: 100, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE git_id = $1")).
		WithArgs("12345").
		WillReturnRows(userRows(stored))

	user, err := repo.GetByGitID(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, int64(100), user.Wallet)
}

func TestUpdate_PartialPatchOnlyTouchesGivenColumns(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	username := "dave2"
	updated := &models.User{
		ID: "u3", Username: username, Email: "dave@example.com",
		PasswordHash: "h", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET updated_at = $1, username = $2 WHERE id = $3")).
		WithArgs(sqlmock.AnyArg(), username, "u3").
		WillReturnRows(userRows(updated))

	got, err := repo.Update(context.Background(), "u3", &Patch{
		Username:  &username,
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, username, got.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustWallet_SingleIncrementStatement(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET wallet = wallet + $1 WHERE id = $2")).
		WithArgs(int64(-250), "u4").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AdjustWallet(context.Background(), "u4", -250)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustWallet_MissingAccount(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET wallet = wallet + $1")).
		WithArgs(int64(10), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AdjustWallet(context.Background(), "missing", 10)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
