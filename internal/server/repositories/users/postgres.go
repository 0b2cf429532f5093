package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/dbx"
	"github.com/mlukyanov/userd/internal/server/models"
)

const userColumns = "id, username, email, git_id, password_hash, avatar, twitter, wallet, created_at, updated_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// mapConstraintError converts a Postgres unique violation into the
// field-level ConflictError. The unique indexes are the authoritative
// backstop for the check-then-insert race, so a late violation must surface
// exactly like the pre-check would have.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return &common.ConflictError{Field: "username"}
	case "users_email_key":
		return &common.ConflictError{Field: "email"}
	}
	return common.ErrConflict
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, git_id, password_hash, avatar, twitter, wallet, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.GitID, user.PasswordHash,
		user.Avatar, user.Twitter, user.Wallet, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username", username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *PostgresRepository) GetByGitID(ctx context.Context, gitID string) (*models.User, error) {
	return r.getOne(ctx, "git_id", gitID)
}

func (r *PostgresRepository) getOne(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.GitID, &user.PasswordHash,
		&user.Avatar, &user.Twitter, &user.Wallet, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch *Patch) (*models.User, error) {
	set := []string{"updated_at = $1"}
	args := []any{patch.UpdatedAt}

	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	appendSet("username", patch.Username)
	appendSet("email", patch.Email)
	appendSet("password_hash", patch.PasswordHash)
	appendSet("avatar", patch.Avatar)
	appendSet("twitter", patch.Twitter)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), userColumns)

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.GitID, &user.PasswordHash,
		&user.Avatar, &user.Twitter, &user.Wallet, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) AdjustWallet(ctx context.Context, id string, delta int64) error {
	// Single increment statement; never read-modify-write.
	query := `UPDATE users SET wallet = wallet + $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
