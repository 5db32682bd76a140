// Package pgprofiles reads and writes profiles directly in the project's
// Postgres database, for deployments that bypass the REST gateway.
package pgprofiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
	"github.com/dmitrijs2005/venuehub/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

var _ provider.Profiles = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to dsn through the pgx database/sql driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open profiles db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping profiles db: %w", provider.ErrUnavailable, err)
	}
	return db, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("%w: invalid user id %q", provider.ErrRejected, userID)
	}

	query := `SELECT ` + strings.Join(models.ProfileColumns, ", ") + ` FROM profiles
		 WHERE id = $1`

	var name, email, username, avatarURL, bio sql.NullString
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &name, &email, &username, &avatarURL, &bio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, provider.ErrNotFound
		}
		return nil, mapError(err)
	}

	p.Name, p.Email, p.Username, p.AvatarURL, p.Bio =
		name.String, email.String, username.String, avatarURL.String, bio.String
	return p, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: invalid user id %q", provider.ErrRejected, userID)
	}

	cols, args := update.Columns()
	if len(cols) == 0 {
		return fmt.Errorf("%w: empty profile update", provider.ErrRejected)
	}

	set := make([]string, len(cols))
	for i, col := range cols {
		set[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return provider.ErrNotFound
	}
	return nil
}

// mapError classifies Postgres errors by SQLSTATE class.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501", strings.HasPrefix(pgErr.Code, "28"):
			return fmt.Errorf("%w: db error: %w", provider.ErrUnauthorized, err)
		case strings.HasPrefix(pgErr.Code, "22"), strings.HasPrefix(pgErr.Code, "23"):
			return fmt.Errorf("%w: db error: %w", provider.ErrRejected, err)
		}
	}
	return fmt.Errorf("%w: db error: %w", provider.ErrUnavailable, err)
}
