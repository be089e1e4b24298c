package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mbaumgart/identity-server/internal/common"
)

// uniqueViolation is the PostgreSQL error code for unique-constraint failures.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {

	query :=
		`INSERT INTO refresh_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token, time.Now().Add(validity))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrDuplicateToken
		}
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, token string) (*RefreshToken, error) {

	query :=
		`SELECT id, user_id, token, expires_at, revoked, created_at FROM refresh_tokens
		 WHERE token = $1 AND NOT revoked AND expires_at > now()
		 `

	rec := &RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&rec.ID, &rec.UserID, &rec.Token, &rec.Expires, &rec.Revoked, &rec.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {

	query :=
		`UPDATE refresh_tokens SET revoked = TRUE
		 WHERE token = $1
		 `

	_, err := r.db.ExecContext(ctx, query, token)

	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID string) error {

	query :=
		`UPDATE refresh_tokens SET revoked = TRUE
		 WHERE user_id = $1 AND NOT revoked
		 `

	_, err := r.db.ExecContext(ctx, query, userID)

	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) PurgeExpiredOrRevoked(ctx context.Context) (int64, error) {

	query :=
		`DELETE FROM refresh_tokens
		 WHERE expires_at <= now() OR revoked
		 `

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %v", err)
	}

	return count, nil
}
