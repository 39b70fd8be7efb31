package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"secure-chat/backend/internal/refresh/domain"
)

const sessionColumns = `id, user_id, token_id, secret_hash, device_id, user_agent_hash, ip_hash, created_at, expires_at, revoked_at, replaced_by_token_id`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given
// db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the session and fills in its store-assigned ID.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	return createSession(ctx, r.db, s)
}

// GetByTokenID returns the session for tokenID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByTokenID(ctx context.Context, tokenID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM refresh_sessions WHERE token_id = $1`, tokenID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Revoke sets revoked_at for the session with the given tokenID. The
// WHERE guard keeps the first revocation timestamp when called twice.
func (r *PostgresRepository) Revoke(ctx context.Context, tokenID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions SET revoked_at = $2 WHERE token_id = $1 AND revoked_at IS NULL`,
		tokenID, at)
	return err
}

// RevokeAllForUser sets revoked_at on every non-revoked session for
// userID. No-op when the user has none.
func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID, at)
	return err
}

// BeginRotation opens a transaction and locks the session row for
// tokenID with SELECT ... FOR UPDATE. A concurrent rotation of the same
// credential blocks here until the winner commits, then observes the
// retired row. Returns (nil, nil, nil) when no row exists.
func (r *PostgresRepository) BeginRotation(ctx context.Context, tokenID string) (RotationTx, *domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	row := tx.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM refresh_sessions WHERE token_id = $1 FOR UPDATE`, tokenID)
	s, err := scanSession(row)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &postgresRotationTx{tx: tx}, s, nil
}

// DeleteRetired deletes rows that are already terminal and whose expiry
// is before the given instant. Returns the number of rows removed.
func (r *PostgresRepository) DeleteRetired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_sessions
		 WHERE expires_at < $1 AND (revoked_at IS NOT NULL OR replaced_by_token_id IS NOT NULL)`,
		before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type postgresRotationTx struct {
	tx *sql.Tx
}

func (t *postgresRotationTx) Retire(ctx context.Context, sessionID int64, replacedByTokenID string, at time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE refresh_sessions SET revoked_at = $2, replaced_by_token_id = $3 WHERE id = $1`,
		sessionID, at, replacedByTokenID)
	return err
}

func (t *postgresRotationTx) Create(ctx context.Context, s *domain.Session) error {
	return createSession(ctx, t.tx, s)
}

func (t *postgresRotationTx) RevokeAllForUser(ctx context.Context, userID int64, at time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE refresh_sessions SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID, at)
	return err
}

func (t *postgresRotationTx) Commit() error   { return t.tx.Commit() }
func (t *postgresRotationTx) Rollback() error { return t.tx.Rollback() }

// execer covers *sql.DB and *sql.Tx so inserts share one code path.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createSession(ctx context.Context, db execer, s *domain.Session) error {
	return db.QueryRowContext(ctx,
		`INSERT INTO refresh_sessions
		 (user_id, token_id, secret_hash, device_id, user_agent_hash, ip_hash, created_at, expires_at, revoked_at, replaced_by_token_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		s.UserID,
		s.TokenID,
		s.SecretHash,
		toNullString(s.DeviceID),
		toNullString(s.UserAgentHash),
		toNullString(s.IPHash),
		s.CreatedAt,
		s.ExpiresAt,
		timeToNullTime(s.RevokedAt),
		toNullString(s.ReplacedByTokenID),
	).Scan(&s.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s          domain.Session
		deviceID   sql.NullString
		uaHash     sql.NullString
		ipHash     sql.NullString
		revokedAt  sql.NullTime
		replacedBy sql.NullString
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.TokenID, &s.SecretHash,
		&deviceID, &uaHash, &ipHash,
		&s.CreatedAt, &s.ExpiresAt, &revokedAt, &replacedBy,
	)
	if err != nil {
		return nil, err
	}
	s.DeviceID = deviceID.String
	s.UserAgentHash = uaHash.String
	s.IPHash = ipHash.String
	s.RevokedAt = nullTimeToPtr(revokedAt)
	s.ReplacedByTokenID = replacedBy.String
	return &s, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
