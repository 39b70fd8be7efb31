package repository

import (
	"context"
	"database/sql"

	"secure-chat/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit event repository that uses the
// given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit event. The event must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events
		 (id, user_id, action, token_id, user_agent_hash, ip_hash, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID,
		e.UserID,
		e.Action,
		toNullString(e.TokenID),
		toNullString(e.UserAgentHash),
		toNullString(e.IPHash),
		toNullString(e.Metadata),
		e.CreatedAt,
	)
	return err
}

// ListByUser returns audit events for the given user, newest first,
// paginated by limit and offset. Returns (nil, error) only on database
// errors.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, token_id, user_agent_hash, ip_hash, metadata, created_at
		 FROM audit_events WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var (
			e        domain.Event
			tokenID  sql.NullString
			uaHash   sql.NullString
			ipHash   sql.NullString
			metadata sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &tokenID, &uaHash, &ipHash, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.TokenID = tokenID.String
		e.UserAgentHash = uaHash.String
		e.IPHash = ipHash.String
		e.Metadata = metadata.String
		out = append(out, &e)
	}
	return out, rows.Err()
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
