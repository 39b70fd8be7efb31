// Package repository defines persistence for refresh sessions.
package repository

import (
	"context"
	"time"

	"secure-chat/backend/internal/refresh/domain"
)

// Repository defines persistence for refresh sessions. Implementations
// must make single-row writes and the bulk revoke atomic on their own;
// only rotation needs an explicit transaction, via BeginRotation.
type Repository interface {
	// Create persists a new session and assigns its ID.
	Create(ctx context.Context, s *domain.Session) error
	// GetByTokenID returns the session for tokenID, or nil if not found.
	// It returns an error only for database failures, not missing rows.
	GetByTokenID(ctx context.Context, tokenID string) (*domain.Session, error)
	// Revoke sets revoked_at for the session with the given tokenID.
	// Idempotent: a second call leaves the original timestamp in place.
	Revoke(ctx context.Context, tokenID string, at time.Time) error
	// RevokeAllForUser sets revoked_at on every non-revoked session
	// belonging to userID. No error when the user has no sessions.
	RevokeAllForUser(ctx context.Context, userID int64, at time.Time) error
	// BeginRotation opens a transaction and locks the row for tokenID
	// exclusively, serializing concurrent rotation attempts against the
	// same credential. Returns (nil, nil, nil) when no row exists; the
	// transaction is closed internally in that case. On success the
	// caller owns the RotationTx and must Commit or Rollback it.
	BeginRotation(ctx context.Context, tokenID string) (RotationTx, *domain.Session, error)
	// DeleteRetired deletes rows that are terminal (revoked or replaced)
	// and expired before the given instant. Returns the number of rows
	// removed. Used by the retention sweeper only.
	DeleteRetired(ctx context.Context, before time.Time) (int64, error)
}

// RotationTx exposes the writes permitted while a session row is held
// under the rotation lock. All writes land in the same transaction as
// the lock, so containment on a failed check commits together with the
// check that triggered it.
type RotationTx interface {
	// Retire marks the locked session as consumed: sets revoked_at and
	// replaced_by_token_id in one statement.
	Retire(ctx context.Context, sessionID int64, replacedByTokenID string, at time.Time) error
	// Create inserts the successor session inside the transaction.
	Create(ctx context.Context, s *domain.Session) error
	// RevokeAllForUser is the containment bulk-update for the reuse,
	// device-mismatch, and bad-secret paths.
	RevokeAllForUser(ctx context.Context, userID int64, at time.Time) error
	Commit() error
	Rollback() error
}
