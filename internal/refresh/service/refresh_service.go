// Package service implements the refresh-credential lifecycle: issue,
// rotate with reuse/theft detection, and revocation, individual or
// cascading.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"secure-chat/backend/internal/audit"
	auditdomain "secure-chat/backend/internal/audit/domain"
	"secure-chat/backend/internal/refresh/domain"
	"secure-chat/backend/internal/refresh/repository"
	"secure-chat/backend/internal/security"
	"secure-chat/backend/internal/telemetry"
)

// Sentinel errors for the refresh lifecycle. Callers must surface every
// error matched by IsUnauthorized as the same opaque "invalid refresh
// token" response; the distinct values exist for logging and audit only.
var (
	// ErrInvalidToken means the credential string is malformed. Client
	// error, never retried.
	ErrInvalidToken = errors.New("invalid refresh token format")
	// ErrSessionNotFound means no row exists for the tokenId. Surfaced
	// as unauthorized so callers cannot probe which tokens once existed.
	ErrSessionNotFound = errors.New("refresh session not found")
	// ErrTokenReuse means an already-retired or expired credential was
	// presented. All of the user's sessions are revoked before this is
	// returned.
	ErrTokenReuse = errors.New("refresh token reused or expired")
	// ErrDeviceMismatch means the credential is bound to a different
	// device. On the rotate path all of the user's sessions are revoked
	// before this is returned.
	ErrDeviceMismatch = errors.New("refresh token device mismatch")
	// ErrSecretMismatch means the secret half failed verification. All
	// of the user's sessions are revoked before this is returned.
	ErrSecretMismatch = errors.New("refresh token secret mismatch")
	// ErrDeviceIDRequired is the production-mode gate: callers return it
	// for requests lacking a device id before invoking the lifecycle.
	ErrDeviceIDRequired = errors.New("device id is required")
)

// IsUnauthorized reports whether err must be mapped to the generic
// "invalid refresh token" response at the API boundary. The variants
// are never distinguished externally.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrTokenReuse) ||
		errors.Is(err, ErrDeviceMismatch) ||
		errors.Is(err, ErrSecretMismatch)
}

// CheckRequestContext is the caller-side gate for production mode: when
// requireDevice is set, requests without a device id are rejected before
// the lifecycle is ever invoked. The lifecycle methods themselves never
// apply this check.
func CheckRequestContext(rc domain.RequestContext, requireDevice bool) error {
	if requireDevice && rc.DeviceID == "" {
		return ErrDeviceIDRequired
	}
	return nil
}

const (
	// secretBytes is the entropy of the credential's secret half before
	// base64 encoding.
	secretBytes = 32
	// DefaultDeviceIDMaxLen bounds the stored device fingerprint.
	DefaultDeviceIDMaxLen = 128
	// DefaultRefreshTTL is used when the configured lifetime is zero.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Service is the session lifecycle manager. All durable state lives in
// the repository; Service itself is stateless and safe for concurrent
// use by request-handling goroutines.
type Service struct {
	repo           repository.Repository
	hasher         *security.Hasher
	refreshTTL     time.Duration
	deviceIDMaxLen int
	auditLog       audit.AuditLogger
	metrics        *telemetry.Metrics
	tracer         trace.Tracer

	// test seams
	now        func() time.Time
	newTokenID func() string
}

// NewService returns a lifecycle manager with the given dependencies.
// auditLog and metrics may be nil.
func NewService(repo repository.Repository, hasher *security.Hasher, refreshTTL time.Duration, auditLog audit.AuditLogger, metrics *telemetry.Metrics) *Service {
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Service{
		repo:           repo,
		hasher:         hasher,
		refreshTTL:     refreshTTL,
		deviceIDMaxLen: DefaultDeviceIDMaxLen,
		auditLog:       auditLog,
		metrics:        metrics,
		tracer:         otel.Tracer("securechat.refresh"),
		now:            func() time.Time { return time.Now().UTC() },
		newTokenID:     uuid.NewString,
	}
}

// Issue creates a new active session for userID bound to the request
// context and returns the credential string rt.<tokenId>.<secret>. The
// plaintext secret is never persisted.
func (s *Service) Issue(ctx context.Context, userID int64, rc domain.RequestContext) (string, error) {
	ctx, span := s.tracer.Start(ctx, "refresh.Issue",
		trace.WithAttributes(attribute.Int64("user_id", userID)))
	defer span.End()

	tokenID := s.newTokenID()
	secret, err := security.RandomSecret(secretBytes)
	if err != nil {
		return "", err
	}
	secretHash, err := s.hasher.Hash([]byte(secret))
	if err != nil {
		return "", err
	}

	now := s.now()
	sess := &domain.Session{
		UserID:        userID,
		TokenID:       tokenID,
		SecretHash:    secretHash,
		DeviceID:      truncate(rc.DeviceID, s.deviceIDMaxLen),
		UserAgentHash: digestOrEmpty(rc.UserAgent),
		IPHash:        digestOrEmpty(rc.IP),
		CreatedAt:     now,
		ExpiresAt:     now.Add(security.ClampLifetime(s.refreshTTL)),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}

	s.logEvent(ctx, userID, auditdomain.ActionSessionIssued, tokenID, sess)
	s.metrics.RecordIssued(ctx)
	return FormatToken(tokenID, secret), nil
}

// Rotate exchanges a presented credential for a successor session and
// returns the owning userID. The row is read under an exclusive lock so
// concurrent rotations of the same credential resolve as one winner and
// one loser; the loser observes the retired row and takes the reuse
// path. Every failed check commits a cascading revocation of all the
// user's sessions in the same transaction before the error is returned.
func (s *Service) Rotate(ctx context.Context, token string, rc domain.RequestContext) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "refresh.Rotate")
	defer span.End()

	tokenID, secret, err := ParseToken(token)
	if err != nil {
		return 0, err
	}

	tx, sess, err := s.repo.BeginRotation(ctx, tokenID)
	if err != nil {
		return 0, err
	}
	if sess == nil {
		s.metrics.RecordRejected(ctx, "not_found")
		return 0, ErrSessionNotFound
	}
	span.SetAttributes(attribute.Int64("user_id", sess.UserID))

	now := s.now()

	// Reuse/theft check runs before the secret comparison so the
	// response time does not reveal whether the secret would have
	// matched.
	if !sess.Active(now) {
		return 0, s.contain(ctx, tx, sess, now, auditdomain.ActionReuseDetected, "reuse", ErrTokenReuse)
	}

	if sess.DeviceID != "" && sess.DeviceID != rc.DeviceID {
		return 0, s.contain(ctx, tx, sess, now, auditdomain.ActionDeviceMismatch, "device_mismatch", ErrDeviceMismatch)
	}

	if err := s.hasher.Compare(sess.SecretHash, []byte(secret)); err != nil {
		return 0, s.contain(ctx, tx, sess, now, auditdomain.ActionSecretMismatch, "secret_mismatch", ErrSecretMismatch)
	}

	newTokenID := s.newTokenID()
	newSecret, err := security.RandomSecret(secretBytes)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	newSecretHash, err := s.hasher.Hash([]byte(newSecret))
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Retire(ctx, sess.ID, newTokenID, now); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	next := &domain.Session{
		UserID:        sess.UserID,
		TokenID:       newTokenID,
		SecretHash:    newSecretHash,
		DeviceID:      sess.DeviceID,
		UserAgentHash: digestOrEmpty(rc.UserAgent),
		IPHash:        digestOrEmpty(rc.IP),
		CreatedAt:     now,
		ExpiresAt:     now.Add(security.ClampLifetime(s.refreshTTL)),
	}
	if err := tx.Create(ctx, next); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.logEvent(ctx, sess.UserID, auditdomain.ActionSessionRotated, tokenID, next)
	s.metrics.RecordRotated(ctx)
	return sess.UserID, nil
}

// Revoke marks the presented credential's session as revoked.
// Best-effort and idempotent: an unknown tokenId succeeds silently. A
// device mismatch (both stored and supplied non-empty) fails without
// mutation; no cascade happens on this path.
func (s *Service) Revoke(ctx context.Context, token string, rc domain.RequestContext) error {
	ctx, span := s.tracer.Start(ctx, "refresh.Revoke")
	defer span.End()

	tokenID, _, err := ParseToken(token)
	if err != nil {
		return err
	}

	sess, err := s.repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	if sess.DeviceID != "" && rc.DeviceID != "" && sess.DeviceID != rc.DeviceID {
		s.logEvent(ctx, sess.UserID, auditdomain.ActionDeviceMismatch, tokenID, sess)
		return ErrDeviceMismatch
	}

	if err := s.repo.Revoke(ctx, tokenID, s.now()); err != nil {
		return err
	}
	s.logEvent(ctx, sess.UserID, auditdomain.ActionSessionRevoked, tokenID, sess)
	s.metrics.RecordRevoked(ctx)
	return nil
}

// RevokeAllForUser revokes every active session belonging to userID.
// Idempotent; a user with no sessions is a no-op.
func (s *Service) RevokeAllForUser(ctx context.Context, userID int64) error {
	ctx, span := s.tracer.Start(ctx, "refresh.RevokeAllForUser",
		trace.WithAttributes(attribute.Int64("user_id", userID)))
	defer span.End()

	if err := s.repo.RevokeAllForUser(ctx, userID, s.now()); err != nil {
		return err
	}
	if s.auditLog != nil {
		s.auditLog.LogEvent(ctx, userID, auditdomain.ActionRevokeAll, "", "", "")
	}
	s.metrics.RecordRevoked(ctx)
	return nil
}

// contain commits the cascading revocation for a failed rotation check
// and returns failErr. The bulk update and the check that triggered it
// land in the same transaction, so the containment side effect survives
// even if the caller ignores the error. Store failures take precedence
// over failErr: then the transaction rolls back and nothing is reported
// as contained.
func (s *Service) contain(ctx context.Context, tx repository.RotationTx, sess *domain.Session, now time.Time, action, reason string, failErr error) error {
	if err := tx.RevokeAllForUser(ctx, sess.UserID, now); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logEvent(ctx, sess.UserID, action, sess.TokenID, sess)
	s.metrics.RecordRejected(ctx, reason)
	s.metrics.RecordContainment(ctx)
	return failErr
}

func (s *Service) logEvent(ctx context.Context, userID int64, action, tokenID string, sess *domain.Session) {
	if s.auditLog == nil {
		return
	}
	var uaHash, ipHash string
	if sess != nil {
		uaHash, ipHash = sess.UserAgentHash, sess.IPHash
	}
	s.auditLog.LogEvent(ctx, userID, action, tokenID, uaHash, ipHash)
}

func digestOrEmpty(v string) string {
	if v == "" {
		return ""
	}
	return security.SHA256Hex(v)
}

func truncate(v string, max int) string {
	if max <= 0 || len(v) <= max {
		return v
	}
	r := []rune(v)
	if len(r) <= max {
		return v
	}
	return string(r[:max])
}
