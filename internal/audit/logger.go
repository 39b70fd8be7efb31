// Package audit records security-relevant refresh-credential lifecycle
// events. Logging is best-effort: a failed audit write never fails the
// operation that triggered it.
package audit

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"secure-chat/backend/internal/audit/domain"
	auditrepo "secure-chat/backend/internal/audit/repository"
)

// AuditLogger writes a single audit event with explicit action and
// token id. Used by the refresh lifecycle code paths.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID int64, action, tokenID, userAgentHash, ipHash string)
}

// Emitter forwards an audit event to an external sink (e.g. OTel log
// records). Best-effort; implementations must not block the caller.
type Emitter interface {
	Emit(ctx context.Context, e *domain.Event)
}

// Logger implements AuditLogger using the audit repository and an
// optional emitter. Both may be nil; a fully nil Logger drops events.
type Logger struct {
	repo    auditrepo.Repository
	emitter Emitter
}

// NewLogger returns an AuditLogger that persists to repo and forwards
// to emitter. Either may be nil.
func NewLogger(repo auditrepo.Repository, emitter Emitter) *Logger {
	return &Logger{repo: repo, emitter: emitter}
}

// LogEvent writes one audit event. Best-effort: errors are logged and
// not returned.
func (l *Logger) LogEvent(ctx context.Context, userID int64, action, tokenID, userAgentHash, ipHash string) {
	e := &domain.Event{
		ID:            uuid.New().String(),
		UserID:        userID,
		Action:        action,
		TokenID:       tokenID,
		UserAgentHash: userAgentHash,
		IPHash:        ipHash,
		CreatedAt:     time.Now().UTC(),
	}
	if l.repo != nil {
		if err := l.repo.Create(ctx, e); err != nil {
			log.Printf("audit: failed to log event %s for user %d: %v", action, userID, err)
		}
	}
	if l.emitter != nil {
		l.emitter.Emit(ctx, e)
	}
}

// FormatEvent renders one audit event as a single line for CLI output.
// Empty fields are omitted.
func FormatEvent(e *domain.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s user=%d", e.CreatedAt.Format(time.RFC3339), e.Action, e.UserID)
	if e.TokenID != "" {
		fmt.Fprintf(&b, " token=%s", e.TokenID)
	}
	if e.UserAgentHash != "" {
		fmt.Fprintf(&b, " ua=%s", e.UserAgentHash)
	}
	if e.IPHash != "" {
		fmt.Fprintf(&b, " ip=%s", e.IPHash)
	}
	if e.Metadata != "" {
		fmt.Fprintf(&b, " meta=%s", e.Metadata)
	}
	return b.String()
}
