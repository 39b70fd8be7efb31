package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"secure-chat/backend/internal/audit/domain"
)

type memAuditRepo struct {
	events    []*domain.Event
	createErr error
}

func (m *memAuditRepo) Create(ctx context.Context, e *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memAuditRepo) ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memEmitter struct {
	emitted []*domain.Event
}

func (m *memEmitter) Emit(ctx context.Context, e *domain.Event) {
	m.emitted = append(m.emitted, e)
}

func TestLogEvent_PersistsAndEmits(t *testing.T) {
	repo := &memAuditRepo{}
	emitter := &memEmitter{}
	logger := NewLogger(repo, emitter)

	logger.LogEvent(context.Background(), 42, domain.ActionSessionIssued, "tok-1", "ua-hash", "ip-hash")

	if len(repo.events) != 1 {
		t.Fatalf("persisted events = %d, want 1", len(repo.events))
	}
	e := repo.events[0]
	if e.ID == "" {
		t.Error("event ID should be populated")
	}
	if e.UserID != 42 {
		t.Errorf("UserID = %d, want 42", e.UserID)
	}
	if e.Action != domain.ActionSessionIssued {
		t.Errorf("Action = %q, want %q", e.Action, domain.ActionSessionIssued)
	}
	if e.TokenID != "tok-1" {
		t.Errorf("TokenID = %q, want tok-1", e.TokenID)
	}
	if e.UserAgentHash != "ua-hash" || e.IPHash != "ip-hash" {
		t.Errorf("forensic hashes = (%q, %q), want (ua-hash, ip-hash)", e.UserAgentHash, e.IPHash)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if len(emitter.emitted) != 1 {
		t.Fatalf("emitted events = %d, want 1", len(emitter.emitted))
	}
	if emitter.emitted[0] != e {
		t.Error("emitter should receive the same event as the repository")
	}
}

func TestLogEvent_RepoFailureDoesNotPanic(t *testing.T) {
	repo := &memAuditRepo{createErr: errors.New("db down")}
	emitter := &memEmitter{}
	logger := NewLogger(repo, emitter)

	logger.LogEvent(context.Background(), 7, domain.ActionReuseDetected, "tok-2", "", "")

	if len(repo.events) != 0 {
		t.Errorf("persisted events = %d, want 0", len(repo.events))
	}
	// Emission still happens when persistence fails.
	if len(emitter.emitted) != 1 {
		t.Errorf("emitted events = %d, want 1", len(emitter.emitted))
	}
}

func TestLogEvent_NilDependencies(t *testing.T) {
	logger := NewLogger(nil, nil)
	// Must not panic.
	logger.LogEvent(context.Background(), 1, domain.ActionSessionRevoked, "tok-3", "", "")
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		event *domain.Event
		want  string
	}{
		{
			name: "all fields",
			event: &domain.Event{
				UserID:        42,
				Action:        domain.ActionReuseDetected,
				TokenID:       "tok-1",
				UserAgentHash: "aaa",
				IPHash:        "bbb",
				Metadata:      "m",
				CreatedAt:     at,
			},
			want: "2026-08-28T12:00:00Z reuse_detected user=42 token=tok-1 ua=aaa ip=bbb meta=m",
		},
		{
			name: "empty fields omitted",
			event: &domain.Event{
				UserID:    7,
				Action:    domain.ActionRevokeAll,
				CreatedAt: at,
			},
			want: "2026-08-28T12:00:00Z revoke_all user=7",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatEvent(tc.event); got != tc.want {
				t.Errorf("FormatEvent = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLogEvent_UniqueIDs(t *testing.T) {
	repo := &memAuditRepo{}
	logger := NewLogger(repo, nil)

	logger.LogEvent(context.Background(), 1, domain.ActionSessionIssued, "a", "", "")
	logger.LogEvent(context.Background(), 1, domain.ActionSessionIssued, "b", "", "")

	if len(repo.events) != 2 {
		t.Fatalf("persisted events = %d, want 2", len(repo.events))
	}
	if repo.events[0].ID == repo.events[1].ID {
		t.Error("event IDs should be unique")
	}
}
