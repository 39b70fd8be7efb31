package domain

import "time"

// Actions recorded by the refresh-credential lifecycle.
const (
	ActionSessionIssued  = "session_issued"
	ActionSessionRotated = "session_rotated"
	ActionSessionRevoked = "session_revoked"
	ActionRevokeAll      = "revoke_all"
	ActionReuseDetected  = "reuse_detected"
	ActionDeviceMismatch = "device_mismatch"
	ActionSecretMismatch = "secret_mismatch"
)

// Event is one audit record for a security-relevant lifecycle action.
// UserAgentHash and IPHash carry the forensic digests of the triggering
// request; plaintext user-agent and IP are never persisted here.
type Event struct {
	ID            string
	UserID        int64
	Action        string
	TokenID       string
	UserAgentHash string
	IPHash        string
	Metadata      string
	CreatedAt     time.Time
}
