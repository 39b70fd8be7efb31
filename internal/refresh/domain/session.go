// Package domain holds the refresh-credential session row and the
// request metadata it is bound to.
package domain

import "time"

// Session is one row per issued refresh credential. A row is terminal
// once RevokedAt or ReplacedByTokenID is set; no other field is ever
// mutated after creation.
type Session struct {
	ID     int64
	UserID int64
	// TokenID is the public random identifier embedded in the credential
	// string. Globally unique across all rows, active or not.
	TokenID string
	// SecretHash is the bcrypt hash of the credential's secret half.
	// Compared only via Hasher.Compare, never by equality.
	SecretHash string
	// DeviceID is the optional client-supplied device fingerprint,
	// truncated at creation. Empty means the credential is not bound to
	// a device.
	DeviceID string
	// UserAgentHash and IPHash are SHA-256 digests of the creating
	// request's user-agent and IP. Forensic metadata only; never
	// compared against future requests.
	UserAgentHash string
	IPHash        string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	// RevokedAt is nil while active. Set exactly once by explicit
	// revoke, rotation, or breach containment.
	RevokedAt *time.Time
	// ReplacedByTokenID points to the successor row's TokenID once
	// rotation succeeds. Non-empty means the credential has been
	// consumed, independent of RevokedAt.
	ReplacedByTokenID string
}

// Active reports whether the session is still usable at the given
// instant: not revoked, not replaced, not expired.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ReplacedByTokenID == "" && s.ExpiresAt.After(now)
}

// RequestContext carries the client metadata supplied with every
// lifecycle call. Opaque to the core beyond these three fields.
type RequestContext struct {
	// DeviceID is the optional client device fingerprint (≤128 chars at
	// the API boundary; the service truncates defensively).
	DeviceID string
	// UserAgent is the client's user-agent header, possibly empty.
	UserAgent string
	// IP is the client address as seen by the edge.
	IP string
}
