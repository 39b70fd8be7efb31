package security

import "time"

// Bounds for refresh-credential lifetimes. A requested lifetime outside
// this range is clamped rather than rejected, so a misconfigured TTL can
// never issue a near-zero or unbounded credential.
const (
	MinLifetime = 5 * time.Minute
	MaxLifetime = 365 * 24 * time.Hour
)

// ClampLifetime bounds requested into [MinLifetime, MaxLifetime]
// inclusive.
func ClampLifetime(requested time.Duration) time.Duration {
	if requested < MinLifetime {
		return MinLifetime
	}
	if requested > MaxLifetime {
		return MaxLifetime
	}
	return requested
}
