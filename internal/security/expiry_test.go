package security

import (
	"testing"
	"time"
)

func TestClampLifetime(t *testing.T) {
	testCases := []struct {
		name      string
		requested time.Duration
		want      time.Duration
	}{
		{"one second clamps to minimum", time.Second, MinLifetime},
		{"zero clamps to minimum", 0, MinLifetime},
		{"negative clamps to minimum", -time.Hour, MinLifetime},
		{"exact minimum passes", MinLifetime, MinLifetime},
		{"seven days passes", 7 * 24 * time.Hour, 7 * 24 * time.Hour},
		{"exact maximum passes", MaxLifetime, MaxLifetime},
		{"ten years clamps to maximum", 10 * 365 * 24 * time.Hour, MaxLifetime},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampLifetime(tc.requested); got != tc.want {
				t.Errorf("ClampLifetime(%v) = %v, want %v", tc.requested, got, tc.want)
			}
		})
	}
}
