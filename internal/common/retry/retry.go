// Package retry expresses retry behavior as data so components can be
// handed a policy instead of growing nested retry loops, and so tests
// can swap the sleeper for a recorder.
package retry

import "time"

// Policy bounds a retry loop: total attempts, the delay after a
// transient transport failure, and the delay after an unexpected HTTP
// status. Conflicts and other terminal outcomes never consult the policy.
type Policy struct {
	MaxAttempts    int
	TransientDelay time.Duration
	StatusDelay    time.Duration

	// Sleep is called between attempts. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// DefaultPolicy matches the fixed-delay behavior of the pipeline:
// 3 attempts, 2s after transport failures, 1s after bad statuses.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		TransientDelay: 2 * time.Second,
		StatusDelay:    1 * time.Second,
		Sleep:          time.Sleep,
	}
}

// Normalize fills zero values so a partially built policy is usable.
func (p Policy) Normalize() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.Sleep == nil {
		p.Sleep = time.Sleep
	}
	return p
}

// LastAttempt reports whether attempt (zero-based) is the final one.
func (p Policy) LastAttempt(attempt int) bool {
	return attempt >= p.MaxAttempts-1
}

// WaitTransient sleeps the transient-failure delay.
func (p Policy) WaitTransient() {
	if p.TransientDelay > 0 {
		p.Sleep(p.TransientDelay)
	}
}

// WaitStatus sleeps the unexpected-status delay.
func (p Policy) WaitStatus() {
	if p.StatusDelay > 0 {
		p.Sleep(p.StatusDelay)
	}
}
