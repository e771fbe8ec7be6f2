package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.TransientDelay)
	assert.Equal(t, time.Second, p.StatusDelay)
	assert.NotNil(t, p.Sleep)
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	p := Policy{}.Normalize()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.NotNil(t, p.Sleep)

	p = Policy{MaxAttempts: 5}.Normalize()
	assert.Equal(t, 5, p.MaxAttempts)
}

func TestLastAttempt(t *testing.T) {
	p := Policy{MaxAttempts: 3}
	assert.False(t, p.LastAttempt(0))
	assert.False(t, p.LastAttempt(1))
	assert.True(t, p.LastAttempt(2))
	assert.True(t, p.LastAttempt(3))
}

func TestWaitsUseConfiguredDelays(t *testing.T) {
	var slept []time.Duration
	p := Policy{
		TransientDelay: 2 * time.Second,
		StatusDelay:    time.Second,
		Sleep:          func(d time.Duration) { slept = append(slept, d) },
	}

	p.WaitTransient()
	p.WaitStatus()
	assert.Equal(t, []time.Duration{2 * time.Second, time.Second}, slept)

	// Zero delays never call the sleeper.
	slept = nil
	Policy{Sleep: func(d time.Duration) { slept = append(slept, d) }}.WaitTransient()
	assert.Empty(t, slept)
}
