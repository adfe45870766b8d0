package session

import "time"

// RetryPolicy bounds the reconnect loop. MaxAttempts of zero means
// retry forever, matching the tool's historical behavior.
type RetryPolicy struct {
	MaxAttempts int
	Wait        time.Duration
	MaxWait     time.Duration
}

// DefaultRetryPolicy retries ten times with exponential backoff capped
// at thirty seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 10,
		Wait:        2 * time.Second,
		MaxWait:     30 * time.Second,
	}
}

// Exhausted reports whether the policy allows no further attempt after
// the given number of failures.
func (p RetryPolicy) Exhausted(failures int) bool {
	return p.MaxAttempts > 0 && failures >= p.MaxAttempts
}

// WaitFor returns the backoff delay before the attempt following the
// given number of failures: Wait doubled per failure, capped at MaxWait.
func (p RetryPolicy) WaitFor(failures int) time.Duration {
	wait := p.Wait
	if wait <= 0 {
		wait = 2 * time.Second
	}
	for i := 1; i < failures; i++ {
		wait *= 2
		if p.MaxWait > 0 && wait >= p.MaxWait {
			return p.MaxWait
		}
	}
	if p.MaxWait > 0 && wait > p.MaxWait {
		return p.MaxWait
	}
	return wait
}
