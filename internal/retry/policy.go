package retry

import (
	"time"

	goretry "github.com/sethvargo/go-retry"
)

const (
	DefaultMaxAttempts = 3
	DefaultBase        = 200 * time.Millisecond
	maxDelay           = 5 * time.Second
)

// Policy bounds a retry loop: at most MaxAttempts calls in total, with an
// exponential delay starting at Base and capped at five seconds.
type Policy struct {
	MaxAttempts int
	Base        time.Duration
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Base <= 0 {
		p.Base = DefaultBase
	}
	return p
}

// Attempts is the total number of calls the policy allows.
func (p Policy) Attempts() int {
	return p.normalized().MaxAttempts
}

// Backoff builds a fresh backoff for one retry loop. Backoffs carry state,
// so never share one between loops.
func (p Policy) Backoff() goretry.Backoff {
	p = p.normalized()
	b := goretry.NewExponential(p.Base)
	b = goretry.WithCappedDuration(maxDelay, b)
	return goretry.WithMaxRetries(uint64(p.MaxAttempts-1), b)
}

// TotalDelay is the sum of every wait the policy inserts between calls
// when all attempts are used.
func (p Policy) TotalDelay() time.Duration {
	b := p.Backoff()
	var total time.Duration
	for {
		d, stop := b.Next()
		if stop {
			return total
		}
		total += d
	}
}
