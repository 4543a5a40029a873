package config

import "time"

// Budget is one rate limit: Burst requests may arrive back to back, after
// which one more is admitted every Every.
type Budget struct {
	Burst int
	Every time.Duration
}

// RateLimitConfig configures the Redis limiter on writes.  Form
// submissions (create and edit) and deletions draw from separate budgets,
// so a client clicking through edits cannot also wipe the directory.
type RateLimitConfig struct {
	Enabled     bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Prefix      string        `env:"RATE_LIMIT_PREFIX" envDefault:"fyyur:rl"`
	KeyStrategy string        `env:"RATE_LIMIT_KEY_STRATEGY" envDefault:"ip"` // ip or ip_route
	SubmitBurst int           `env:"RATE_LIMIT_SUBMIT_BURST" envDefault:"20"`
	SubmitEvery time.Duration `env:"RATE_LIMIT_SUBMIT_EVERY" envDefault:"3s"`
	DeleteBurst int           `env:"RATE_LIMIT_DELETE_BURST" envDefault:"5"`
	DeleteEvery time.Duration `env:"RATE_LIMIT_DELETE_EVERY" envDefault:"30s"`
}

// Submissions is the budget for create and edit form posts.
func (r RateLimitConfig) Submissions() Budget {
	return Budget{Burst: r.SubmitBurst, Every: r.SubmitEvery}
}

// Deletions is the budget for DELETE requests.
func (r RateLimitConfig) Deletions() Budget {
	return Budget{Burst: r.DeleteBurst, Every: r.DeleteEvery}
}

func (r *RateLimitConfig) normalize() {
	r.SubmitBurst, r.SubmitEvery = clampBudget(r.SubmitBurst, r.SubmitEvery)
	r.DeleteBurst, r.DeleteEvery = clampBudget(r.DeleteBurst, r.DeleteEvery)
	if r.KeyStrategy != "ip_route" {
		r.KeyStrategy = "ip"
	}
}

func clampBudget(burst int, every time.Duration) (int, time.Duration) {
	if burst < 1 {
		burst = 1
	}
	if every < time.Millisecond {
		every = time.Second
	}
	return burst, every
}
