package qlab

import "time"

// Job is one unit of simulation work run on the pool.
type Job struct {
	ID        string
	Fn        func() (any, error)
	TTL       time.Duration
	StartTime time.Time
}

// JobOption is a function type for configuring jobs
type JobOption func(*Job)

// WithTTL bounds how long an unclaimed result is kept.
func WithTTL(ttl time.Duration) JobOption {
	return func(j *Job) {
		j.TTL = ttl
	}
}
