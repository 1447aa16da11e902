package qlab

import (
	"sync"
	"time"
)

// JobResult wraps the value a job produced with its metadata.
type JobResult struct {
	Value     any
	Error     error
	CreatedAt time.Time
	TTL       time.Duration
}

/*
ResultSpace is where workers leave job results and schedulers pick them up.
A result goes to every Await already waiting on its ID, or else to the first
Await that comes later. Results nobody claims are dropped once their TTL runs
out.
*/
type ResultSpace struct {
	mu      sync.Mutex
	values  map[string]JobResult
	waiting map[string][]chan JobResult
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewResultSpace() *ResultSpace {
	rs := &ResultSpace{
		values:  make(map[string]JobResult),
		waiting: make(map[string][]chan JobResult),
		done:    make(chan struct{}),
	}

	rs.wg.Add(1)
	go func() {
		defer rs.wg.Done()
		rs.cleanup(time.Minute)
	}()

	return rs
}

// Store records a result and hands it to the first waiter, if any.
func (rs *ResultSpace) Store(id string, value any, err error, ttl time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	result := JobResult{
		Value:     value,
		Error:     err,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}

	channels := rs.waiting[id]
	if len(channels) == 0 {
		rs.values[id] = result
		return
	}

	// Await channels are buffered with room for exactly one result.
	for _, ch := range channels {
		ch <- result
		close(ch)
	}
	delete(rs.waiting, id)
}

// Await returns a channel that receives the result for id once it exists.
func (rs *ResultSpace) Await(id string) chan JobResult {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	ch := make(chan JobResult, 1)

	if result, ok := rs.values[id]; ok {
		delete(rs.values, id)
		ch <- result
		close(ch)
		return ch
	}

	rs.waiting[id] = append(rs.waiting[id], ch)
	return ch
}

// Pending is the number of stored results nobody has claimed yet.
func (rs *ResultSpace) Pending() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.values)
}

func (rs *ResultSpace) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rs.done:
			return
		case <-ticker.C:
			rs.cleanupExpired(time.Now())
		}
	}
}

func (rs *ResultSpace) cleanupExpired(now time.Time) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for id, result := range rs.values {
		if result.TTL > 0 && now.Sub(result.CreatedAt) > result.TTL {
			delete(rs.values, id)
		}
	}
}

// Close stops the cleanup loop.
func (rs *ResultSpace) Close() {
	rs.once.Do(func() {
		close(rs.done)
	})
	rs.wg.Wait()
}
