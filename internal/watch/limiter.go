package watch

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pathLimiter applies a token bucket per path and periodically evicts idle
// entries so a long-running watch does not accumulate state for files that
// stopped changing.
type pathLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu     sync.Mutex
	byPath map[string]*limiterEntry
	hits   uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newPathLimiter returns nil when every is not positive, which disables
// throttling entirely.
func newPathLimiter(every time.Duration, burst int) *pathLimiter {
	if every <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &pathLimiter{
		limit:   rate.Every(every),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		byPath:  make(map[string]*limiterEntry),
	}
}

// Allow reports whether one re-check may run for the path at now. A nil
// limiter always allows.
func (l *pathLimiter) Allow(path string, now time.Time) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.byPath[path]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byPath[path] = entry
	}
	entry.lastSeen = now
	allowed := entry.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%256 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for path, entry := range l.byPath {
			if entry.lastSeen.Before(cutoff) {
				delete(l.byPath, path)
			}
		}
	}

	return allowed
}
