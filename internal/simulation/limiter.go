package simulation

import "sync"

// sessionLimiter tracks open sessions per client and globally.
type sessionLimiter struct {
	mu        sync.Mutex
	sessions  map[string]int
	total     int
	maxClient int
	maxTotal  int
}

func newSessionLimiter(maxClient, maxTotal int) *sessionLimiter {
	return &sessionLimiter{
		sessions:  make(map[string]int),
		maxClient: maxClient,
		maxTotal:  maxTotal,
	}
}

// acquire registers a new session for client.
// Returns false if the client or global limit has been reached.
func (l *sessionLimiter) acquire(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return false
	}
	if l.maxClient > 0 && l.sessions[client] >= l.maxClient {
		return false
	}

	l.sessions[client]++
	l.total++
	return true
}

func (l *sessionLimiter) release(client string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sessions[client] <= 0 {
		return
	}
	l.sessions[client]--
	l.total--
	if l.sessions[client] == 0 {
		delete(l.sessions, client)
	}
}

func (l *sessionLimiter) count(client string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessions[client]
}

func (l *sessionLimiter) active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
