package geo

import "sync"

// Latest guards against stale asynchronous quote results. Each new lookup for
// a key supersedes any in-flight lookup: a result may only be published when
// its token is still the most recent one issued for that key.
type Latest struct {
	mu   sync.Mutex
	seqs map[string]uint64
}

// Begin registers a new lookup for key and returns its token. Any token
// issued earlier for the same key becomes stale immediately.
func (l *Latest) Begin(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seqs == nil {
		l.seqs = make(map[string]uint64)
	}
	l.seqs[key]++
	return l.seqs[key]
}

// Current reports whether the token still identifies the most recent lookup
// for key. Stale results must be discarded by the caller.
func (l *Latest) Current(key string, token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seqs[key] == token
}
