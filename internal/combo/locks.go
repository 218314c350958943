package combo

import "sync"

// sessionLocks serializes work per session id. Entries are reference counted
// and dropped once nobody holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: map[string]*sessionLock{}}
}

// lock blocks until id is free and returns the matching unlock func.
func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// generations tracks the newest verification per session so an older answer
// that arrives late can be recognised and dropped.
type generations struct {
	mu      sync.Mutex
	counter uint64
	latest  map[string]uint64
}

func newGenerations() *generations {
	return &generations{latest: map[string]uint64{}}
}

func (g *generations) begin(id string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	g.latest[id] = g.counter
	return g.counter
}

func (g *generations) isCurrent(id string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[id] == gen
}

func (g *generations) end(id string, gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest[id] == gen {
		delete(g.latest, id)
	}
}
