package vault

import "sync"

// pathLocks serializes mutations per normalized path. The physical
// operation and the index update are not one transaction, so a rename
// and a delete racing on the same entry could otherwise interleave
// between the two steps and strand a stale index row.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*pathLock)}
}

func (p *pathLocks) lock(path string) {
	p.mu.Lock()
	l, ok := p.locks[path]
	if !ok {
		l = &pathLock{}
		p.locks[path] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
}

func (p *pathLocks) unlock(path string) {
	p.mu.Lock()
	l := p.locks[path]
	l.refs--
	if l.refs == 0 {
		delete(p.locks, path)
	}
	p.mu.Unlock()

	l.mu.Unlock()
}
