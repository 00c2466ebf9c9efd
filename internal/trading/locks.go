package trading

import "sync" // Mutexes

// userLocks hands out one mutex per user. Entries are dropped when the last
// holder releases, so the map only grows with concurrently trading users.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint]*userLock)}
}

// lock blocks until userID's mutex is held and returns its release func
func (l *userLocks) lock(userID uint) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

// size is the number of users with a live entry
func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
