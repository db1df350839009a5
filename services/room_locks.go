package services

import "sync"

// roomTypeLocks serializes availability checks and the writes that depend on them for
// all rooms of one room type inside this process. Cross-process serialization comes from
// the row lock taken on the room type inside the transaction.
type roomTypeLocks struct {
	mu    sync.Mutex
	locks map[uint]*roomTypeLock
}

type roomTypeLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomTypeLocks() *roomTypeLocks {
	return &roomTypeLocks{locks: map[uint]*roomTypeLock{}}
}

// Lock blocks until the room type is free and returns the matching unlock func.
func (l *roomTypeLocks) Lock(roomTypeID uint) func() {
	l.mu.Lock()
	lk, ok := l.locks[roomTypeID]
	if !ok {
		lk = &roomTypeLock{}
		l.locks[roomTypeID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, roomTypeID)
		}
		l.mu.Unlock()
	}
}
