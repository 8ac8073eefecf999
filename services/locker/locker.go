// Package locker serializes booking writes per room. A booking's conflict check and its insert must run
// under the same room lock, otherwise two requests can both see a free room.
package locker

import (
	"context"
	"sync"
)

// RoomLocker hands out an exclusive lock for a room. The returned unlock func must be called exactly once.
type RoomLocker interface {
	Lock(ctx context.Context, roomID uint) (unlock func(), err error)
}

// LocalLocker is a RoomLocker for a single process.
type LocalLocker struct {
	mu    sync.Mutex
	rooms map[uint]*roomLock
}

type roomLock struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{rooms: make(map[uint]*roomLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, roomID uint) (func(), error) {
	l.mu.Lock()
	rl, ok := l.rooms[roomID]
	if !ok {
		rl = &roomLock{sem: make(chan struct{}, 1)}
		l.rooms[roomID] = rl
	}
	rl.refs++
	l.mu.Unlock()

	select {
	case rl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(roomID, rl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-rl.sem
			l.release(roomID, rl)
		})
	}, nil
}

// release drops a reference and forgets the room once nobody holds or waits for it.
func (l *LocalLocker) release(roomID uint, rl *roomLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rl.refs--
	if rl.refs == 0 {
		delete(l.rooms, roomID)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
