// Package queue implements the outbound command buffer shared between
// host-side callers and the session loop.
package queue

import "sync"

// Queue is an unbounded buffer of encoded wire messages. Any caller may
// Push concurrently with the session loop draining via PopNewest.
//
// Draining is LIFO: the most recently pushed message is sent first, so that
// under backlog the latest intent (typically the newest identify probe)
// takes priority over stale queued commands. Older commands can starve if
// new ones keep arriving; callers rely on the session timeout to surface
// that stall.
type Queue struct {
	mu    sync.Mutex
	items [][]byte
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Push appends a message to the queue.
func (q *Queue) Push(msg []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, msg)
}

// PopNewest removes and returns the most recently pushed message.
// The second return value is false when the queue is empty.
func (q *Queue) PopNewest() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	if n == 0 {
		return nil, false
	}
	msg := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	return msg, true
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Reset discards all queued messages. Called on reconnect so that commands
// from a previous session are never sent into a new one.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}
