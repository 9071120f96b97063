package services

import (
	"sync"
	"sync/atomic"
)

// subscription is a single registered callback. active is cleared on
// unsubscribe so an in-flight notification skips it.
type subscription[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// notifier keeps an ordered observer list. Callbacks run synchronously on the
// caller's goroutine, in subscription order, and never under the owner's lock.
//
// Deliveries are serialized in the order their tickets were taken, so the last
// value a subscriber sees is the owner's latest state. Callbacks may read from
// the owner but must not mutate it, since that would wait on their own turn.
type notifier[T any] struct {
	mu   sync.Mutex
	subs []*subscription[T]

	order   sync.Mutex
	turn    *sync.Cond
	next    uint64
	serving uint64
}

func (n *notifier[T]) subscribe(fn func(T)) func() {
	sub := &subscription[T]{fn: fn}
	sub.active.Store(true)

	n.mu.Lock()
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, s := range n.subs {
				if s == sub {
					n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// ticket reserves the next delivery slot. Take it while holding the owner's
// lock, then pass it to publish after unlocking.
func (n *notifier[T]) ticket() uint64 {
	n.order.Lock()
	defer n.order.Unlock()
	t := n.next
	n.next++
	return t
}

// publish waits until every earlier ticket has been delivered, then notifies.
func (n *notifier[T]) publish(ticket uint64, value T) {
	n.order.Lock()
	if n.turn == nil {
		n.turn = sync.NewCond(&n.order)
	}
	for n.serving != ticket {
		n.turn.Wait()
	}
	n.order.Unlock()

	defer func() {
		n.order.Lock()
		n.serving++
		n.turn.Broadcast()
		n.order.Unlock()
	}()
	n.notify(value)
}

func (n *notifier[T]) notify(value T) {
	n.mu.Lock()
	snapshot := make([]*subscription[T], len(n.subs))
	copy(snapshot, n.subs)
	n.mu.Unlock()

	for _, s := range snapshot {
		if s.active.Load() {
			s.fn(value)
		}
	}
}

func (n *notifier[T]) len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
