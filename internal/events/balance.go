// Package events fans out domain events (balance snapshots, rate updates)
// to interested readers.
package events

import (
	"sync"

	"github.com/vadiminshakov/swapdesk/internal/domain"
)

const defaultBuffer = 64

// Broadcaster fans out events to all subscribers via buffered channels.
// Slow subscribers miss events instead of blocking publishers.
type Broadcaster[T any] struct {
	mu     sync.RWMutex
	subs   map[chan T]struct{}
	buffer int
}

// BalanceBroadcaster delivers wallet snapshots.
type BalanceBroadcaster = Broadcaster[domain.BalanceSnapshot]

// RateBroadcaster delivers refreshed exchange rates.
type RateBroadcaster = Broadcaster[domain.RateUpdate]

// NewBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewBroadcaster[T any](buffer int) *Broadcaster[T] {
	if buffer < 1 {
		buffer = defaultBuffer
	}
	return &Broadcaster[T]{
		subs:   make(map[chan T]struct{}),
		buffer: buffer,
	}
}

// NewBalanceBroadcaster creates a broadcaster of balance snapshots.
func NewBalanceBroadcaster(buffer int) *BalanceBroadcaster {
	return NewBroadcaster[domain.BalanceSnapshot](buffer)
}

// NewRateBroadcaster creates a broadcaster of rate updates.
func NewRateBroadcaster(buffer int) *RateBroadcaster {
	return NewBroadcaster[domain.RateUpdate](buffer)
}

// Publish sends the event to all subscribers, dropping it for readers that lag.
// Safe to call on a nil broadcaster.
func (b *Broadcaster[T]) Publish(event T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives events until Unsubscribe is called.
func (b *Broadcaster[T]) Subscribe() chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *Broadcaster[T]) Unsubscribe(ch chan T) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
