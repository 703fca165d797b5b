package memory

import (
	"context"
	"sync"

	"github.com/baoduongg/game-library/domain"
)

// Feed is an in-process change feed. Each subscriber holds at most one
// pending signal, so a burst of publishes collapses into one wake-up.
type Feed struct {
	mu   sync.Mutex
	subs map[string]map[*subscription]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[string]map[*subscription]struct{})}
}

func (f *Feed) Publish(_ context.Context, channel string, _ domain.RoomEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for sub := range f.subs[channel] {
		sub.signal()
	}
	return nil
}

func (f *Feed) Subscribe(_ context.Context, channel string) (domain.Subscription, error) {
	sub := &subscription{
		feed:    f,
		channel: channel,
		ch:      make(chan struct{}, 1),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs[channel] == nil {
		f.subs[channel] = make(map[*subscription]struct{})
	}
	f.subs[channel][sub] = struct{}{}
	return sub, nil
}

// Subscribers reports how many live subscriptions channel has.
func (f *Feed) Subscribers(channel string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[channel])
}

func (f *Feed) unsubscribe(sub *subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subs[sub.channel], sub)
	if len(f.subs[sub.channel]) == 0 {
		delete(f.subs, sub.channel)
	}
}

type subscription struct {
	feed    *Feed
	channel string
	ch      chan struct{}
	once    sync.Once
}

func (s *subscription) signal() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *subscription) Notifications() <-chan struct{} {
	return s.ch
}

func (s *subscription) Close() error {
	s.once.Do(func() { s.feed.unsubscribe(s) })
	return nil
}
