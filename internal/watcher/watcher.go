// Package watcher turns change-feed wake-ups into consistent room snapshots.
//
// A subscription never trusts the notification payload: every wake-up is
// followed by a fresh read of the committed record, so each delivered
// snapshot is whole. Wake-ups that arrive while a read is running fold into
// a single follow-up read.
package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type Reader interface {
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	ListOpen(ctx context.Context, gameSlug string) ([]domain.Room, error)
}

type ChangeFeed interface {
	Subscribe(ctx context.Context, channel string) (domain.Subscription, error)
}

// RoomSnapshot is one delivery of WatchRoom. Deleted is terminal.
type RoomSnapshot struct {
	RoomID  string
	Room    *domain.Room
	Deleted bool
}

// Cancel stops a subscription. Calling it more than once is harmless, and a
// delivery already in flight may still arrive once after it returns.
type Cancel func()

type Watcher struct {
	repo          Reader
	feed          ChangeFeed
	retryInterval time.Duration
}

func New(repo Reader, feed ChangeFeed) *Watcher {
	return &Watcher{
		repo:          repo,
		feed:          feed,
		retryInterval: 500 * time.Millisecond,
	}
}

// WatchRoom delivers the current room right away and again after every
// committed change. When the room is gone it delivers a Deleted snapshot and
// ends the subscription on its own.
func (w *Watcher) WatchRoom(roomID string, onChange func(RoomSnapshot), onError func(error)) Cancel {
	return w.watch(domain.RoomChannel(roomID), onError, func(ctx context.Context) (bool, error) {
		room, err := w.repo.Get(ctx, roomID)
		if errors.Is(err, domain.ErrRoomNotFound) {
			onChange(RoomSnapshot{RoomID: roomID, Deleted: true})
			return true, nil
		}
		if err != nil {
			return false, err
		}
		onChange(RoomSnapshot{RoomID: roomID, Room: room})
		return false, nil
	})
}

// WatchOpenRooms delivers the full set of waiting rooms for a game each time
// it may have changed.
func (w *Watcher) WatchOpenRooms(gameSlug string, onChange func([]domain.Room), onError func(error)) Cancel {
	return w.watch(domain.OpenRoomsChannel(gameSlug), onError, func(ctx context.Context) (bool, error) {
		rooms, err := w.repo.ListOpen(ctx, gameSlug)
		if err != nil {
			return false, err
		}
		onChange(rooms)
		return false, nil
	})
}

// watch runs one subscription on its own goroutine, so the callbacks of a
// subscription never overlap. deliver reports true once the subscription
// has reached a terminal state.
func (w *Watcher) watch(channel string, onError func(error), deliver func(ctx context.Context) (bool, error)) Cancel {
	ctx, cancel := context.WithCancel(context.Background())

	report := func(err error) {
		if ctx.Err() != nil || onError == nil {
			return
		}
		onError(err)
	}

	go func() {
		defer cancel()

		sub, err := w.subscribe(ctx, channel, report)
		if err != nil {
			return
		}
		defer sub.Close()

		read := func() bool {
			if ctx.Err() != nil {
				return true
			}
			done, err := deliver(ctx)
			if err != nil {
				zap.L().Debug("Watch read failed", zap.String("channel", channel), zap.Error(err))
				report(err)
			}
			return done
		}

		if read() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Notifications():
				if read() {
					return
				}
			}
		}
	}()

	return Cancel(cancel)
}

// subscribe keeps trying until the feed accepts the subscription or ctx ends.
func (w *Watcher) subscribe(ctx context.Context, channel string, report func(error)) (domain.Subscription, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.retryInterval
	b.MaxElapsedTime = 0

	var sub domain.Subscription
	err := backoff.RetryNotify(func() error {
		var err error
		sub, err = w.feed.Subscribe(ctx, channel)
		return err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		zap.L().Warn("Change feed subscription failed, retrying",
			zap.String("channel", channel), zap.Duration("wait", wait), zap.Error(err))
		report(err)
	})
	return sub, err
}
