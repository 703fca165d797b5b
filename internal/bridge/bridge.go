// Package bridge connects one embedded game payload to one room session.
//
// The payload announces itself with READY and is answered with
// INIT_MULTIPLAYER. From then on every committed room snapshot is pushed as
// STATE_SYNC, and MOVE messages from the payload are reported back to the
// coordinator.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/internal/watcher"

	"go.uber.org/zap"
)

// ErrBridgeTimeout means the payload stayed silent through the READY window
// and through the window after the speculative INIT_MULTIPLAYER.
var ErrBridgeTimeout = errors.New("game payload did not respond")

const defaultReadyTimeout = 5 * time.Second

// Sender delivers one host message to the payload.
type Sender interface {
	Send(msg any) error
}

type MoveReporter interface {
	ReportMove(ctx context.Context, roomID string, session domain.SessionContext, newState json.RawMessage, nextTurn *string) error
}

type RoomWatcher interface {
	WatchRoom(roomID string, onChange func(watcher.RoomSnapshot), onError func(error)) watcher.Cancel
}

type Config struct {
	ReadyTimeout time.Duration
}

type Bridge struct {
	roomID       string
	session      domain.SessionContext
	sender       Sender
	moves        MoveReporter
	rooms        RoomWatcher
	readyTimeout time.Duration

	inbound   chan []byte
	snapshots chan watcher.RoomSnapshot
	errs      chan error
	done      chan struct{}
}

func New(roomID string, session domain.SessionContext, sender Sender, moves MoveReporter, rooms RoomWatcher, cfg Config) *Bridge {
	timeout := cfg.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	return &Bridge{
		roomID:       roomID,
		session:      session,
		sender:       sender,
		moves:        moves,
		rooms:        rooms,
		readyTimeout: timeout,
		inbound:      make(chan []byte, 16),
		snapshots:    make(chan watcher.RoomSnapshot, 1),
		errs:         make(chan error, 1),
		done:         make(chan struct{}),
	}
}

// HandleMessage queues a raw payload message for the Run loop. It returns
// false once the bridge has stopped.
func (b *Bridge) HandleMessage(raw []byte) bool {
	select {
	case <-b.done:
		return false
	default:
	}

	select {
	case b.inbound <- raw:
		return true
	case <-b.done:
		return false
	}
}

// Done is closed when Run returns.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Run drives the session until ctx ends, the room is deleted, the payload
// times out or a send fails. It must be called once.
func (b *Bridge) Run(ctx context.Context) error {
	defer close(b.done)

	cancel := b.rooms.WatchRoom(b.roomID, b.offerSnapshot, b.offerError)
	defer cancel()

	timer := time.NewTimer(b.readyTimeout)
	defer timer.Stop()

	var (
		latest      *domain.Room
		wantInit    bool
		initSent    bool
		heard       bool
		speculative bool
	)

	sendInit := func() error {
		if latest == nil {
			return nil
		}
		initSent = true
		return b.sender.Send(InitMultiplayerMessage{
			Type:        TypeInitMultiplayer,
			Identity:    b.session.Identity,
			DisplayName: b.session.DisplayName,
			RoomID:      b.roomID,
			GameState:   latest.GameState,
			CurrentTurn: latest.CurrentTurn,
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-b.errs:
			zap.L().Warn("Room watch error", zap.String("room_id", b.roomID), zap.Error(err))

		case snap := <-b.snapshots:
			if snap.Deleted {
				return fmt.Errorf("%w: room %s was deleted", domain.ErrRoomNotFound, b.roomID)
			}
			latest = snap.Room
			switch {
			case initSent:
				if err := b.sender.Send(StateSyncMessage{
					Type:        TypeStateSync,
					RoomID:      b.roomID,
					GameState:   latest.GameState,
					CurrentTurn: latest.CurrentTurn,
				}); err != nil {
					return err
				}
			case wantInit:
				if err := sendInit(); err != nil {
					return err
				}
			}

		case raw := <-b.inbound:
			var msg payloadMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				zap.L().Debug("Ignoring malformed payload message", zap.String("room_id", b.roomID), zap.Error(err))
				continue
			}
			if msg.RoomID != "" && msg.RoomID != b.roomID {
				continue
			}
			if !heard {
				heard = true
				timer.Stop()
			}

			switch msg.Type {
			case TypeReady:
				wantInit = true
				if err := sendInit(); err != nil {
					return err
				}
			case TypeMove:
				if msg.RoomID == "" {
					continue
				}
				if err := b.handleMove(ctx, msg); err != nil {
					return err
				}
			}

		case <-timer.C:
			if heard {
				continue
			}
			if speculative {
				return fmt.Errorf("%w: room %s", ErrBridgeTimeout, b.roomID)
			}
			speculative = true
			wantInit = true
			zap.L().Debug("No READY from payload, sending INIT_MULTIPLAYER anyway", zap.String("room_id", b.roomID))
			if err := sendInit(); err != nil {
				return err
			}
			timer.Reset(b.readyTimeout)
		}
	}
}

// handleMove reports the move. A rejected move only earns the payload a
// MOVE_REJECTED; it catches up from the next STATE_SYNC.
func (b *Bridge) handleMove(ctx context.Context, msg payloadMessage) error {
	err := b.moves.ReportMove(ctx, b.roomID, b.session, msg.NewState, msg.NextTurn)
	if err == nil {
		return nil
	}

	zap.L().Debug("Move rejected", zap.String("room_id", b.roomID),
		zap.String("identity", b.session.Identity), zap.Error(err))
	return b.sender.Send(MoveRejectedMessage{Type: TypeMoveRejected, RoomID: b.roomID})
}

// offerSnapshot keeps only the newest undelivered snapshot.
func (b *Bridge) offerSnapshot(snap watcher.RoomSnapshot) {
	for {
		select {
		case <-b.done:
			return
		case b.snapshots <- snap:
			return
		default:
		}
		select {
		case <-b.snapshots:
		default:
		}
	}
}

func (b *Bridge) offerError(err error) {
	select {
	case b.errs <- err:
	default:
	}
}
