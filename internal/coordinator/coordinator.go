package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type Config struct {
	PublicBaseURL        string
	RetryAttempts        uint64
	RetryInitialInterval time.Duration
}

// Coordinator applies the room lifecycle rules on behalf of a caller. It owns
// no room state itself; every decision is made against the store.
type Coordinator struct {
	repo    RoomRepository
	changes ChangePublisher
	events  EventPublisher
	cfg     Config
	now     func() time.Time
}

func New(repo RoomRepository, changes ChangePublisher, events EventPublisher, cfg Config) *Coordinator {
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 100 * time.Millisecond
	}
	return &Coordinator{
		repo:    repo,
		changes: changes,
		events:  events,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (c *Coordinator) CreateRoom(ctx context.Context, gameSlug string, session domain.SessionContext) (string, error) {
	if !session.Authenticated() {
		return "", domain.ErrUnauthenticated
	}
	gameSlug = strings.TrimSpace(gameSlug)
	if gameSlug == "" {
		return "", fmt.Errorf("%w: game slug is required", domain.ErrInvalidInput)
	}
	if !domain.ValidGameSlug(gameSlug) {
		return "", fmt.Errorf("%w: game slug %q may only contain letters, digits, '-' and '_'", domain.ErrInvalidInput, gameSlug)
	}

	var roomID string
	err := c.withRetry(ctx, func() error {
		var err error
		roomID, err = c.repo.Create(ctx, gameSlug, session.Identity, session.DisplayName)
		return err
	})
	if err != nil {
		return "", err
	}

	c.notify(ctx, domain.RoomEvent{
		Type:     domain.EventRoomCreated,
		RoomID:   roomID,
		GameSlug: gameSlug,
		Identity: session.Identity,
		Status:   domain.StatusWaiting,
	})
	return roomID, nil
}

func (c *Coordinator) JoinRoom(ctx context.Context, roomID string, session domain.SessionContext) (*domain.Room, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var (
		room  *domain.Room
		added bool
	)
	err := c.withRetry(ctx, func() error {
		var err error
		room, added, err = c.repo.ConditionalAddPlayer(ctx, roomID, session.Identity, session.DisplayName)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !added {
		return room, nil
	}

	c.notify(ctx, c.eventFor(domain.EventPlayerJoined, room, session.Identity))
	if room.Status == domain.StatusPlaying {
		c.publishLifecycle(ctx, c.eventFor(domain.EventGameStarted, room, session.Identity))
	}
	return room, nil
}

// JoinByInviteLink resolves a shared link and joins the room it points to.
// A caller without an identity gets ErrUnauthenticated and has to retry after
// signing in; nothing is queued on their behalf.
func (c *Coordinator) JoinByInviteLink(ctx context.Context, linkToken string, session domain.SessionContext) (*domain.Room, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	link, err := ParseInviteLink(linkToken)
	if err != nil {
		return nil, err
	}

	if link.GameSlug != "" {
		room, err := c.GetRoom(ctx, link.RoomID)
		if err != nil {
			return nil, err
		}
		if room.GameSlug != link.GameSlug {
			return nil, fmt.Errorf("%w: room %s does not belong to %s", domain.ErrRoomNotFound, link.RoomID, link.GameSlug)
		}
	}

	return c.JoinRoom(ctx, link.RoomID, session)
}

// LeaveRoom removes the caller from the room. Leaving a room the caller is not
// in, or one that no longer exists, succeeds without doing anything.
func (c *Coordinator) LeaveRoom(ctx context.Context, roomID string, session domain.SessionContext) error {
	if !session.Authenticated() {
		return domain.ErrUnauthenticated
	}

	var (
		room    *domain.Room
		outcome domain.LeaveResult
	)
	err := c.withRetry(ctx, func() error {
		var err error
		room, outcome, err = c.repo.RemovePlayer(ctx, roomID, session.Identity)
		return err
	})
	if errors.Is(err, domain.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch outcome {
	case domain.LeaveDeleted:
		c.notify(ctx, c.eventFor(domain.EventRoomDeleted, room, session.Identity))
	case domain.LeaveFinished:
		c.notify(ctx, c.eventFor(domain.EventPlayerLeft, room, session.Identity))
	}
	return nil
}

// ReportMove stores newState on behalf of the player whose turn it is. The
// first check reads the latest committed turn; the write then asserts the
// same turn inside the store so a stale move can never overwrite a newer one.
func (c *Coordinator) ReportMove(ctx context.Context, roomID string, session domain.SessionContext, newState json.RawMessage, nextTurn *string) error {
	if !session.Authenticated() {
		return domain.ErrUnauthenticated
	}

	current, err := c.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if current.Status != domain.StatusPlaying || current.CurrentTurn != session.Identity {
		return fmt.Errorf("%w: room %s expects %q", domain.ErrNotYourTurn, roomID, current.CurrentTurn)
	}

	var room *domain.Room
	err = c.withRetry(ctx, func() error {
		var err error
		room, err = c.repo.UpdateGameState(ctx, roomID, newState, nextTurn, session.Identity)
		return err
	})
	if err != nil {
		return err
	}

	c.publishChange(ctx, domain.RoomChannel(roomID), c.eventFor(domain.EventStateUpdated, room, session.Identity))
	return nil
}

// ReportOutcome finishes the game. Any participant may report; the first
// recorded outcome stands.
func (c *Coordinator) ReportOutcome(ctx context.Context, roomID string, session domain.SessionContext, winner string) error {
	if !session.Authenticated() {
		return domain.ErrUnauthenticated
	}

	current, err := c.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !current.HasPlayer(session.Identity) {
		return fmt.Errorf("%w: %s in room %s", domain.ErrNotParticipant, session.Identity, roomID)
	}

	var (
		room    *domain.Room
		changed bool
	)
	err = c.withRetry(ctx, func() error {
		var err error
		room, changed, err = c.repo.SetWinner(ctx, roomID, winner)
		return err
	})
	if err != nil {
		return err
	}

	if changed {
		c.notify(ctx, c.eventFor(domain.EventGameFinished, room, session.Identity))
	}
	return nil
}

func (c *Coordinator) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	var room *domain.Room
	err := c.withRetry(ctx, func() error {
		var err error
		room, err = c.repo.Get(ctx, roomID)
		return err
	})
	return room, err
}

func (c *Coordinator) ListOpenRooms(ctx context.Context, gameSlug string) ([]domain.Room, error) {
	var rooms []domain.Room
	err := c.withRetry(ctx, func() error {
		var err error
		rooms, err = c.repo.ListOpen(ctx, gameSlug)
		return err
	})
	return rooms, err
}

// InviteLink returns the shareable link for an existing room.
func (c *Coordinator) InviteLink(ctx context.Context, roomID string) (string, error) {
	room, err := c.GetRoom(ctx, roomID)
	if err != nil {
		return "", err
	}
	return BuildInviteLink(c.cfg.PublicBaseURL, room.GameSlug, room.ID)
}

// withRetry runs op until it succeeds, fails with anything other than
// ErrStoreUnavailable, or the retry budget runs out.
func (c *Coordinator) withRetry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryInitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.RetryAttempts), ctx)

	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !errors.Is(err, domain.ErrStoreUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		zap.L().Warn("Room store unavailable, retrying", zap.Duration("wait", wait), zap.Error(err))
	})
}

func (c *Coordinator) eventFor(t domain.RoomEventType, room *domain.Room, identity string) domain.RoomEvent {
	return domain.RoomEvent{
		Type:     t,
		RoomID:   room.ID,
		GameSlug: room.GameSlug,
		Identity: identity,
		Status:   room.Status,
		Winner:   room.Winner,
	}
}

// notify wakes the room's watchers and the game's open-room watchers, then
// records the lifecycle event.
func (c *Coordinator) notify(ctx context.Context, event domain.RoomEvent) {
	c.publishChange(ctx, domain.RoomChannel(event.RoomID), event)
	c.publishChange(ctx, domain.OpenRoomsChannel(event.GameSlug), event)
	c.publishLifecycle(ctx, event)
}

func (c *Coordinator) publishChange(ctx context.Context, channel string, event domain.RoomEvent) {
	if c.changes == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	if err := c.changes.Publish(ctx, channel, event); err != nil {
		zap.L().Warn("Failed to publish room change",
			zap.String("channel", channel), zap.String("room_id", event.RoomID), zap.Error(err))
	}
}

func (c *Coordinator) publishLifecycle(ctx context.Context, event domain.RoomEvent) {
	if c.events == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	if err := c.events.PublishRoomEvent(ctx, event); err != nil {
		zap.L().Warn("Failed to publish room event",
			zap.String("type", string(event.Type)), zap.String("room_id", event.RoomID), zap.Error(err))
	}
}
