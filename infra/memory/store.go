// Package memory keeps rooms and their change feed inside the process. It
// backs the "memory" store driver and the package tests of the layers above.
package memory

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*domain.Room),
		now:   time.Now,
	}
}

func (s *Store) Create(_ context.Context, gameSlug, creator, creatorName string) (string, error) {
	room := domain.NewRoom(gameSlug, creator, creatorName)
	room.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	room.CreatedAt = now
	room.UpdatedAt = now
	s.rooms[room.ID] = room
	return room.ID, nil
}

func (s *Store) Get(_ context.Context, roomID string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}
	return room.Clone(), nil
}

func (s *Store) ConditionalAddPlayer(_ context.Context, roomID, identity, name string) (*domain.Room, bool, error) {
	var added bool
	room, err := s.mutate(roomID, func(r *domain.Room) (bool, error) {
		var err error
		added, err = r.Admit(identity, name)
		return added, err
	})
	return room, added, err
}

func (s *Store) RemovePlayer(_ context.Context, roomID, identity string) (*domain.Room, domain.LeaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rooms[roomID]
	if !ok {
		return nil, domain.LeaveNoop, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}

	next := current.Clone()
	outcome := next.Remove(identity)
	switch outcome {
	case domain.LeaveNoop:
		return current.Clone(), outcome, nil
	case domain.LeaveDeleted:
		delete(s.rooms, roomID)
		return current.Clone(), outcome, nil
	}

	s.commit(next)
	return next.Clone(), outcome, nil
}

func (s *Store) UpdateGameState(_ context.Context, roomID string, newState json.RawMessage, nextTurn *string, expectedTurn string) (*domain.Room, error) {
	return s.mutate(roomID, func(r *domain.Room) (bool, error) {
		return true, r.ApplyMove(expectedTurn, newState, nextTurn)
	})
}

func (s *Store) SetWinner(_ context.Context, roomID, winner string) (*domain.Room, bool, error) {
	var changed bool
	room, err := s.mutate(roomID, func(r *domain.Room) (bool, error) {
		var err error
		changed, err = r.Finish(winner)
		return changed, err
	})
	return room, changed, err
}

// ListOpen returns the waiting rooms of a game, newest first.
func (s *Store) ListOpen(_ context.Context, gameSlug string) ([]domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := []domain.Room{}
	for _, room := range s.rooms {
		if room.GameSlug == gameSlug && room.Status == domain.StatusWaiting {
			rooms = append(rooms, *room.Clone())
		}
	}
	slices.SortFunc(rooms, func(a, b domain.Room) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return rooms, nil
}

// mutate applies fn to a copy of the room under the store lock and commits
// the copy only when fn reports a change and no error.
func (s *Store) mutate(roomID string, fn func(r *domain.Room) (bool, error)) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}

	next := current.Clone()
	changed, err := fn(next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return current.Clone(), nil
	}

	s.commit(next)
	return next.Clone(), nil
}

func (s *Store) commit(room *domain.Room) {
	if now := s.now(); now.After(room.UpdatedAt) {
		room.UpdatedAt = now
	}
	s.rooms[room.ID] = room
}

func (s *Store) Close() error {
	return nil
}
