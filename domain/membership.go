package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// LeaveResult tells the caller what a removal did to the room.
type LeaveResult int

const (
	LeaveNoop LeaveResult = iota
	LeaveFinished
	LeaveDeleted
)

// Admit applies the join rules to r. A member rejoining is a no-op; anyone
// else needs a waiting room with a free seat. Finished rooms never reopen,
// so a non-member trying to join one gets ErrRoomFull.
func (r *Room) Admit(identity, name string) (bool, error) {
	if r.HasPlayer(identity) {
		return false, nil
	}
	if r.IsFull() || r.Status != StatusWaiting {
		return false, fmt.Errorf("%w: room %s", ErrRoomFull, r.ID)
	}

	r.PlayerNames = append(r.alignedNames(), name)
	r.Players = append(r.Players, identity)
	if len(r.Players) == MaxPlayers {
		r.Status = StatusPlaying
	}
	return true, nil
}

// Remove drops identity from the room. Leaving always ends the session: the
// result is LeaveDeleted when nobody is left and LeaveFinished otherwise.
func (r *Room) Remove(identity string) LeaveResult {
	i := slices.Index(r.Players, identity)
	if i < 0 {
		return LeaveNoop
	}

	r.PlayerNames = slices.Delete(r.alignedNames(), i, i+1)
	r.Players = slices.Delete(r.Players, i, i+1)

	if len(r.Players) == 0 {
		return LeaveDeleted
	}
	r.Status = StatusFinished
	return LeaveFinished
}

// ApplyMove replaces the game state on behalf of expectedTurn. The write only
// applies while the room is playing and it is still expectedTurn's move.
func (r *Room) ApplyMove(expectedTurn string, state json.RawMessage, nextTurn *string) error {
	if r.Status != StatusPlaying || r.CurrentTurn != expectedTurn {
		return fmt.Errorf("%w: room %s expects %q", ErrNotYourTurn, r.ID, r.CurrentTurn)
	}
	if len(state) == 0 || !json.Valid(state) {
		return fmt.Errorf("%w: game state must be valid JSON", ErrInvalidInput)
	}
	if nextTurn != nil && !r.HasPlayer(*nextTurn) {
		return fmt.Errorf("%w: next turn %q is not a player", ErrInvalidInput, *nextTurn)
	}

	r.GameState = slices.Clone(state)
	if nextTurn != nil {
		r.CurrentTurn = *nextTurn
	}
	return nil
}

// Finish records the outcome. The first outcome wins; later reports against
// a finished room change nothing.
func (r *Room) Finish(winner string) (bool, error) {
	if r.Status == StatusFinished {
		return false, nil
	}
	if !r.ValidWinner(winner) {
		return false, fmt.Errorf("%w: winner %q is neither a player nor %q", ErrInvalidInput, winner, WinnerDraw)
	}
	r.Winner = &winner
	r.Status = StatusFinished
	return true, nil
}

// NewRoom builds the waiting room a creator starts with.
func NewRoom(gameSlug, creator, creatorName string) *Room {
	room := &Room{
		GameSlug:    gameSlug,
		Players:     []string{creator},
		PlayerNames: []string{creatorName},
		CurrentTurn: creator,
		GameState:   slices.Clone(EmptyGameState),
		Status:      StatusWaiting,
		CreatedBy:   creator,
	}
	return room
}

// alignedNames returns PlayerNames with one entry per player. An unknown
// name is "". Records written before names were kept parallel may be short;
// their names belong to the leading players.
func (r *Room) alignedNames() []string {
	names := slices.Clone(r.PlayerNames)
	if len(names) > len(r.Players) {
		return names[:len(r.Players)]
	}
	for len(names) < len(r.Players) {
		names = append(names, "")
	}
	return names
}
