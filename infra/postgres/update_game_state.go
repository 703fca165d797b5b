package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/baoduongg/game-library/domain"
)

// UpdateGameState replaces the game payload, and the turn when nextTurn is
// set. The turn assertion runs against the locked row, so a move computed
// from a stale snapshot fails instead of overwriting a newer state.
func (r *Repository) UpdateGameState(ctx context.Context, roomID string, newState json.RawMessage, nextTurn *string, expectedTurn string) (*domain.Room, error) {
	var result *domain.Room
	err := r.withRoomTx(ctx, roomID, func(tx *sql.Tx, room *domain.Room) error {
		if err := room.ApplyMove(expectedTurn, newState, nextTurn); err != nil {
			return err
		}
		updated, err := saveRoom(ctx, tx, room)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
