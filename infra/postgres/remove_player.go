package postgres

import (
	"context"
	"database/sql"

	"github.com/baoduongg/game-library/domain"

	"go.uber.org/zap"
)

// RemovePlayer takes identity out of the room. The last player leaving
// deletes the record; anyone leaving earlier finishes the session. For a
// deleted room the returned record is the state just before deletion.
func (r *Repository) RemovePlayer(ctx context.Context, roomID, identity string) (*domain.Room, domain.LeaveResult, error) {
	var (
		result  *domain.Room
		outcome domain.LeaveResult
	)
	err := r.withRoomTx(ctx, roomID, func(tx *sql.Tx, room *domain.Room) error {
		before := room.Clone()
		outcome = room.Remove(identity)

		switch outcome {
		case domain.LeaveNoop:
			result = room
		case domain.LeaveDeleted:
			if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, roomID); err != nil {
				return storeError("failed to delete room", err)
			}
			result = before
		case domain.LeaveFinished:
			updated, err := saveRoom(ctx, tx, room)
			if err != nil {
				return err
			}
			result = updated
		}
		return nil
	})
	if err != nil {
		return nil, domain.LeaveNoop, err
	}

	if outcome != domain.LeaveNoop {
		zap.L().Info("Player left room", zap.String("room_id", roomID), zap.String("identity", identity),
			zap.Bool("deleted", outcome == domain.LeaveDeleted))
	}
	return result, outcome, nil
}
