package postgres

import (
	"context"
	"database/sql"

	"github.com/baoduongg/game-library/domain"

	"go.uber.org/zap"
)

func (r *Repository) SetWinner(ctx context.Context, roomID, winner string) (*domain.Room, bool, error) {
	var (
		result  *domain.Room
		changed bool
	)
	err := r.withRoomTx(ctx, roomID, func(tx *sql.Tx, room *domain.Room) error {
		ok, err := room.Finish(winner)
		if err != nil {
			return err
		}
		if !ok {
			result = room
			return nil
		}
		updated, err := saveRoom(ctx, tx, room)
		if err != nil {
			return err
		}
		result, changed = updated, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		zap.L().Info("Game finished", zap.String("room_id", roomID), zap.String("winner", winner))
	}
	return result, changed, nil
}
