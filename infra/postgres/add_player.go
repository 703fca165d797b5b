package postgres

import (
	"context"
	"database/sql"

	"github.com/baoduongg/game-library/domain"

	"go.uber.org/zap"
)

// ConditionalAddPlayer seats identity in the room. The row stays locked from
// the membership check until the write commits, so two joiners can never
// both see a free seat.
func (r *Repository) ConditionalAddPlayer(ctx context.Context, roomID, identity, name string) (*domain.Room, bool, error) {
	var (
		result *domain.Room
		added  bool
	)
	err := r.withRoomTx(ctx, roomID, func(tx *sql.Tx, room *domain.Room) error {
		ok, err := room.Admit(identity, name)
		if err != nil {
			return err
		}
		if !ok {
			result, added = room, false
			return nil
		}

		updated, err := saveRoom(ctx, tx, room)
		if err != nil {
			return err
		}
		result, added = updated, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if added {
		zap.L().Info("Player joined room", zap.String("room_id", roomID), zap.String("identity", identity),
			zap.String("status", string(result.Status)))
	}
	return result, added, nil
}
