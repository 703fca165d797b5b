package postgres

import (
	"context"

	"github.com/baoduongg/game-library/domain"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

func (r *Repository) Create(ctx context.Context, gameSlug, creator, creatorName string) (string, error) {
	room := domain.NewRoom(gameSlug, creator, creatorName)

	var roomID string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rooms (game_slug, players, player_names, current_turn, game_state, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		room.GameSlug, pq.Array(room.Players), pq.Array(room.PlayerNames), room.CurrentTurn,
		[]byte(room.GameState), string(room.Status), room.CreatedBy,
	).Scan(&roomID)
	if err != nil {
		return "", storeError("failed to create room", err)
	}

	zap.L().Info("Room created", zap.String("room_id", roomID), zap.String("game_slug", gameSlug))
	return roomID, nil
}
