package postgres

import (
	"context"
	"fmt"

	"github.com/baoduongg/game-library/domain"
)

const listOpenRoomsQuery = `
	SELECT ` + roomColumns + `
	FROM rooms
	WHERE game_slug = $1 AND status = 'waiting'
	ORDER BY created_at DESC, id`

// ListOpen returns the waiting rooms of a game, newest first.
func (r *Repository) ListOpen(ctx context.Context, gameSlug string) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listOpenRoomsQuery, gameSlug)
	if err != nil {
		return nil, storeError("failed to query open rooms", err)
	}
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room data from DB: %w", err)
		}
		rooms = append(rooms, *room)
	}

	if err = rows.Err(); err != nil {
		return nil, storeError("rows iteration error", err)
	}
	return rooms, nil
}
