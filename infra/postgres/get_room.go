package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baoduongg/game-library/domain"

	"github.com/google/uuid"
)

func (r *Repository) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	if _, err := uuid.Parse(roomID); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}

	room, err := scanRoom(r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
		}
		return nil, storeError("failed to query room", err)
	}
	return room, nil
}
