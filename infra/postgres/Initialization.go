package postgres

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const (
	createRoomsTable = `
		CREATE TABLE IF NOT EXISTS rooms (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			game_slug VARCHAR(100) NOT NULL,
			players TEXT[] NOT NULL,
			player_names TEXT[] NOT NULL DEFAULT '{}',
			current_turn TEXT NOT NULL,
			game_state JSONB NOT NULL DEFAULT '{}'::jsonb,
			status VARCHAR(20) NOT NULL DEFAULT 'waiting', -- 'waiting', 'playing', 'finished'
			winner TEXT,
			created_by TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT rooms_status_valid CHECK (status IN ('waiting', 'playing', 'finished')),
			CONSTRAINT rooms_player_count CHECK (cardinality(players) BETWEEN 1 AND 2),
			CONSTRAINT rooms_waiting_has_one CHECK (status <> 'waiting' OR cardinality(players) = 1),
			CONSTRAINT rooms_playing_has_two CHECK (status <> 'playing' OR cardinality(players) = 2)
		);`

	createIndexes = `
		CREATE INDEX IF NOT EXISTS idx_rooms_open ON rooms(game_slug, status, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_rooms_created_by ON rooms(created_by);`
)

// initDB creates the rooms table and its indexes.
func initDB(db *sql.DB) error {
	if _, err := db.Exec(createRoomsTable); err != nil {
		return fmt.Errorf("failed to create 'rooms' table: %w", err)
	}

	if _, err := db.Exec(createIndexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	zap.L().Info("Database initialized successfully with all tables and indexes")
	return nil
}
