package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// maxTxAttempts bounds how often a room transaction is replayed after a
// serialization failure or deadlock.
const maxTxAttempts = 5

const roomColumns = `
	id, game_slug, players, player_names, current_turn, game_state,
	status, winner, created_by, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(connString string) (*Repository, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	zap.L().Info("Connected to PostgreSQL successfully")

	if err := initDB(db); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var (
		room      domain.Room
		gameState []byte
		status    string
		winner    sql.NullString
	)
	err := row.Scan(
		&room.ID, &room.GameSlug, pq.Array(&room.Players), pq.Array(&room.PlayerNames),
		&room.CurrentTurn, &gameState, &status, &winner, &room.CreatedBy,
		&room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	room.GameState = gameState
	room.Status = domain.RoomStatus(status)
	if winner.Valid {
		room.Winner = &winner.String
	}
	if room.PlayerNames == nil {
		room.PlayerNames = []string{}
	}
	return &room, nil
}

// withRoomTx locks the room row, hands the current record to fn and commits
// whatever fn wrote. The whole attempt is replayed when PostgreSQL aborts it
// because of a concurrent writer.
func (r *Repository) withRoomTx(ctx context.Context, roomID string, fn func(tx *sql.Tx, room *domain.Room) error) error {
	if _, err := uuid.Parse(roomID); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = r.runRoomTx(ctx, roomID, fn)
		if !isSerializationFailure(err) {
			return err
		}
		zap.L().Debug("Room transaction conflicted, retrying",
			zap.String("room_id", roomID), zap.Int("attempt", attempt), zap.Error(err))
	}
	return fmt.Errorf("%w: room %s kept conflicting: %w", domain.ErrStoreUnavailable, roomID, err)
}

func (r *Repository) runRoomTx(ctx context.Context, roomID string, fn func(tx *sql.Tx, room *domain.Room) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	room, err := scanRoom(tx.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
		}
		return storeError("failed to lock room", err)
	}

	if err := fn(tx, room); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeError("failed to commit transaction", err)
	}
	return nil
}

// saveRoom writes the mutable columns of room back inside tx.
func saveRoom(ctx context.Context, tx *sql.Tx, room *domain.Room) (*domain.Room, error) {
	var winner sql.NullString
	if room.Winner != nil {
		winner = sql.NullString{String: *room.Winner, Valid: true}
	}

	updated, err := scanRoom(tx.QueryRowContext(ctx, `
		UPDATE rooms
		SET players = $2, player_names = $3, current_turn = $4, game_state = $5,
			status = $6, winner = $7, updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $1
		RETURNING `+roomColumns,
		room.ID, pq.Array(room.Players), pq.Array(room.PlayerNames), room.CurrentTurn,
		[]byte(room.GameState), string(room.Status), winner,
	))
	if err != nil {
		return nil, storeError("failed to update room", err)
	}
	return updated, nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// storeError wraps err and marks it as ErrStoreUnavailable when the failure
// is about reaching the database rather than about the statement itself.
func storeError(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return true
		}
	}
	return false
}
