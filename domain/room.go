package domain

import (
	"encoding/json"
	"regexp"
	"slices"
	"time"
)

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// WinnerDraw is stored in Room.Winner when a game ends without a winner.
const WinnerDraw = "draw"

const MaxPlayers = 2

var gameSlugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$`)

// ValidGameSlug reports whether slug can name a game. Slugs are used as a
// single URL path segment, so only letters, digits, '-' and '_' are allowed.
func ValidGameSlug(slug string) bool {
	return gameSlugPattern.MatchString(slug)
}

type Room struct {
	ID          string          `json:"id"`
	GameSlug    string          `json:"gameSlug"`
	Players     []string        `json:"players"`
	PlayerNames []string        `json:"playerNames"`
	CurrentTurn string          `json:"currentTurn"`
	GameState   json.RawMessage `json:"gameState"`
	Status      RoomStatus      `json:"status"`
	Winner      *string         `json:"winner"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EmptyGameState is the payload a room starts with; each game fills it in.
var EmptyGameState = json.RawMessage(`{}`)

func (r *Room) HasPlayer(identity string) bool {
	return slices.Contains(r.Players, identity)
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}

// ValidWinner reports whether winner may be recorded as the outcome of r.
func (r *Room) ValidWinner(winner string) bool {
	return winner == WinnerDraw || r.HasPlayer(winner)
}

// Clone returns a deep copy so callers can hand rooms across goroutines.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Players = slices.Clone(r.Players)
	c.PlayerNames = slices.Clone(r.PlayerNames)
	c.GameState = slices.Clone(r.GameState)
	if r.Winner != nil {
		w := *r.Winner
		c.Winner = &w
	}
	return &c
}
