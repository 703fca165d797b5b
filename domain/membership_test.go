package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playingRoom() *Room {
	r := NewRoom("chess", "alice@x", "Alice")
	r.ID = "r1"
	_, _ = r.Admit("bob@y", "Bob")
	return r
}

func TestNewRoom(t *testing.T) {
	r := NewRoom("chess", "alice@x", "Alice")

	assert.Equal(t, StatusWaiting, r.Status)
	assert.Equal(t, []string{"alice@x"}, r.Players)
	assert.Equal(t, []string{"Alice"}, r.PlayerNames)
	assert.Equal(t, "alice@x", r.CurrentTurn)
	assert.JSONEq(t, `{}`, string(r.GameState))
	assert.Nil(t, r.Winner)
}

func TestAdmit(t *testing.T) {
	t.Run("second player starts the game", func(t *testing.T) {
		r := NewRoom("chess", "alice@x", "Alice")

		added, err := r.Admit("bob@y", "Bob")

		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, StatusPlaying, r.Status)
		assert.Equal(t, []string{"alice@x", "bob@y"}, r.Players)
		assert.Equal(t, "alice@x", r.CurrentTurn)
	})

	t.Run("member rejoining changes nothing", func(t *testing.T) {
		r := playingRoom()

		added, err := r.Admit("alice@x", "Alice")

		require.NoError(t, err)
		assert.False(t, added)
		assert.Len(t, r.Players, 2)
	})

	t.Run("third player is rejected", func(t *testing.T) {
		r := playingRoom()

		_, err := r.Admit("carol@z", "Carol")

		assert.ErrorIs(t, err, ErrRoomFull)
		assert.Len(t, r.Players, 2)
	})

	t.Run("finished room with a free seat is still full", func(t *testing.T) {
		r := playingRoom()
		r.Remove("bob@y")

		_, err := r.Admit("carol@z", "Carol")

		assert.ErrorIs(t, err, ErrRoomFull)
		assert.Equal(t, []string{"alice@x"}, r.Players)
	})

	t.Run("missing display name is a blank entry", func(t *testing.T) {
		r := NewRoom("chess", "alice@x", "Alice")

		_, err := r.Admit("bob@y", "")

		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", ""}, r.PlayerNames)
	})
}

func TestRemove(t *testing.T) {
	t.Run("leaving a playing room finishes it", func(t *testing.T) {
		r := playingRoom()

		assert.Equal(t, LeaveFinished, r.Remove("bob@y"))
		assert.Equal(t, StatusFinished, r.Status)
		assert.Equal(t, []string{"alice@x"}, r.Players)
		assert.Equal(t, []string{"Alice"}, r.PlayerNames)
	})

	t.Run("last player leaving deletes the room", func(t *testing.T) {
		r := NewRoom("chess", "alice@x", "Alice")

		assert.Equal(t, LeaveDeleted, r.Remove("alice@x"))
		assert.Empty(t, r.Players)
	})

	t.Run("non-member is a no-op", func(t *testing.T) {
		r := playingRoom()

		assert.Equal(t, LeaveNoop, r.Remove("carol@z"))
		assert.Equal(t, StatusPlaying, r.Status)
	})

	t.Run("names stay with their players", func(t *testing.T) {
		tests := []struct {
			leaver    string
			wantNames []string
		}{
			{leaver: "alice@x", wantNames: []string{"Bob"}},
			{leaver: "bob@y", wantNames: []string{""}},
		}
		for _, tt := range tests {
			r := NewRoom("chess", "alice@x", "")
			_, err := r.Admit("bob@y", "Bob")
			require.NoError(t, err)
			require.Equal(t, []string{"", "Bob"}, r.PlayerNames)

			r.Remove(tt.leaver)

			assert.Len(t, r.Players, 1)
			assert.Equal(t, tt.wantNames, r.PlayerNames, tt.leaver)
		}
	})

	t.Run("short legacy names are padded", func(t *testing.T) {
		r := &Room{
			Players:     []string{"alice@x", "bob@y"},
			PlayerNames: []string{"Alice"},
			Status:      StatusPlaying,
		}

		r.Remove("alice@x")

		assert.Equal(t, []string{"bob@y"}, r.Players)
		assert.Equal(t, []string{""}, r.PlayerNames)
	})
}

func TestApplyMove(t *testing.T) {
	next := "bob@y"

	t.Run("current player moves", func(t *testing.T) {
		r := playingRoom()

		err := r.ApplyMove("alice@x", json.RawMessage(`{"board":[1]}`), &next)

		require.NoError(t, err)
		assert.JSONEq(t, `{"board":[1]}`, string(r.GameState))
		assert.Equal(t, "bob@y", r.CurrentTurn)
	})

	t.Run("turn is kept without nextTurn", func(t *testing.T) {
		r := playingRoom()

		require.NoError(t, r.ApplyMove("alice@x", json.RawMessage(`{"a":1}`), nil))
		assert.Equal(t, "alice@x", r.CurrentTurn)
	})

	t.Run("wrong player changes nothing", func(t *testing.T) {
		r := playingRoom()

		err := r.ApplyMove("bob@y", json.RawMessage(`{"board":[2]}`), &next)

		assert.ErrorIs(t, err, ErrNotYourTurn)
		assert.JSONEq(t, `{}`, string(r.GameState))
		assert.Equal(t, "alice@x", r.CurrentTurn)
	})

	t.Run("waiting room rejects moves", func(t *testing.T) {
		r := NewRoom("chess", "alice@x", "Alice")

		assert.ErrorIs(t, r.ApplyMove("alice@x", json.RawMessage(`{}`), nil), ErrNotYourTurn)
	})

	t.Run("next turn must be a player", func(t *testing.T) {
		r := playingRoom()
		stranger := "carol@z"

		assert.ErrorIs(t, r.ApplyMove("alice@x", json.RawMessage(`{}`), &stranger), ErrInvalidInput)
	})

	t.Run("state must be json", func(t *testing.T) {
		r := playingRoom()

		assert.ErrorIs(t, r.ApplyMove("alice@x", json.RawMessage(`{oops`), nil), ErrInvalidInput)
	})
}

func TestFinish(t *testing.T) {
	t.Run("records the winner", func(t *testing.T) {
		r := playingRoom()

		changed, err := r.Finish("bob@y")

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusFinished, r.Status)
		require.NotNil(t, r.Winner)
		assert.Equal(t, "bob@y", *r.Winner)
	})

	t.Run("draw is accepted", func(t *testing.T) {
		r := playingRoom()

		_, err := r.Finish(WinnerDraw)

		require.NoError(t, err)
		assert.Equal(t, WinnerDraw, *r.Winner)
	})

	t.Run("first outcome wins", func(t *testing.T) {
		r := playingRoom()
		_, _ = r.Finish("alice@x")

		changed, err := r.Finish("bob@y")

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "alice@x", *r.Winner)
	})

	t.Run("unknown winner is rejected", func(t *testing.T) {
		r := playingRoom()

		_, err := r.Finish("carol@z")

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, StatusPlaying, r.Status)
	})
}

func TestCloneIsDeep(t *testing.T) {
	r := playingRoom()
	_, _ = r.Finish("alice@x")

	c := r.Clone()
	c.Players[0] = "mallory"
	c.GameState[0] = '['
	*c.Winner = "mallory"

	assert.Equal(t, "alice@x", r.Players[0])
	assert.JSONEq(t, `{}`, string(r.GameState))
	assert.Equal(t, "alice@x", *r.Winner)
}
