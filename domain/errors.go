package domain

import "errors"

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotParticipant    = errors.New("not a participant")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidInviteLink = errors.New("invalid invite link")
)
