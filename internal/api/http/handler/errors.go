package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/baoduongg/game-library/domain"
)

var (
	errRoomUnavailable = errors.New("room no longer available")
	errStoreDown       = errors.New("could not reach the room store, try again")
)

// mapError picks the HTTP status for a coordinator error and the message the
// client gets to see.
func mapError(err error) (int, error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, domain.ErrUnauthenticated
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound, errRoomUnavailable
	case errors.Is(err, domain.ErrRoomFull):
		return http.StatusConflict, domain.ErrRoomFull
	case errors.Is(err, domain.ErrNotYourTurn):
		return http.StatusConflict, domain.ErrNotYourTurn
	case errors.Is(err, domain.ErrNotParticipant):
		return http.StatusForbidden, domain.ErrNotParticipant
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidInviteLink):
		return http.StatusBadRequest, err
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errStoreDown
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, err
	default:
		return http.StatusInternalServerError, err
	}
}
