package coordinator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/baoduongg/game-library/domain"

	"github.com/google/uuid"
)

// InviteLink is the parsed form of a shareable room link.
type InviteLink struct {
	GameSlug string
	RoomID   string
}

// BuildInviteLink returns {base}/play/{gameSlug}?room={roomID}.
func BuildInviteLink(baseURL, gameSlug, roomID string) (string, error) {
	if !domain.ValidGameSlug(gameSlug) {
		return "", fmt.Errorf("%w: game slug %q", domain.ErrInvalidInput, gameSlug)
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("%w: public base url: %v", domain.ErrInvalidInput, err)
	}
	link := base.JoinPath("play", url.PathEscape(gameSlug))
	link.RawQuery = url.Values{"room": []string{roomID}}.Encode()
	return link.String(), nil
}

// ParseInviteLink accepts either a full invite URL or a bare room id. The
// slug is empty for a bare id.
func ParseInviteLink(token string) (InviteLink, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return InviteLink{}, domain.ErrInvalidInviteLink
	}

	if _, err := uuid.Parse(token); err == nil {
		return InviteLink{RoomID: token}, nil
	}

	u, err := url.Parse(token)
	if err != nil {
		return InviteLink{}, fmt.Errorf("%w: %v", domain.ErrInvalidInviteLink, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] != "play" {
		return InviteLink{}, fmt.Errorf("%w: unexpected path %q", domain.ErrInvalidInviteLink, u.Path)
	}

	roomID := u.Query().Get("room")
	if roomID == "" {
		return InviteLink{}, fmt.Errorf("%w: missing room parameter", domain.ErrInvalidInviteLink)
	}

	slug, err := url.PathUnescape(segments[len(segments)-1])
	if err != nil {
		return InviteLink{}, fmt.Errorf("%w: %v", domain.ErrInvalidInviteLink, err)
	}
	return InviteLink{GameSlug: slug, RoomID: roomID}, nil
}
