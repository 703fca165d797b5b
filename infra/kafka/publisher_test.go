package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestPublishRoomEvent(t *testing.T) {
	writer := &mockWriter{}
	publisher := newEventPublisherWithWriter(writer, "room-events")

	event := domain.RoomEvent{
		Type:      domain.EventGameStarted,
		RoomID:    "r1",
		GameSlug:  "chess",
		Identity:  "bob@y",
		Status:    domain.StatusPlaying,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		var got domain.RoomEvent
		if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
			return false
		}
		return string(msgs[0].Key) == "r1" &&
			got.Type == domain.EventGameStarted &&
			got.Status == domain.StatusPlaying &&
			msgs[0].Time.Equal(event.Timestamp)
	})).Return(nil).Once()

	require.NoError(t, publisher.PublishRoomEvent(context.Background(), event))
	writer.AssertExpectations(t)
}

func TestPublishRoomEventWrapsWriterErrors(t *testing.T) {
	writer := &mockWriter{}
	publisher := newEventPublisherWithWriter(writer, "room-events")
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	err := publisher.PublishRoomEvent(context.Background(), domain.RoomEvent{Type: domain.EventRoomCreated, RoomID: "r1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "room_created")
	assert.Contains(t, err.Error(), "room-events")
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher

	assert.NoError(t, p.PublishRoomEvent(context.Background(), domain.RoomEvent{}))
	assert.NoError(t, p.Close())
}
