package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/baoduongg/game-library/domain"
	"github.com/baoduongg/game-library/internal/watcher"

	"go.uber.org/zap"
)

const TypeOpenRooms = "open_rooms"

type OpenRoomsMessage struct {
	Type     string        `json:"type"`
	GameSlug string        `json:"gameSlug"`
	Rooms    []domain.Room `json:"rooms"`
}

type OpenRoomsWatcher interface {
	WatchOpenRooms(gameSlug string, onChange func([]domain.Room), onError func(error)) watcher.Cancel
}

// LobbyHub fans the open-room list of each game out to every lobby
// connection for that game. One watch runs per game while at least one
// client is connected.
type LobbyHub struct {
	watcher OpenRoomsWatcher

	register   chan *domain.Client
	unregister chan *domain.Client
	stopped    chan struct{}

	mutex    sync.RWMutex
	clients  map[string]map[*domain.Client]struct{}
	watches  map[string]watcher.Cancel
	snapshot map[string][]byte
}

func NewLobbyHub(w OpenRoomsWatcher) *LobbyHub {
	return &LobbyHub{
		watcher:    w,
		register:   make(chan *domain.Client),
		unregister: make(chan *domain.Client),
		stopped:    make(chan struct{}),
		clients:    make(map[string]map[*domain.Client]struct{}),
		watches:    make(map[string]watcher.Cancel),
		snapshot:   make(map[string][]byte),
	}
}

func (h *LobbyHub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			h.stopAll()
			close(h.stopped)
			return
		}
	}
}

func (h *LobbyHub) RegisterClient(client *domain.Client) {
	select {
	case h.register <- client:
	case <-h.stopped:
		client.Close()
	}
}

func (h *LobbyHub) UnregisterClient(client *domain.Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

func (h *LobbyHub) ClientCount(gameSlug string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[gameSlug])
}

func (h *LobbyHub) registerClient(client *domain.Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	slug := client.Topic
	topicClients, ok := h.clients[slug]
	if !ok {
		topicClients = make(map[*domain.Client]struct{})
		h.clients[slug] = topicClients
	}
	topicClients[client] = struct{}{}

	if latest, ok := h.snapshot[slug]; ok {
		sendRaw(client, latest)
	}

	if _, watching := h.watches[slug]; !watching {
		zap.L().Debug("First lobby client for game, starting watch", zap.String("game_slug", slug))
		h.watches[slug] = h.watcher.WatchOpenRooms(slug,
			func(rooms []domain.Room) { h.broadcast(slug, rooms) },
			func(err error) {
				zap.L().Warn("Open rooms watch error", zap.String("game_slug", slug), zap.Error(err))
			},
		)
	}
}

func (h *LobbyHub) unregisterClient(client *domain.Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	slug := client.Topic
	topicClients, ok := h.clients[slug]
	if !ok {
		return
	}
	if _, exists := topicClients[client]; !exists {
		return
	}
	delete(topicClients, client)
	client.Close()

	if len(topicClients) == 0 {
		zap.L().Debug("Lobby for game is empty, stopping watch", zap.String("game_slug", slug))
		if cancel, ok := h.watches[slug]; ok {
			cancel()
		}
		delete(h.watches, slug)
		delete(h.clients, slug)
		delete(h.snapshot, slug)
	}
}

func (h *LobbyHub) broadcast(slug string, rooms []domain.Room) {
	payload, err := json.Marshal(OpenRoomsMessage{Type: TypeOpenRooms, GameSlug: slug, Rooms: rooms})
	if err != nil {
		zap.L().Error("Failed to marshal open rooms", zap.String("game_slug", slug), zap.Error(err))
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	// A late delivery after the last client left must not resurrect the topic.
	topicClients, ok := h.clients[slug]
	if !ok {
		return
	}
	h.snapshot[slug] = payload
	for client := range topicClients {
		sendRaw(client, payload)
	}
}

func (h *LobbyHub) stopAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for slug, cancel := range h.watches {
		cancel()
		delete(h.watches, slug)
	}
	for _, topicClients := range h.clients {
		for client := range topicClients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*domain.Client]struct{})
}
