package handler

import (
	"encoding/json"
	"sync"

	"deckswipe-server/internal/cards"
	"deckswipe-server/internal/game"
	"deckswipe-server/internal/stats"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Stream message types.
const (
	MessageTypeStats = "stats"
	MessageTypeCard  = "card"
	MessageTypeState = "state"
)

const sendBufferSize = 64

// StreamMessage is one frame of the per-player WebSocket stream.
type StreamMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// CardMessage is the payload of a card frame.
type CardMessage struct {
	Card   cards.View       `json:"card"`
	Source cards.DrawSource `json:"source"`
}

// streamClient is one WebSocket connection of a player.
type streamClient struct {
	playerID uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
}

// StreamHub fans session events out to the player's WebSocket connections.
// A player may have several connections; slow connections drop frames.
type StreamHub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*streamClient]struct{}
	logger  *zap.Logger
}

func NewStreamHub(logger *zap.Logger) *StreamHub {
	return &StreamHub{
		clients: make(map[uuid.UUID]map[*streamClient]struct{}),
		logger:  logger.Named("StreamHub"),
	}
}

func (h *StreamHub) register(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.playerID]
	if !ok {
		set = make(map[*streamClient]struct{})
		h.clients[c.playerID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("Stream client registered", zap.Stringer("playerID", c.playerID), zap.Int("connections", len(set)))
}

// unregister closes the client's send channel once.
func (h *StreamHub) unregister(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.playerID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.playerID)
	}
}

// Connections returns the number of open connections of a player.
func (h *StreamHub) Connections(playerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID])
}

// Send queues msg for every connection of the player and reports how many accepted it.
func (h *StreamHub) Send(playerID uuid.UUID, msg StreamMessage) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal stream message", zap.String("type", msg.Type), zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.clients[playerID] {
		select {
		case c.send <- data:
			sent++
		default:
			h.logger.Warn("Stream send buffer full, dropping frame",
				zap.Stringer("playerID", playerID), zap.String("type", msg.Type))
		}
	}
	return sent
}

// Notifier returns a stats.Notifier that streams stat changes of the player.
func (h *StreamHub) Notifier(playerID uuid.UUID) stats.Notifier {
	return stats.NotifierFunc(func(s stats.Snapshot) {
		h.Send(playerID, StreamMessage{Type: MessageTypeStats, Payload: s})
	})
}

// Presenter returns a game.Presenter that streams the player's drawn cards.
func (h *StreamHub) Presenter(playerID uuid.UUID) game.Presenter {
	return &playerPresenter{hub: h, playerID: playerID}
}

type playerPresenter struct {
	hub      *StreamHub
	playerID uuid.UUID
}

func (p *playerPresenter) Present(card cards.View, source cards.DrawSource) {
	p.hub.Send(p.playerID, StreamMessage{Type: MessageTypeCard, Payload: CardMessage{Card: card, Source: source}})
}

// CloseAll disconnects every client.
func (h *StreamHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for playerID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, playerID)
	}
}
