package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// EventType names a refresh signal sent to the presentation layer.
type EventType string

const (
	EventOrderUpdated   EventType = "order_updated"
	EventPricingToggled EventType = "pricing_toggled"
	EventPopularRefresh EventType = "popular_refresh"
	EventCatalogChanged EventType = "catalog_changed"
)

type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Publisher receives refresh signals from the core.
type Publisher interface {
	Publish(event Event)
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	quit       chan struct{}
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		quit:       make(chan struct{}),
	}
}

// Publish never blocks the caller: when the broadcast buffer is full the
// event is dropped, since every event only asks clients to re-fetch.
func (h *Hub) Publish(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Type)).Msg("marshal ws event")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log.Warn().Str("event", string(event.Type)).Msg("ws broadcast buffer full, event dropped")
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) Stop() {
	close(h.quit)
}

// Run owns client bookkeeping until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.add(conn)
		case conn := <-h.Unregister:
			h.remove(conn)
		case message := <-h.Broadcast:
			h.send(message)
		case <-h.quit:
			h.closeAll()
			return
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.Clients[conn] = true
	log.Debug().Int("clients", len(h.Clients)).Msg("ws client connected")
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.dropLocked(conn)
}

// send writes to every client; a failed write drops that client.
func (h *Hub) send(message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.Clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Debug().Err(err).Msg("ws write failed, dropping client")
			h.dropLocked(conn)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.Clients {
		h.dropLocked(conn)
	}
}

func (h *Hub) dropLocked(conn *websocket.Conn) {
	if _, ok := h.Clients[conn]; !ok {
		return
	}
	delete(h.Clients, conn)
	conn.Close()
}
