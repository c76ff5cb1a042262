package websocket

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/mkaye/ai-journal/internal/domain"
)

// Event is pushed to a user's open connections when one of their entries
// changes, so chat and calendar views can refresh without polling.
type Event struct {
	Type         string       `json:"type"`
	Date         string       `json:"date"`
	Mood         *domain.Mood `json:"mood"`
	MessageCount int          `json:"messageCount"`
}

// EntryUpdated builds the event for a freshly written entry.
func EntryUpdated(entry *domain.Entry) Event {
	return Event{
		Type:         "entry_updated",
		Date:         entry.Date.Format("2006-01-02"),
		Mood:         entry.Mood,
		MessageCount: len(entry.Messages),
	}
}

type userEvent struct {
	userID uuid.UUID
	data   []byte
}

// Hub fans events out to each user's connections. All state is owned by the
// Run goroutine; the rest of the process talks to it over channels.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan userEvent
	stop       chan struct{}
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan userEvent, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			conns := h.clients[client.userID]
			if conns == nil {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			conns[client] = true

		case client := <-h.unregister:
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}

		case ev := <-h.publish:
			for client := range h.clients[ev.userID] {
				select {
				case client.send <- ev.data:
				default:
					// Slow consumer; drop the connection.
					delete(h.clients[ev.userID], client)
					close(client.send)
				}
			}

		case <-h.stop:
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish sends an event to all of the user's open connections.
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR [websocket.Publish] marshal event: %v", err)
		return
	}

	select {
	case h.publish <- userEvent{userID: userID, data: data}:
	case <-h.done:
	}
}

// Stop shuts the hub down and waits for the Run loop to exit.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}
