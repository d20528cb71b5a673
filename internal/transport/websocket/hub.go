// Package websocket
package websocket

import (
	"context"
	"encoding/json"

	"github.com/pietervz/ipfire-tray/internal/logger"
)

// Event is the wire envelope pushed to dashboard clients.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Hub fans events out to every connected dashboard client. Clients whose
// send buffer is full are dropped rather than allowed to stall the
// broadcast.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	events     chan *Event

	log logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),

		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *Event, 100),

		log: log,
	}
}

func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return ctx.Err()

		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("ws: client registered", "total_clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.log.Info("ws: client unregistered", "total_clients", len(h.clients))
			}

		case event := <-h.events:
			h.broadcast(event)
		}
	}
}

// Emit queues an event for every connected client. Safe to call from any
// goroutine.
func (h *Hub) Emit(event string, payload any) {
	h.events <- &Event{Event: event, Payload: payload}
}

func (h *Hub) broadcast(event *Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws: failed to marshal event", "error", err)
		return
	}

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.log.Warn("ws: client send buffer full, dropping client")
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}
