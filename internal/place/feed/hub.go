// Package feed pushes place changes to websocket subscribers.
package feed

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/AlibekovAA/places-directory/internal/common/constants"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
)

// Hub owns the subscriber set. Only the Run goroutine touches clients.
type Hub struct {
	clients     map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	broadcast   chan []byte
	done        chan struct{}
	clientCount atomic.Int64
	log         *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, constants.FeedBroadcastQueue),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			total := h.clientCount.Add(1)
			metrics.FeedConnectionsActive.Inc()
			h.log.WithFields(ctx, logger.Fields{
				"remote": client.remote,
				"total":  total,
				"action": "feed_register",
			}).Debug("feed client registered")

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					metrics.FeedEventsDropped.WithLabelValues("slow_client").Inc()
					h.log.WithFields(ctx, logger.Fields{
						"remote": client.remote,
						"action": "feed_slow_client",
					}).Warn("feed client too slow, disconnecting")
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.clientCount.Add(-1)
	metrics.FeedConnectionsActive.Dec()
}

func (h *Hub) shutdown() {
	for client := range h.clients {
		h.remove(client)
	}
	h.log.Info("place feed stopped")
}

// Register returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish never blocks the caller; events are dropped when the queue is
// full or nobody is listening.
func (h *Hub) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Errorf("feed event marshal failed: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
		metrics.FeedEventsTotal.WithLabelValues(string(event.Type)).Inc()
	default:
		metrics.FeedEventsDropped.WithLabelValues("queue_full").Inc()
	}
}

func (h *Hub) ClientCount() int {
	return int(h.clientCount.Load())
}
