package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSubscribe    MessageType = "subscribe"
	MessageTypeUnsubscribe  MessageType = "unsubscribe"
	MessageTypeDraftUpdated MessageType = "draft_updated"
	MessageTypeDraftCreated MessageType = "draft_created"
	MessageTypeError        MessageType = "error"
)

// DraftListChannel is the subscription key for draft-list events. Clients
// subscribed to it receive draft_created notifications for every new draft.
const DraftListChannel uint = 0

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type          MessageType `json:"type"`
	TransactionID uint        `json:"transaction_id,omitempty"`
	Payload       interface{} `json:"payload,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// DraftEventPayload is the payload for draft lifecycle notifications.
type DraftEventPayload struct {
	TransactionID uint     `json:"transaction_id"`
	Source        string   `json:"source"` // "ocr", "email", "smtp", "user"
	Vendor        string   `json:"vendor,omitempty"`
	Amount        string   `json:"amount,omitempty"`
	Filled        []string `json:"filled,omitempty"`
}

// Hub maintains the set of active clients and broadcasts draft events
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Draft subscriptions: transactionID -> set of clients
	subscriptions map[uint]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Subscribe to a draft
	subscribe chan *subscriptionRequest

	// Unsubscribe from a draft
	unsubscribeDraft chan *subscriptionRequest

	// Broadcast to draft subscribers
	broadcast chan *broadcastMessage

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Logger
	logger *slog.Logger
}

type subscriptionRequest struct {
	client        *Client
	transactionID uint
}

type broadcastMessage struct {
	transactionID uint
	message       []byte
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:          make(map[*Client]bool),
		subscriptions:    make(map[uint]map[*Client]bool),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		subscribe:        make(chan *subscriptionRequest),
		unsubscribeDraft: make(chan *subscriptionRequest),
		broadcast:        make(chan *broadcastMessage, 256),
		logger:           logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered")
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				// Remove from all subscriptions
				for txnID, subscribers := range h.subscriptions {
					delete(subscribers, client)
					if len(subscribers) == 0 {
						delete(h.subscriptions, txnID)
					}
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unregistered")
			}

		case req := <-h.subscribe:
			h.mu.Lock()
			if h.subscriptions[req.transactionID] == nil {
				h.subscriptions[req.transactionID] = make(map[*Client]bool)
			}
			h.subscriptions[req.transactionID][req.client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client subscribed to draft", slog.Uint64("transaction_id", uint64(req.transactionID)))
			}

		case req := <-h.unsubscribeDraft:
			h.mu.Lock()
			if subscribers, ok := h.subscriptions[req.transactionID]; ok {
				delete(subscribers, req.client)
				if len(subscribers) == 0 {
					delete(h.subscriptions, req.transactionID)
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unsubscribed from draft", slog.Uint64("transaction_id", uint64(req.transactionID)))
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			subscribers := h.subscriptions[msg.transactionID]
			for client := range subscribers {
				select {
				case client.send <- msg.message:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe subscribes a client to a draft's events
func (h *Hub) Subscribe(client *Client, transactionID uint) {
	h.subscribe <- &subscriptionRequest{client: client, transactionID: transactionID}
}

// Unsubscribe unsubscribes a client from a draft's events
func (h *Hub) Unsubscribe(client *Client, transactionID uint) {
	h.unsubscribeDraft <- &subscriptionRequest{client: client, transactionID: transactionID}
}

// BroadcastDraftUpdated notifies a draft's subscribers that a populate or
// edit changed it.
func (h *Hub) BroadcastDraftUpdated(transactionID uint, payload *DraftEventPayload) {
	h.send(transactionID, WSMessage{
		Type:          MessageTypeDraftUpdated,
		TransactionID: transactionID,
		Payload:       payload,
	})
}

// BroadcastDraftCreated notifies draft-list subscribers that a new draft
// exists, e.g. from an ingested email.
func (h *Hub) BroadcastDraftCreated(payload *DraftEventPayload) {
	h.send(DraftListChannel, WSMessage{
		Type:          MessageTypeDraftCreated,
		TransactionID: payload.TransactionID,
		Payload:       payload,
	})
}

func (h *Hub) send(channel uint, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal broadcast message", slog.Any("error", err))
		}
		return
	}

	h.broadcast <- &broadcastMessage{
		transactionID: channel,
		message:       data,
	}
}
