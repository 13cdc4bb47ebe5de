package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and routes notification pushes
// to the clients belonging to a given user.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages from the clients for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Targeted messages for a single user's clients.
	direct chan directMessage

	// A map of user IDs to the set of that user's connected clients.
	subscriptions map[string]map[*Client]bool
}

type directMessage struct {
	userID  string
	payload []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		direct:        make(chan directMessage, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			if client.UserID != "" {
				h.addSubscription(client)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case msg := <-h.direct:
			h.deliverToUser(msg.userID, msg.payload)
		}
	}
}

// SendToUser delivers a message to every connected client of one user.
// Delivery happens on the hub loop; callers never touch the client maps.
// Messages for users without live clients are dropped.
func (h *Hub) SendToUser(userID string, message []byte) {
	select {
	case h.direct <- directMessage{userID: userID, payload: message}:
	default:
		log.Warn().Str("user_id", userID).Msg("Hub direct queue full, dropping push")
	}
}

func (h *Hub) deliverToUser(userID string, message []byte) {
	if subs, ok := h.subscriptions[userID]; ok {
		for client := range subs {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
				delete(h.subscriptions[userID], client)
			}
		}
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for userID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, userID)
			}
		}
	}
}
