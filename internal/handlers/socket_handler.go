package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"xelaConnect/internal/enums"
	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/metrics"
	redisModels "xelaConnect/internal/models/redis"
	socketModels "xelaConnect/internal/models/socket"
)

const writeWait = 5 * time.Second

type socketClient struct {
	userID string
	conn   *websocket.Conn
	send   chan socketModels.SocketEvent
}

// SocketHandler serves the push channel. Each authenticated connection is
// registered under its user id; events from the publisher are delivered to the
// listed recipients.
type SocketHandler struct {
	mu        sync.Mutex
	upgrader  websocket.Upgrader
	clients   map[string]map[*socketClient]struct{}
	publisher interfaces.EventPublisher
	logger    zerolog.Logger
}

func NewSocketHandler(publisher interfaces.EventPublisher, logger zerolog.Logger) *SocketHandler {
	return &SocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:   make(map[string]map[*socketClient]struct{}),
		publisher: publisher,
		logger:    logger.With().Str("component", "socket").Logger(),
	}
}

// StartSocket subscribes to the publisher. Delivery stops when ctx is done.
func (sh *SocketHandler) StartSocket(ctx context.Context) error {
	return sh.publisher.Subscribe(ctx, sh.SendEventToClients)
}

// HandleSocketRoute expects MustAuthenticateMiddleware to have run.
func (sh *SocketHandler) HandleSocketRoute(ctx *gin.Context) {
	userID := ctx.GetString(ContextUserID)

	ws, err := sh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		sh.logger.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := &socketClient{
		userID: userID,
		conn:   ws,
		send:   make(chan socketModels.SocketEvent, 16),
	}
	sh.addClient(client)
	defer sh.removeClient(client)

	go sh.writePump(client)

	client.send <- socketModels.SocketEvent{Event: enums.SOCKET_EVENT_READY}

	// Clients never send; reading only detects the close
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sh.logger.Debug().Err(err).Str("user_id", userID).Msg("push client read error")
			}
			return
		}
	}
}

func (sh *SocketHandler) writePump(client *socketClient) {
	defer client.conn.Close()
	for event := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteJSON(event); err != nil {
			sh.logger.Debug().Err(err).Str("user_id", client.userID).Msg("error writing push event")
			return
		}
	}
	client.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (sh *SocketHandler) addClient(client *socketClient) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.clients[client.userID]; !ok {
		sh.clients[client.userID] = make(map[*socketClient]struct{})
	}
	sh.clients[client.userID][client] = struct{}{}
	metrics.PushClients.Inc()
	sh.logger.Debug().Str("user_id", client.userID).Msg("push client connected")
}

func (sh *SocketHandler) removeClient(client *socketClient) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	set, ok := sh.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(sh.clients, client.userID)
	}
	close(client.send)
	metrics.PushClients.Dec()
}

// SendEventToClients delivers a published event to every connection of every
// recipient. Slow clients are dropped rather than blocking the fan-out.
func (sh *SocketHandler) SendEventToClients(published redisModels.RedisPublishedMessage) {
	payload, err := json.Marshal(published.Payload)
	if err != nil {
		sh.logger.Warn().Err(err).Msg("error marshalling push payload")
		return
	}
	event := socketModels.SocketEvent{
		Event:          published.Event,
		ConversationID: published.ConversationID,
		Payload:        payload,
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	for _, userID := range published.Recipients {
		for client := range sh.clients[userID] {
			select {
			case client.send <- event:
			default:
				sh.logger.Warn().Str("user_id", userID).Msg("push client too slow, disconnecting")
				client.conn.Close()
			}
		}
	}
}

// ConnectedClients returns the number of open connections for userID.
func (sh *SocketHandler) ConnectedClients(userID string) int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return len(sh.clients[userID])
}

// CloseAll closes every connection, used on shutdown.
func (sh *SocketHandler) CloseAll() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	for _, set := range sh.clients {
		for client := range set {
			client.conn.Close()
		}
	}
}
