// Package ws streams permission and audit events to connected clients over
// WebSocket, backed by Redis pub/sub.
package ws

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/server/middleware"
	redisstore "github.com/pawsit/pawsit/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub) *Hub {
	return &Hub{pubsub: pubsub}
}

// ServePermissions streams permission-change notifications for the
// authenticated user. A message arrives whenever the resolver replaces the
// user's effective permission map, so clients can re-fetch their grants
// instead of polling.
func (h *Hub) ServePermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	h.stream(w, r, redisstore.PermissionChannel(userID))
}

// ServeRevisions streams newly recorded revisions for one resource, for live
// audit displays.
func (h *Hub) ServeRevisions(w http.ResponseWriter, r *http.Request) {
	res := domain.Resource(chi.URLParam(r, "resource"))
	if !res.Valid() {
		http.Error(w, "unknown resource", http.StatusBadRequest)
		return
	}

	h.stream(w, r, redisstore.RevisionChannel(res))
}

// stream forwards every message on channel to the client until either side
// closes.
func (h *Hub) stream(w http.ResponseWriter, r *http.Request, channel string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
