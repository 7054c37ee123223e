package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/feed"
	"github.com/stemsi/campusboard/internal/middleware"
	"github.com/stemsi/campusboard/internal/response"
	ws "github.com/stemsi/campusboard/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FeedHandler streams newly created announcements over WebSocket.
type FeedHandler struct {
	feed     *feed.Feed
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(f *feed.Feed, log zerolog.Logger, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		feed:     f,
		log:      log.With().Str("component", "feed_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /api/announcements/stream
// Pushes every announcement created after the connection opens.
func (h *FeedHandler) Stream(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
		return
	}

	// Subscribe before upgrading so a Redis outage is still a plain HTTP error.
	sub, err := h.feed.Subscribe(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Feed subscribe failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("user_id", identity.ID).
		Str("role", string(identity.Role)).
		Logger()
	wsLog.Info().Msg("Feed client connected")

	ws.KeepAlive(conn)

	// gorilla allows one concurrent writer, so the reader hands its replies
	// to this loop instead of writing them itself.
	replies := make(chan reply, 4)
	closed := make(chan struct{})
	go h.readLoop(conn, wsLog, replies, closed)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case evt, ok := <-sub.Events():
			if !ok {
				wsLog.Warn().Msg("Feed subscription ended")
				return
			}
			if err := ws.WriteTyped(conn, evt); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		case send := <-replies:
			if err := send(conn); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// reply is a message the reader wants written back to the client.
type reply func(conn *websocket.Conn) error

func pong(conn *websocket.Conn) error {
	return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
}

// readLoop drains client messages until the connection closes. Replies are
// dropped when the writer is backed up.
func (h *FeedHandler) readLoop(conn *websocket.Conn, log zerolog.Logger, replies chan<- reply, closed chan<- struct{}) {
	defer close(closed)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			} else {
				log.Debug().Msg("Connection closed")
			}
			return
		}

		var r reply
		switch msg.Action {
		case ws.ActionPing:
			r = pong
		default:
			log.Debug().Str("action", string(msg.Action)).Msg("Unknown action")
			errMsg := "unknown action: " + string(msg.Action)
			r = func(conn *websocket.Conn) error { return ws.WriteError(conn, errMsg) }
		}

		select {
		case replies <- r:
		default:
		}
	}
}
