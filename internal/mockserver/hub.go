package mockserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/models"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type subscriber struct {
	send chan []byte
}

// hub fans notification events out to the sockets of their recipient.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[*subscriber]struct{})}
}

func (h *hub) add(userID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][s] = struct{}{}
}

func (h *hub) remove(userID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[userID][s]; !ok {
		return
	}
	delete(h.subs[userID], s)
	close(s.send)
	if len(h.subs[userID]) == 0 {
		delete(h.subs, userID)
	}
}

// publish drops the message for subscribers whose buffer is full.
func (h *hub) publish(userID string, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[userID] {
		select {
		case s.send <- msg:
		default:
			zap.S().Named("mock_ws").Warnw("dropping notification for slow subscriber", "user_id", userID)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.subs {
		for s := range set {
			close(s.send)
		}
		delete(h.subs, userID)
	}
}

func (s *Server) notificationsSocket(c *gin.Context) {
	userID := c.Param("id")

	// subscribe before the handshake completes so that nothing published
	// after the client's dial returns is missed
	sub := &subscriber{send: make(chan []byte, 16)}
	s.hub.add(userID, sub)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.hub.remove(userID, sub)
		zap.S().Named("mock_ws").Errorw("upgrade failed", "error", err)
		return
	}

	// reader: only used to notice the client going away
	go func() {
		defer s.hub.remove(userID, sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer conn.Close()
		for msg := range sub.send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	}()
}

type notificationEvent struct {
	Type         string              `json:"type"`
	Notification models.Notification `json:"notification"`
}
