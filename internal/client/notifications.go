package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cataloro/cataloro-probe/internal/models"
)

// NotificationEvent is one message pushed on the realtime channel.
type NotificationEvent struct {
	Type         string              `json:"type"`
	Notification models.Notification `json:"notification"`
}

// NotificationStream is an open realtime notification channel for one user.
type NotificationStream struct {
	conn *websocket.Conn
}

// DialNotifications opens /ws/notifications/{user_id}. The bearer token, if any,
// is passed both as a header and as a query parameter since browsers cannot set headers.
func (c *Client) DialNotifications(ctx context.Context, userID string) (*NotificationStream, error) {
	u, err := url.Parse(c.rootURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/notifications/" + url.PathEscape(userID)

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
		header.Set("Authorization", "Bearer "+c.token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.httpClient.Timeout}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", u.Path, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", u.Path, err)
	}
	return &NotificationStream{conn: conn}, nil
}

// Next blocks until the next event arrives or ctx is done. Without a deadline on
// ctx it waits at most 30 seconds.
func (s *NotificationStream) Next(ctx context.Context) (*NotificationEvent, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(30 * time.Second)
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading notification: %w", err)
	}

	var ev NotificationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding notification: %w", err)
	}
	return &ev, nil
}

func (s *NotificationStream) Close() error {
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return s.conn.Close()
}
