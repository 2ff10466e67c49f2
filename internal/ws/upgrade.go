package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"deadsignal/config"
	"deadsignal/internal/auth"
	"deadsignal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeRadarWS upgrades the connection for the radar channel. The token comes
// in the query string. The server pushes a reading on every position update
// and re-sweeps the last fix every interval so the needle keeps wobbling.
func UpgradeRadarWS(cfg *config.JWTConfig, hub *RadarHub, svc *service.HuntService, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			writeFrame(conn, RadarFrame{Type: "error", Error: "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			writeFrame(conn, RadarFrame{Type: "error", Error: "invalid token"})
			return
		}
		client := NewClient(claims.UserID)
		hub.Register(client)
		defer client.Close()

		done := make(chan struct{})
		go func() {
			readPump(conn)
			close(done)
		}()
		sweep(client, svc)
		writePump(client, conn, svc, interval, done)
	}
}

// sweep queues a reading from the last stored fix.
func sweep(c *Client, svc *service.HuntService) {
	snap, err := svc.Radar(c.UserID)
	frame := RadarFrame{Type: "radar", Snapshot: snap}
	switch {
	case errors.Is(err, service.ErrNoActiveHunt), errors.Is(err, service.ErrNoFix):
		frame = RadarFrame{Type: "idle", Error: err.Error()}
	case err != nil:
		return
	}
	data, _ := json.Marshal(frame)
	c.push(data)
}

// writePump copies messages from client.Send to the connection until the
// reader goes away.
func writePump(c *Client, conn *websocket.Conn, svc *service.HuntService, interval time.Duration, done <-chan struct{}) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-done:
			return
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-tick:
			sweep(c, svc)
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client messages; the radar channel is server-push only.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, frame RadarFrame) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(frame)
}
