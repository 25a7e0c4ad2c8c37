package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// Frame is what a live listener receives: the full current result set, or
// the error that ended the stream.
type Frame[T any] struct {
	Type  string `json:"type"`
	Data  T      `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Serve watches topic and writes a snapshot frame to conn after every
// change. It returns when the peer goes away, a write fails or a load
// fails. The connection is closed on return.
func Serve[T any](ctx context.Context, conn *websocket.Conn, hub *Hub, topic string, load func(context.Context) (T, error), onErr func(error)) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	// the read loop only notices the peer leaving
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	stream := Watch(ctx, hub, topic, load)
	for {
		select {
		case snap, ok := <-stream:
			if !ok {
				return
			}
			frame := Frame[T]{Type: "snapshot", Data: snap.Data}
			if snap.Err != nil {
				onErr(snap.Err)
				frame = Frame[T]{Type: "error", Error: "Could not load data"}
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			if snap.Err != nil {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""), time.Now().Add(writeWait))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
