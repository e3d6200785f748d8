package scene

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Watcher is a read-only websocket subscriber to scene changes.
type Watcher struct {
	ID        uuid.UUID
	navigator *Navigator
	conn      *websocket.Conn
	send      chan []byte
}

func NewWatcher(n *Navigator, conn *websocket.Conn) *Watcher {
	return &Watcher{
		ID:        uuid.New(),
		navigator: n,
		conn:      conn,
		send:      make(chan []byte, watcherBuffer),
	}
}

// WriteEvents pushes snapshots and pings until the navigator closes the queue or a write
// fails.
func (w *Watcher) WriteEvents() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = w.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadEvents discards client frames and keeps the read deadline alive on pongs. It leaves
// the navigator when the peer goes away.
func (w *Watcher) ReadEvents() {
	defer w.navigator.Leave(w)

	w.conn.SetReadLimit(maxMessageSize)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}
