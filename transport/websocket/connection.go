package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
)

// connection is the send side of one socket. Messages are queued and written by a single
// writer goroutine, so the order of Send calls is the order on the wire.
type connection struct {
	logger *slog.Logger
	ws     *websocket.Conn

	pingInterval time.Duration
	writeWait    time.Duration

	sendMutex sync.Mutex
	closed    bool
	send      chan []byte
}

func newConnection(logger *slog.Logger, ws *websocket.Conn, sendBufferSize int, pingInterval, writeWait time.Duration) *connection {
	return &connection{
		logger:       logger,
		ws:           ws,
		pingInterval: pingInterval,
		writeWait:    writeWait,
		send:         make(chan []byte, max(sendBufferSize, 1)),
	}
}

// Send - queues the payload without blocking. A full queue or a closed connection drops it.
func (that *connection) Send(payload []byte) error {
	that.sendMutex.Lock()
	defer that.sendMutex.Unlock()

	if that.closed {
		return apperror.ErrConnectionClosed
	}

	select {
	case that.send <- payload:
		return nil
	default:
		return apperror.ErrSendBufferFull
	}
}

// close - stops accepting messages. The writer flushes what is queued and then exits.
func (that *connection) close() {
	that.sendMutex.Lock()
	defer that.sendMutex.Unlock()

	if !that.closed {
		that.closed = true
		close(that.send)
	}
}

// writePump - drains the queue to the socket and sends keepalive pings.
func (that *connection) writePump() {
	log := that.logger.With("method", "writePump")

	var pings <-chan time.Time
	if that.pingInterval > 0 {
		ticker := time.NewTicker(that.pingInterval)
		defer ticker.Stop()
		pings = ticker.C
	}

	for {
		select {
		case payload, ok := <-that.send:
			_ = that.ws.SetWriteDeadline(time.Now().Add(that.writeWait))

			if !ok {
				_ = that.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := that.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug("failed to write message", "error", err)
				that.discard()
				return
			}
		case <-pings:
			_ = that.ws.SetWriteDeadline(time.Now().Add(that.writeWait))

			if err := that.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("failed to write ping", "error", err)
				that.discard()
				return
			}
		}
	}
}

// discard - closes the socket after a write failure so the read loop ends and cleans up.
func (that *connection) discard() {
	_ = that.ws.Close()
}
