package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-server/internal/config"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

type uSession interface {
	Connect(conn entity.Conn, name string) *entity.Client
	HandleMessage(ctx context.Context, client *entity.Client, data []byte)
	Disconnect(ctx context.Context, client *entity.Client)
}

type Server struct {
	logger   *slog.Logger
	uSession uSession
	conf     config.WebSocket

	upgrader websocket.Upgrader

	connectionsMutex sync.Mutex
	connections      map[*websocket.Conn]struct{}
	shuttingDown     bool
	wg               sync.WaitGroup

	srv *http.Server
}

func New(logger *slog.Logger, uSession uSession, conf config.WebSocket) *Server {
	return &Server{
		logger:   logger.With("component", "websocket"),
		uSession: uSession,
		conf:     conf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  conf.ReadBufferSize,
			WriteBufferSize: conf.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		connections: make(map[*websocket.Conn]struct{}),
	}
}

// Handler - returns the routes of the WebSocket server.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server. It returns nil after Shutdown.
func (that *Server) Start(port string) error {
	that.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	that.srv.RegisterOnShutdown(that.closeConnections)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown - stops accepting connections, closes the open ones and waits for their cleanup.
func (that *Server) Shutdown(ctx context.Context) error {
	if that.srv != nil {
		if err := that.srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	that.closeConnections()

	done := make(chan struct{})
	go func() {
		that.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("connections were not closed in time: %w", ctx.Err())
	}
}

// serveWS - upgrades the request and runs the read loop of the connection until it drops.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	if !that.track(ws) {
		log.Info("rejected connection during shutdown")
		_ = ws.Close()
		return
	}
	defer that.untrack(ws)

	conn := newConnection(that.logger, ws, that.conf.SendBufferSize, that.conf.PingInterval, that.conf.WriteWait)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		conn.writePump()
	}()

	ctx := context.WithoutCancel(req.Context())
	client := that.uSession.Connect(conn, req.URL.Query().Get("name"))
	log = log.With("client_id", client.ID)

	that.readLoop(ctx, ws, client)

	that.uSession.Disconnect(ctx, client)

	conn.close()
	<-writerDone
	_ = ws.Close()

	log.Info("WebSocket connection closed")
}

func (that *Server) readLoop(ctx context.Context, ws *websocket.Conn, client *entity.Client) {
	log := that.logger.With("method", "readLoop", "client_id", client.ID)

	ws.SetReadLimit(that.conf.MaxMessageSize)

	if that.conf.PingInterval > 0 {
		_ = ws.SetReadDeadline(time.Now().Add(that.conf.PongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(that.conf.PongWait))
		})
	}

	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn("connection dropped", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		that.uSession.HandleMessage(ctx, client, data)
	}
}

// track - registers a live connection. It refuses once the server is shutting down.
func (that *Server) track(ws *websocket.Conn) bool {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if that.shuttingDown {
		return false
	}

	that.connections[ws] = struct{}{}
	that.wg.Add(1)

	return true
}

func (that *Server) untrack(ws *websocket.Conn) {
	that.connectionsMutex.Lock()
	delete(that.connections, ws)
	that.connectionsMutex.Unlock()
	that.wg.Done()
}

func (that *Server) closeConnections() {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.shuttingDown = true

	for ws := range that.connections {
		_ = ws.Close()
	}
}
