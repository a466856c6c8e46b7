package service

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

type ConnectionRegistry interface {
	Register(conn entity.Conn, name string) *entity.Client
	Unregister(client *entity.Client) bool
	Broadcast(payload []byte, predicate func(client *entity.Client) bool) int
	Count() int
}

type connectionRegistry struct {
	logger *slog.Logger

	clientsMutex sync.RWMutex
	clients      map[string]*entity.Client
}

func NewConnectionRegistry(logger *slog.Logger) ConnectionRegistry {
	return &connectionRegistry{
		logger:  logger,
		clients: make(map[string]*entity.Client),
	}
}

// Unattached matches clients that do not occupy a room slot.
func Unattached(client *entity.Client) bool {
	return !client.IsAttached()
}

// Register - adds a new client with a fresh id and no room.
func (that *connectionRegistry) Register(conn entity.Conn, name string) *entity.Client {
	client := entity.NewClient(conn, name)

	that.clientsMutex.Lock()
	that.clients[client.ID] = client
	that.clientsMutex.Unlock()

	that.logger.Debug("client registered", "method", "Register", "client_id", client.ID, "name", client.Name)

	return client
}

// Unregister - removes the client. Repeated calls are no-ops and report false.
func (that *connectionRegistry) Unregister(client *entity.Client) bool {
	that.clientsMutex.Lock()
	_, ok := that.clients[client.ID]
	delete(that.clients, client.ID)
	that.clientsMutex.Unlock()

	if ok {
		that.logger.Debug("client unregistered", "method", "Unregister", "client_id", client.ID)
	}

	return ok
}

// Broadcast - sends the payload to every client matching the predicate and returns how many accepted it.
// Recipients are taken from a snapshot, so sends never happen under the registry lock.
// A failed send is logged and does not affect the other recipients.
func (that *connectionRegistry) Broadcast(payload []byte, predicate func(client *entity.Client) bool) int {
	log := that.logger.With("method", "Broadcast")

	that.clientsMutex.RLock()
	recipients := make([]*entity.Client, 0, len(that.clients))
	for _, client := range that.clients {
		if predicate == nil || predicate(client) {
			recipients = append(recipients, client)
		}
	}
	that.clientsMutex.RUnlock()

	delivered := 0
	for _, client := range recipients {
		if err := client.Send(payload); err != nil {
			log.Warn("failed to deliver broadcast", "client_id", client.ID, "error", err)
			continue
		}
		delivered++
	}

	return delivered
}

func (that *connectionRegistry) Count() int {
	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	return len(that.clients)
}
