package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-server/internal/service"
	"github.com/rocketscienceinc/tictactoe-server/internal/tictactoe"
)

const (
	msgWaitForTurn     = "Wait for your turn"
	msgCellOccupied    = "You can't move in this cell"
	msgInvalidCell     = "Invalid cell"
	msgNotInRoom       = "You are not in this room"
	msgWrongSign       = "Wrong sign"
	msgWaitingOpponent = "Waiting for opponent"
	msgRoomNotFound    = "Room %d does not exist"
	msgRoomFull        = "Room %d is full"
	msgAlreadyInRoom   = "You are already in room %d"
	msgCreateFailed    = "Failed to create a room"
)

type SessionUseCase interface {
	Connect(conn entity.Conn, name string) *entity.Client
	HandleMessage(ctx context.Context, client *entity.Client, data []byte)
	Disconnect(ctx context.Context, client *entity.Client)
}

type connectionRegistry interface {
	Register(conn entity.Conn, name string) *entity.Client
	Unregister(client *entity.Client) bool
	Broadcast(payload []byte, predicate func(client *entity.Client) bool) int
}

type roomDirectory interface {
	CreateRoom(client *entity.Client) (service.Created, error)
	JoinRoom(client *entity.Client, roomID int) (service.Joined, error)
	LeaveRoom(client *entity.Client) service.Departure
	Play(client *entity.Client, roomID int, sign entity.Sign, cell int) (service.Played, error)
	OpenRooms() []int
}

type roundRecorder interface {
	RecordRound(ctx context.Context, result entity.RoundResult) error
}

// delivery is one outbound message addressed to one client.
type delivery struct {
	to      *entity.Client
	message any
}

// reply is the work produced by one request: deliveries in send order and follow-up effects.
type reply struct {
	deliveries    []delivery
	roomsChanged  bool
	finishedRound *entity.RoundResult
}

func (that *reply) add(to *entity.Client, message any) {
	if to == nil {
		return
	}
	that.deliveries = append(that.deliveries, delivery{to: to, message: message})
}

type sessionUseCase struct {
	logger *slog.Logger

	registry  connectionRegistry
	directory roomDirectory
	recorder  roundRecorder

	// deliveryMutex orders state changes together with the notifications they produce,
	// so every recipient queues messages in the order they were generated.
	deliveryMutex sync.Mutex

	handlers map[string]func(client *entity.Client, request protocol.Request) reply
}

func NewSessionUseCase(logger *slog.Logger, registry connectionRegistry, directory roomDirectory, recorder roundRecorder) SessionUseCase {
	session := &sessionUseCase{
		logger:    logger.With("component", "session"),
		registry:  registry,
		directory: directory,
		recorder:  recorder,
	}

	session.handlers = map[string]func(client *entity.Client, request protocol.Request) reply{
		protocol.TypeCreateRoom:   session.handleCreateRoom,
		protocol.TypeJoinRoom:     session.handleJoinRoom,
		protocol.TypeLeaveRoom:    session.handleLeaveRoom,
		protocol.TypeMove:         session.handleMove,
		protocol.TypeGetOpenRooms: session.handleGetOpenRooms,
	}

	return session
}

func (that *sessionUseCase) Connect(conn entity.Conn, name string) *entity.Client {
	client := that.registry.Register(conn, name)

	that.logger.Info("client connected", "method", "Connect", "client_id", client.ID, "name", client.Name)

	return client
}

// HandleMessage - processes one inbound frame. Every notification it triggers is handed to the
// connections before it returns. Malformed frames and panics are logged and dropped.
func (that *sessionUseCase) HandleMessage(ctx context.Context, client *entity.Client, data []byte) {
	log := that.logger.With("method", "HandleMessage", "client_id", client.ID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic while handling message", "panic", r)
		}
	}()

	request, err := protocol.Decode(data)
	if err != nil {
		log.Warn("failed to decode message", "error", err)
		return
	}

	handler, ok := that.handlers[request.Type()]
	if !ok {
		log.Warn("no handler for message", "type", request.Type())
		return
	}

	out := that.apply(func() reply {
		return handler(client, request)
	})

	that.record(ctx, out)
}

// Disconnect - vacates the client's room, then forgets the client.
func (that *sessionUseCase) Disconnect(ctx context.Context, client *entity.Client) {
	out := that.apply(func() reply {
		var out reply
		that.leave(&out, client)
		that.registry.Unregister(client)
		return out
	})

	that.logger.Info("client disconnected", "method", "Disconnect", "client_id", client.ID)

	that.record(ctx, out)
}

// apply - runs a state change and queues its notifications before any other change can start.
// Queueing never blocks, so holding the lock across Send is safe.
func (that *sessionUseCase) apply(change func() reply) reply {
	that.deliveryMutex.Lock()
	defer that.deliveryMutex.Unlock()

	out := change()
	that.deliver(out)

	return out
}

func (that *sessionUseCase) handleCreateRoom(client *entity.Client, _ protocol.Request) reply {
	var out reply

	created, err := that.directory.CreateRoom(client)
	if err != nil {
		that.logger.Error("failed to create room", "method", "handleCreateRoom", "client_id", client.ID, "error", err)
		out.add(client, protocol.NewJoinRoomError(msgCreateFailed))
		return out
	}

	that.notifyDeparture(&out, created.Departure)
	out.add(client, protocol.NewCreated(created.RoomID, entity.SignX, client.Name))
	out.roomsChanged = true

	return out
}

func (that *sessionUseCase) handleJoinRoom(client *entity.Client, request protocol.Request) reply {
	var out reply
	roomID := request.(protocol.JoinRoom).RoomID

	joined, err := that.directory.JoinRoom(client, roomID)
	if err != nil {
		out.add(client, protocol.NewJoinRoomError(joinErrorMessage(err, roomID)))
		return out
	}

	that.notifyDeparture(&out, joined.Departure)
	out.add(client, protocol.NewJoined(joined.RoomID, joined.Sign, client.Name))
	out.add(joined.X, protocol.NewStartGame(joined.Round, joined.O.Name))
	out.add(joined.O, protocol.NewStartGame(joined.Round, joined.X.Name))
	out.roomsChanged = true

	return out
}

func (that *sessionUseCase) handleLeaveRoom(client *entity.Client, _ protocol.Request) reply {
	var out reply

	that.leave(&out, client)
	out.add(client, protocol.NewLeftRoom())

	return out
}

func (that *sessionUseCase) handleMove(client *entity.Client, request protocol.Request) reply {
	var out reply
	move := request.(protocol.Move)

	played, err := that.directory.Play(client, move.RoomID, move.Sign, move.Cell)
	if err != nil {
		out.add(client, protocol.NewDenied(move.Sign, deniedMessage(err)))
		return out
	}

	outcome := played.Outcome
	players := []*entity.Client{played.X, played.O}

	for _, player := range players {
		out.add(player, protocol.NewUpdateBoard(outcome.Board))
	}

	if !outcome.IsTerminal() {
		return out
	}

	result := entity.RoundResult{
		RoomID:     move.RoomID,
		Round:      outcome.Round,
		Score:      outcome.Score,
		FinishedAt: time.Now().UTC(),
	}

	for _, player := range players {
		if outcome.Kind == tictactoe.Win {
			out.add(player, protocol.NewWin(outcome.Line.Sign, outcome.Line.Cells, outcome.Score))
		} else {
			out.add(player, protocol.NewDrawRound(outcome.Score))
		}
	}

	if outcome.Kind == tictactoe.Win {
		result.Winner = outcome.Line.Sign
		result.Cells = outcome.Line.Cells[:]
	}

	out.add(played.X, protocol.NewStartGame(outcome.Round+1, played.O.Name))
	out.add(played.O, protocol.NewStartGame(outcome.Round+1, played.X.Name))
	out.finishedRound = &result

	return out
}

func (that *sessionUseCase) handleGetOpenRooms(client *entity.Client, _ protocol.Request) reply {
	var out reply
	out.add(client, protocol.NewOpenRooms(that.directory.OpenRooms()))

	return out
}

func (that *sessionUseCase) leave(out *reply, client *entity.Client) {
	departure := that.directory.LeaveRoom(client)
	that.notifyDeparture(out, departure)

	if departure.Left {
		out.roomsChanged = true
	}
}

func (that *sessionUseCase) notifyDeparture(out *reply, departure service.Departure) {
	if departure.Left && departure.Opponent != nil {
		out.add(departure.Opponent, protocol.NewPlayerDisconnected())
	}
}

// deliver - queues the deliveries in order, then the open-room list for the lobby.
func (that *sessionUseCase) deliver(out reply) {
	log := that.logger.With("method", "deliver")

	for _, d := range out.deliveries {
		payload, err := protocol.Encode(d.message)
		if err != nil {
			log.Error("failed to encode message", "error", err)
			continue
		}

		if err = d.to.Send(payload); err != nil {
			log.Warn("failed to deliver message", "client_id", d.to.ID, "error", err)
		}
	}

	if out.roomsChanged {
		that.broadcastOpenRooms()
	}
}

func (that *sessionUseCase) record(ctx context.Context, out reply) {
	if out.finishedRound == nil {
		return
	}

	if err := that.recorder.RecordRound(ctx, *out.finishedRound); err != nil {
		that.logger.Error("failed to record round", "method", "record", "room_id", out.finishedRound.RoomID, "error", err)
	}
}

func (that *sessionUseCase) broadcastOpenRooms() {
	payload, err := protocol.Encode(protocol.NewOpenRooms(that.directory.OpenRooms()))
	if err != nil {
		that.logger.Error("failed to encode open rooms", "method", "broadcastOpenRooms", "error", err)
		return
	}

	that.registry.Broadcast(payload, service.Unattached)
}

func joinErrorMessage(err error, roomID int) string {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return fmt.Sprintf(msgRoomNotFound, roomID)
	case errors.Is(err, apperror.ErrRoomFull):
		return fmt.Sprintf(msgRoomFull, roomID)
	case errors.Is(err, apperror.ErrAlreadyInRoom):
		return fmt.Sprintf(msgAlreadyInRoom, roomID)
	default:
		return err.Error()
	}
}

func deniedMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotYourTurn):
		return msgWaitForTurn
	case errors.Is(err, apperror.ErrCellOccupied):
		return msgCellOccupied
	case errors.Is(err, apperror.ErrInvalidCell):
		return msgInvalidCell
	case errors.Is(err, apperror.ErrRoomNotFound), errors.Is(err, apperror.ErrNotInRoom):
		return msgNotInRoom
	case errors.Is(err, apperror.ErrWrongSign):
		return msgWrongSign
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		return msgWaitingOpponent
	default:
		return err.Error()
	}
}
