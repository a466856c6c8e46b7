package entity

import (
	"sync/atomic"

	"github.com/google/uuid"
)

const noRoom = -1

// Conn is the send side of one live transport connection.
type Conn interface {
	Send(payload []byte) error
}

// Client is one live connection. Its room reference is written only by the room directory
// while it holds its lock, and may be read from anywhere.
type Client struct {
	ID   string
	Name string

	conn   Conn
	roomID atomic.Int64
}

func NewClient(conn Conn, name string) *Client {
	client := &Client{
		ID:   uuid.NewString(),
		Name: NormalizeName(name),
		conn: conn,
	}
	client.roomID.Store(noRoom)

	return client
}

func (that *Client) Send(payload []byte) error {
	return that.conn.Send(payload)
}

// RoomID - returns the room the client occupies, if any.
func (that *Client) RoomID() (int, bool) {
	id := that.roomID.Load()
	if id == noRoom {
		return 0, false
	}
	return int(id), true
}

// IsAttached - reports whether the client occupies a room slot.
func (that *Client) IsAttached() bool {
	return that.roomID.Load() != noRoom
}

func (that *Client) AttachRoom(id int) {
	that.roomID.Store(int64(id))
}

func (that *Client) DetachRoom() {
	that.roomID.Store(noRoom)
}
