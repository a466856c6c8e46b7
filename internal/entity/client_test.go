package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("Each client gets a distinct identity", func(t *testing.T) {
		// When: two clients connect
		a := NewClient(nopConn{}, "alice")
		b := NewClient(nopConn{}, "bob")

		// Then: their identifiers differ and they start unattached
		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID)
		assert.False(t, a.IsAttached())
		_, ok := a.RoomID()
		assert.False(t, ok)
	})

	t.Run("Room reference can be attached and detached", func(t *testing.T) {
		// Given: a connected client
		client := NewClient(nopConn{}, "alice")

		// When: the client is attached to room 0
		client.AttachRoom(0)

		// Then: the room id is visible
		id, ok := client.RoomID()
		assert.True(t, ok)
		assert.Equal(t, 0, id)

		// When: the client is detached
		client.DetachRoom()

		// Then: it is unattached again
		assert.False(t, client.IsAttached())
	})
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "valid", in: "Player1", want: "Player1"},
		{name: "minimum length", in: "abc", want: "abc"},
		{name: "maximum length", in: "abcdefghijklmnopqrst", want: "abcdefghijklmnopqrst"},
		{name: "empty", in: "", want: DefaultName},
		{name: "too short", in: "ab", want: DefaultName},
		{name: "too long", in: "abcdefghijklmnopqrstu", want: DefaultName},
		{name: "symbols", in: "bad name!", want: DefaultName},
		{name: "non ascii", in: "игрок", want: DefaultName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}
