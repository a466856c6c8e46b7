package service

import (
	"io"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingConn struct {
	mu       sync.Mutex
	closed   bool
	received [][]byte
}

func (that *recordingConn) Send(payload []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrConnectionClosed
	}

	that.received = append(that.received, payload)
	return nil
}

func (that *recordingConn) Close() {
	that.mu.Lock()
	that.closed = true
	that.mu.Unlock()
}

func (that *recordingConn) Received() [][]byte {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([][]byte(nil), that.received...)
}

// sequentialIDs returns ids from the list in order, repeating the last one when exhausted.
func sequentialIDs(ids ...int) func() (int, error) {
	var mu sync.Mutex
	next := 0

	return func() (int, error) {
		mu.Lock()
		defer mu.Unlock()

		id := ids[min(next, len(ids)-1)]
		next++
		return id, nil
	}
}
