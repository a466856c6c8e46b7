package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomID(t *testing.T) {
	for range 1000 {
		id, err := GenerateRoomID()

		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, MaxRoomID)
	}
}
