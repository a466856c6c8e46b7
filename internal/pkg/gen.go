package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MaxRoomID bounds room ids to [0, MaxRoomID).
const MaxRoomID = 100_000

// GenerateRoomID - generates a random room id. Uniqueness is the caller's concern.
func GenerateRoomID() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxRoomID))
	if err != nil {
		return 0, fmt.Errorf("failed to generate room id: %w", err)
	}
	return int(n.Int64()), nil
}
