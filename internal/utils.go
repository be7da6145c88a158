package internal

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// Short ids are what the clients type in or display,
// so games and players do not carry the full uuid.
const (
	GameUuidLength   = 6
	PlayerUuidLength = 10
)

func NewShortUuid(length int) string {
	id := uuid.NewString()
	if length <= 0 || length > len(id) {
		return id
	}
	return id[:length]
}

// Session ids travel in the reconnection URL query
func NewSessionId() string {
	return base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
}
