package pulse

import (
	"strings"

	"github.com/google/uuid"

	"github.com/outofforest/pulse/wire"
)

func newHubID() wire.HubID {
	return wire.HubID(uuid.New())
}

func hubIDString(id wire.HubID) string {
	return uuid.UUID(id).String()
}

func isWebSocketURL(addr string) bool {
	return strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://")
}
