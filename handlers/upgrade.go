package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/handyhub/chat-relay/relay"
)

// IdentityKey is the Locals key under which the upgrade gate stores the
// resolved identity for the websocket handler.
const IdentityKey = "chat-identity"

// Headers carrying the authenticated identity, injected by the gateway in
// front of the relay. The relay itself never checks credentials.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// UpgradeGate admits only websocket upgrade requests that carry a complete
// identity tuple. A missing tuple means the gateway did not vouch for the
// connection, so the upgrade is refused before any session state exists.
func UpgradeGate(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	ident := relay.Identity{
		UserID:   c.Get(HeaderUserID),
		UserName: c.Get(HeaderUserName),
		UserRole: c.Get(HeaderUserRole),
	}
	if ident.UserID == "" || ident.UserName == "" || ident.UserRole == "" {
		return fiber.ErrUnauthorized
	}

	c.Locals(IdentityKey, ident)
	return c.Next()
}
