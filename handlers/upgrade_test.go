package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handyhub/chat-relay/relay"
)

// gateApp stands in for the websocket route so the gate can be exercised
// without a live handshake.
func gateApp() *fiber.App {
	app := fiber.New()
	app.Use("/ws", UpgradeGate)
	app.Get("/ws/:roomID", func(c *fiber.Ctx) error {
		ident, ok := c.Locals(IdentityKey).(relay.Identity)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(ident.UserID)
	})
	return app
}

func TestUpgradeGate(t *testing.T) {
	tests := []struct {
		name       string
		upgrade    bool
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "plain http request refused",
			upgrade:    false,
			wantStatus: fiber.StatusUpgradeRequired,
		},
		{
			name:       "upgrade without identity refused",
			upgrade:    true,
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:    "upgrade with partial identity refused",
			upgrade: true,
			headers: map[string]string{
				HeaderUserID:   "U1",
				HeaderUserName: "Alice",
			},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:    "upgrade with full identity admitted",
			upgrade: true,
			headers: map[string]string{
				HeaderUserID:   "U1",
				HeaderUserName: "Alice",
				HeaderUserRole: "customer",
			},
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := gateApp()

			req := httptest.NewRequest("GET", "/ws/proj-1", nil)
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
