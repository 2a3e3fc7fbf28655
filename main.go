package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/handyhub/chat-relay/config"
	"github.com/handyhub/chat-relay/handlers"
	"github.com/handyhub/chat-relay/relay"
)

func main() {
	// Local .env is a dev convenience; absence is fine.
	_ = godotenv.Load()
	cfg := config.Load()

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	rly := relay.New(cfg.SessionBuffer)

	app := fiber.New()
	app.Use(fiberlogger.New()) // Basic request logging

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Websocket endpoint: /ws/:roomID. The gate rejects non-upgrade
	// requests and requests whose identity the gateway did not resolve.
	app.Use("/ws", handlers.UpgradeGate)
	app.Get("/ws/:roomID", websocket.New(func(c *websocket.Conn) {
		handlers.HandleWebSocket(c, rly, cfg)
	}))

	go func() {
		logrus.WithField("addr", cfg.ServerAddr).Info("starting chat relay")
		if err := app.Listen(cfg.ServerAddr); err != nil {
			logrus.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until signal received

	logrus.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Error("error shutting down server")
	}

	// Drain live sessions so every room sees clean leaves before exit.
	rly.Shutdown()

	logrus.Info("server gracefully stopped")
}
