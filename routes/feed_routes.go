package routes

import (
	"github.com/anjiri1684/trivia_api/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func FeedRoutes(router fiber.Router, hub *websocket.Hub) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if !websocketcontrib.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	router.Get("/ws/questions", websocketcontrib.New(hub.Serve))
}
