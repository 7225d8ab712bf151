package middleware

import "github.com/gofiber/fiber/v2"

// NoCache stamps responses so browsers and proxies never reuse a question
// set; every run must reach the server.
func NoCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return c.Next()
	}
}
