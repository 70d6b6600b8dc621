package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is echoed on every response.
const HeaderName = "X-Ray-ID"

// LocalsKey is where handlers find the ray id.
const LocalsKey = "ray_id"

// New returns a middleware assigning a ray id to each request.
// An incoming X-Ray-ID header is kept so traces span services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
