package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	requestKey         = "auth_request"
	headerAPIKey       = "x-api-key"
	unknownFingerprint = "unknown"
)

// NewRequest extracts gate inputs from the fiber context. Values are copied
// because fiber reuses the underlying buffers after the handler returns.
func NewRequest(c *fiber.Ctx) Request {
	fingerprint := c.Get(fiber.HeaderUserAgent)
	if fingerprint == "" {
		fingerprint = unknownFingerprint
	}
	return Request{
		APIKey:        utils.CopyString(c.Get(headerAPIKey)),
		Authorization: utils.CopyString(c.Get(fiber.HeaderAuthorization)),
		Fingerprint:   utils.CopyString(fingerprint),
		ClientAddr:    utils.CopyString(c.IP()),
		Route:         utils.CopyString(c.Path()),
	}
}

// Handler runs the pipeline and stores the resulting request for handlers.
func (p Pipeline) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := p.Run(c.UserContext(), NewRequest(c))
		if err != nil {
			return err
		}
		c.Locals(requestKey, req)
		return c.Next()
	}
}

// RequestFromContext retrieves the request produced by the pipeline.
func RequestFromContext(c *fiber.Ctx) (Request, bool) {
	req, ok := c.Locals(requestKey).(Request)
	return req, ok
}

// FingerprintFromContext returns the client fingerprint used for token binding.
func FingerprintFromContext(c *fiber.Ctx) string {
	if req, ok := RequestFromContext(c); ok {
		return req.Fingerprint
	}
	return NewRequest(c).Fingerprint
}
