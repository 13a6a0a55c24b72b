package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

// Middleware resolves the caller once per request and stores it in the
// gin context. It never aborts: handlers decide when an anonymous caller
// is an error.
func Middleware(p Provider, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "auth").Logger()

	return func(c *gin.Context) {
		id, err := p.Identify(c.Request)
		switch {
		case err == nil:
			log.Debug().Str("user_id", id.ID).Str("role", id.Role).Msg("Resolved caller")
			c.Set(identityKey, id)
		case errors.Is(err, ErrNoCredentials):
		default:
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected access token")
		}
		c.Next()
	}
}

// FromContext returns the caller stored by Middleware, or nil
func FromContext(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
