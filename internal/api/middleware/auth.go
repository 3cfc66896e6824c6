package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/auth"
)

// Context keys under which the gate binds the authenticated identity.
const (
	ContextEmail       = "email"
	ContextRole        = "role"
	ContextPrincipalID = "principal_id"
)

// bearerPrefix is matched case-sensitively, single trailing space.
const bearerPrefix = "Bearer "

// Gate runs once per request, before authorization. It extracts and validates
// the bearer token and, on success, binds the identity and role into the
// request context. It never rejects a request itself: a missing or invalid
// token just leaves the request unauthenticated for the policy to judge.
func Gate(codec *auth.Codec, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}
			token := header[len(bearerPrefix):]

			email, err := codec.ExtractEmail(token)
			if err == nil && email == "" {
				err = echo.ErrUnauthorized // missing subject, treat as undecodable
			}
			var role string
			if err == nil {
				role, err = codec.ExtractRole(token)
			}
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("decode").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				return next(c)
			}

			// Bind at most once per request; a second gate pass is a no-op.
			if c.Get(ContextEmail) == nil {
				if codec.ValidateFor(token, email) {
					c.Set(ContextEmail, email)
					c.Set(ContextRole, role)
					if id, idErr := codec.ExtractID(token); idErr == nil {
						c.Set(ContextPrincipalID, id)
					}
				} else {
					metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
					log.Debug().Str("path", c.Path()).Msg("bearer token expired or subject mismatch")
				}
			}

			return next(c)
		}
	}
}
