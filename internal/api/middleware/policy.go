package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// Role requirement markers for policy rules.
const (
	// RequireNone marks a rule as public.
	RequireNone = ""
	// RequireAny accepts any authenticated identity, regardless of role.
	RequireAny = "*"
)

// Rule maps a request-path prefix to a role requirement. With Exact set, the
// path must match the prefix exactly.
type Rule struct {
	Prefix   string
	Exact    bool
	Requires string
}

// DefaultRules is the ordered authorization table; the first matching rule
// decides. The trailing catch-all means every route not explicitly public
// requires an authenticated identity.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/api/auth/register/", Requires: RequireNone},
		{Prefix: "/api/auth/login/", Requires: RequireNone},
		{Prefix: "/api/sweets", Exact: true, Requires: RequireNone}, // public listing only
		{Prefix: "/api/files/upload", Exact: true, Requires: RequireNone},
		{Prefix: "/uploads/", Requires: RequireNone},
		{Prefix: "/health", Requires: RequireNone},
		{Prefix: "/metrics", Exact: true, Requires: RequireNone},
		{Prefix: "/swagger/", Requires: RequireNone},
		{Prefix: "/api/admin/", Requires: domain.RoleAdmin},
		{Prefix: "/api/user/", Requires: domain.RoleUser},
		{Prefix: "/", Requires: RequireAny},
	}
}

// Policy enforces the rule table after the gate has run: 401 when a rule
// needs an identity and none is bound, 403 when the bound role does not
// satisfy it.
func Policy(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule, matched := match(rules, c.Request().URL.Path)
			if !matched || rule.Requires == RequireNone {
				return next(c)
			}

			role, _ := c.Get(ContextRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if rule.Requires != RequireAny && role != rule.Requires {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}

func match(rules []Rule, path string) (Rule, bool) {
	for _, r := range rules {
		if r.Exact {
			if path == r.Prefix {
				return r, true
			}
			continue
		}
		if strings.HasPrefix(path, r.Prefix) {
			return r, true
		}
	}
	return Rule{}, false
}
