package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/vertramos/eco-reporte/internal/auth" // token decoding with signature verification
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject and role claims into the request context.  The
// provided secret must match the one used when issuing tokens.  This
// middleware should wrap protected routes so that handlers can access
// authenticated user information via `c.Get("user_id")` and `c.Get("role")`.
// Refresh tokens are rejected here even though they are signed with the
// same secret: the type claim keeps the two kinds apart.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header starts with
            // "Bearer " followed by the JWT.  If it doesn't, respond with
            // 401 Unauthorized indicating that authentication is required.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token de acceso requerido"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            // Decode verifies the HS256 signature and the expiry before any
            // claim is trusted.
            claims, err := auth.Decode(secret, raw)
            if err != nil {
                if err == auth.ErrTokenExpired {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token expirado"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token inválido"})
            }

            // A refresh token must never be accepted where an access token
            // is required.
            if claims.IsRefresh() {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token inválido"})
            }

            // Store the subject (user ID) and role claims in the context so
            // handlers and downstream middleware can access them via c.Get().
            c.Set("user_id", claims.UserID)
            c.Set("role", claims.Role)
            return next(c)
        }
    }
}

// CurrentUserID returns the authenticated user's id injected by JWTAuth,
// or zero when the request is unauthenticated.
func CurrentUserID(c echo.Context) uint64 {
    if v, ok := c.Get("user_id").(uint64); ok {
        return v
    }
    return 0
}
