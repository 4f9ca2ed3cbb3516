package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/realtime-chat/internal/model"
	"github.com/iliyamo/realtime-chat/internal/utils"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "jwt"

// UserLoader is the slice of the user repository the guard needs. Keeping
// it an interface lets tests drive the middleware without a database.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SessionGuard returns an Echo middleware that authenticates every request
// on a protected route. The outcome is one of four terminal states:
//
//  1. cookie absent            -> 401 "Unauthorized - No token provided"
//  2. token fails verification -> 401 "Unauthorized - Invalid token"
//  3. user no longer exists    -> 404 "User not found"
//  4. authenticated            -> sanitized user stored under "user",
//     id under "user_id", and the next handler runs.
//
// A store failure during resolution is logged with full detail and reported
// to the client as a bare 500.
func SessionGuard(secret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Unauthorized - No token provided",
				})
			}

			userID, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Unauthorized - Invalid token",
				})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, userID)
			if err != nil {
				if err == sql.ErrNoRows {
					return c.JSON(http.StatusNotFound, echo.Map{
						"success": false,
						"message": "User not found",
					})
				}
				c.Logger().Errorf("session guard: load user %d: %v", userID, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"success": false,
					"message": "Internal server error",
				})
			}

			// Strip the secret before anything downstream can see it.
			u.PasswordHash = ""
			c.Set("user", u)
			c.Set("user_id", u.ID)
			return next(c)
		}
	}
}
