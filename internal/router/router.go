package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"            // the Echo web framework handles routing
	echomw "github.com/labstack/echo/v4/middleware" // stock middleware: body limit, CORS, recover, static

	"github.com/iliyamo/realtime-chat/internal/config"
	"github.com/iliyamo/realtime-chat/internal/handler"
)

// Register wires every route and middleware onto the Echo instance.
//
// Layout mirrors the REST surface:
//
//	POST /api/auth/signup            open
//	POST /api/auth/login             open
//	POST /api/auth/logout            open (clearing a cookie needs no session)
//	PUT  /api/auth/update-profile    session guard
//	GET  /api/auth/check             session guard
//	GET  /api/messages/contacts      session guard + rate limit
//	GET  /api/messages/chats         session guard + rate limit
//	GET  /api/messages/:id           session guard + rate limit
//	POST /api/messages/send/:id      session guard + rate limit
//	GET  /healthz                    open
func Register(e *echo.Echo, cfg config.Config, auth *handler.AuthHandler, msg *handler.MessageHandler,
	guard echo.MiddlewareFunc, limiter echo.MiddlewareFunc) {

	e.Use(echomw.Recover())
	// Image payloads arrive base64-encoded in JSON bodies, hence the
	// generous ceiling (default 10M, see BODY_LIMIT).
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	// The browser client sends the session cookie cross-origin, so CORS is
	// pinned to the configured SPA origin with credentials enabled.
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowCredentials: true,
	}))

	e.GET("/healthz", handler.Health)

	a := e.Group("/api/auth")
	a.POST("/signup", auth.Signup)
	a.POST("/login", auth.Login)
	a.POST("/logout", auth.Logout)
	a.PUT("/update-profile", auth.UpdateProfile, guard)
	a.GET("/check", auth.Check, guard)

	m := e.Group("/api/messages", guard, limiter)
	m.GET("/contacts", msg.GetContacts)
	m.GET("/chats", msg.GetChatPartners)
	m.GET("/:id", msg.GetMessages)
	m.POST("/send/:id", msg.SendMessage)

	// In production the compiled SPA is served from the same binary; any
	// unknown path falls back to index.html for client-side routing.
	if cfg.Env == "prod" {
		e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
			Root:  "web/dist",
			HTML5: true,
		}))
	}
}
