package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // sentinel errors from the store
	"log"          // fire-and-forget failures are logged, never surfaced
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls and cookie lifetimes

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/realtime-chat/internal/config"
	"github.com/iliyamo/realtime-chat/internal/middleware"
	"github.com/iliyamo/realtime-chat/internal/model"
	"github.com/iliyamo/realtime-chat/internal/queue"
	"github.com/iliyamo/realtime-chat/internal/repository"
	queue_publisher "github.com/iliyamo/realtime-chat/internal/service"
	"github.com/iliyamo/realtime-chat/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Uploader Uploader
	Events   queue_publisher.Publisher // nil disables the welcome notification
}

func NewAuthHandler(cfg config.Config, users UserStore, up Uploader, ev queue_publisher.Publisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Uploader: up, Events: ev}
}

// ----- DTOs -----

type signupReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type updateProfileReq struct {
	ProfilePic string `json:"profilePic"`
}

// Signup: validate input, create the user, set the session cookie and fire
// the welcome notification.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	// Emails are compared as exact strings: John@Example.com and
	// john@example.com are two different accounts. Only surrounding
	// whitespace is stripped.
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
	}
	if !validEmail(req.Email) {
		return fail(c, http.StatusBadRequest, "Invalid email format")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Friendly pre-check; the UNIQUE index on users.email is what actually
	// closes the signup race inside Create.
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return fail(c, http.StatusBadRequest, "Email already exists")
	} else if err != sql.ErrNoRows {
		c.Logger().Errorf("signup: lookup email: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	uid, err := h.Users.Create(ctx, req.FullName, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusBadRequest, "Email already exists")
		}
		c.Logger().Errorf("signup: create user: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		c.Logger().Errorf("signup: load created user: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	// Token is issued for the persisted record's id.
	if err := h.setSessionCookie(c, u.ID); err != nil {
		c.Logger().Errorf("signup: issue token: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	h.notifyRegistered(u)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Signed up user successfully",
		"user":    toUserView(u),
	})
}

// Login: verify credentials and start a session. Unknown email and wrong
// password produce the same response so neither can be probed apart.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusBadRequest, "Invalid credentials!")
		}
		c.Logger().Errorf("login: lookup email: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusBadRequest, "Invalid credentials!")
	}

	if err := h.setSessionCookie(c, u.ID); err != nil {
		c.Logger().Errorf("login: issue token: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged in user successfully",
		"user":    toUserView(u),
	})
}

// Logout clears the session cookie. There is no server-side session state,
// so logging out an already logged-out client is the same successful no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// UpdateProfile uploads a new avatar to the image host and stores the
// returned URL on the authenticated user.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	u, ok := c.Get("user").(model.User)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized - No token provided")
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	if strings.TrimSpace(req.ProfilePic) == "" {
		return fail(c, http.StatusBadRequest, "Profile pic is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	url, err := h.Uploader.Upload(ctx, req.ProfilePic)
	if err != nil {
		c.Logger().Errorf("update profile: upload image: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	updated, err := h.Users.UpdateProfilePic(ctx, u.ID, url)
	if err != nil {
		c.Logger().Errorf("update profile: persist url: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Updated profile successfully",
		"user":    toUserView(updated),
	})
}

// Check returns the authenticated user the session guard resolved.
func (h *AuthHandler) Check(c echo.Context) error {
	u, ok := c.Get("user").(model.User)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized - No token provided")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    toUserView(u),
	})
}

// ----- helpers -----

func (h *AuthHandler) setSessionCookie(c echo.Context, userID uint64) error {
	ttl := time.Duration(h.Cfg.TokenTTLDays) * 24 * time.Hour
	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, userID, ttl)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.Cfg.Env != "dev",
	})
	return nil
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // expire immediately
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.Cfg.Env != "dev",
	})
}

// notifyRegistered publishes the welcome event on a detached goroutine so
// the signup response is never delayed or failed by the broker.
func (h *AuthHandler) notifyRegistered(u model.User) {
	if h.Events == nil {
		return
	}
	ev := queue.UserRegisteredEvent{
		UserID:       u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		ClientURL:    h.Cfg.ClientOrigin,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Events.PublishUserRegistered(ctx, ev); err != nil {
			log.Printf("signup: welcome notification for user %d failed: %v", u.ID, err)
		}
	}()
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}
