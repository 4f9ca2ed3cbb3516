package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/realtime-chat/internal/model"
)

// MessageHandler bundles dependencies for the messaging endpoints. All of
// them run behind the session guard, so a caller is always present in the
// request context.
type MessageHandler struct {
	Users    UserStore
	Messages MessageStore
	Uploader Uploader
}

func NewMessageHandler(users UserStore, messages MessageStore, up Uploader) *MessageHandler {
	return &MessageHandler{Users: users, Messages: messages, Uploader: up}
}

type sendMessageReq struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// GetContacts returns every user except the caller. Unpaginated by design;
// the deployment target is small.
func (h *MessageHandler) GetContacts(c echo.Context) error {
	caller, ok := c.Get("user").(model.User)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized - No token provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListOthers(ctx, caller.ID)
	if err != nil {
		c.Logger().Errorf("get contacts: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Gotten all contacts successfully",
		"contacts": toUserViews(users),
	})
}

// GetChatPartners returns the distinct set of users the caller has
// exchanged at least one message with, resolved to sanitized records.
func (h *MessageHandler) GetChatPartners(c echo.Context) error {
	caller, ok := c.Get("user").(model.User)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized - No token provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ids, err := h.Messages.PartnerIDs(ctx, caller.ID)
	if err != nil {
		c.Logger().Errorf("get chat partners: scan messages: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	partners, err := h.Users.ListByIDs(ctx, ids)
	if err != nil {
		c.Logger().Errorf("get chat partners: resolve users: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Gotten all chat partners successfully",
		"chats":   toUserViews(partners),
	})
}

// GetMessages returns the full history between the caller and :id, oldest
// first. An unknown peer is a 404; an unparsable id resolves to no user and
// gets the same answer.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	caller, ok := c.Get("user").(model.User)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized - No token provided")
	}
	otherID, perr := strconv.ParseUint(c.Param("id"), 10, 64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if perr != nil {
		return fail(c, http.StatusNotFound, "Receiver not found")
	}
	exists, err := h.Users.Exists(ctx, otherID)
	if err != nil {
		c.Logger().Errorf("get messages: check receiver: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if !exists {
		return fail(c, http.StatusNotFound, "Receiver not found")
	}

	msgs, err := h.Messages.ListBetween(ctx, caller.ID, otherID)
	if err != nil {
		c.Logger().Errorf("get messages: list: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Gotten all messages successfully",
		"messages": toMessageViews(msgs),
	})
}

// SendMessage persists a new message to :id. Delivery is pull-only: the
// receiver sees it on their next history fetch.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	caller, ok := c.Get("user").(model.User)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized - No token provided")
	}

	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" && req.Image == "" {
		return fail(c, http.StatusBadRequest, "Message text or image is required")
	}

	receiverID, perr := strconv.ParseUint(c.Param("id"), 10, 64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if perr != nil {
		return fail(c, http.StatusNotFound, "Receiver not found")
	}
	exists, err := h.Users.Exists(ctx, receiverID)
	if err != nil {
		c.Logger().Errorf("send message: check receiver: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if !exists {
		return fail(c, http.StatusNotFound, "Receiver not found")
	}
	if caller.ID == receiverID {
		return fail(c, http.StatusBadRequest, "Cannot send message to yourself")
	}

	imageURL := ""
	if req.Image != "" {
		imageURL, err = h.Uploader.Upload(ctx, req.Image)
		if err != nil {
			c.Logger().Errorf("send message: upload image: %v", err)
			return fail(c, http.StatusInternalServerError, "Internal server error")
		}
	}

	msg, err := h.Messages.Create(ctx, caller.ID, receiverID, req.Text, imageURL)
	if err != nil {
		c.Logger().Errorf("send message: persist: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Sent a new message successfully",
		"data":    toMessageView(msg),
	})
}
