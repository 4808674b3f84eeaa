package handler

import (
	"fmt"
	"net/http"

	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/config"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if !h.bindJSON(c, &in) {
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var in auth.LoginInput
	if !h.bindJSON(c, &in) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.Auth.Me(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "telegram_linked": user.HasTelegram()})
}

type telegramLinkResponse struct {
	Code      string `json:"code"`
	ExpiresIn int    `json:"expires_in"`
	DeepLink  string `json:"deep_link,omitempty"`
}

// TelegramLink issues a one-time code for linking the notification bot.
func (h *Handler) TelegramLink(c *gin.Context) {
	code, err := h.Auth.TelegramLinkCode(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := telegramLinkResponse{Code: code, ExpiresIn: int(config.TelegramLinkTTL.Seconds())}
	if h.BotUsername != "" {
		resp.DeepLink = fmt.Sprintf("https://t.me/%s?start=%s", h.BotUsername, code)
	}
	c.JSON(http.StatusOK, resp)
}
