package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/models"
	"dealdesk/internal/repository"
)

// ChatHandler is the thin append-only channel/message surface. Clients poll
// with after_id cursors; there is no push transport.
type ChatHandler struct {
	Repo repository.Repository
}

func (h *ChatHandler) Register(g *gin.RouterGroup) {
	g.GET("/channels", h.listChannels)
	g.POST("/channels", h.createChannel)
	g.GET("/channels/:id/messages", h.listMessages)
	g.POST("/channels/:id/messages", h.postMessage)
}

func (h *ChatHandler) listChannels(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListChannels(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

type createChannelRequest struct {
	Name string `json:"name"`
}

func (h *ChatHandler) createChannel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item := &models.Channel{
		Name:          strings.TrimSpace(req.Name),
		CreatedByLPID: actor.LPID,
	}
	if err := h.Repo.CreateChannel(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Poll a channel's messages
// @Tags chat
// @Produce json
// @Param id path int true "channel id"
// @Param after_id query int false "return only messages newer than this id"
// @Success 200 {object} map[string]any
// @Router /api/channels/{id}/messages [get]
func (h *ChatHandler) listMessages(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	items, err := h.Repo.ListMessages(c.Request.Context(), repository.ListMessagesParams{
		ChannelID: id,
		AfterID:   uint64Query(c, "after_id"),
		Limit:     intQuery(c, "limit", 100),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	var cursor uint64
	if len(items) > 0 {
		cursor = items[len(items)-1].ID
	}
	Ok(c, items, map[string]any{"cursor": cursor})
}

type postMessageRequest struct {
	Body string `json:"body"`
}

func (h *ChatHandler) postMessage(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	channel, err := h.Repo.GetChannelByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if channel == nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return
	}
	item := &models.Message{
		ChannelID: id,
		LPID:      actor.LPID,
		Body:      req.Body,
	}
	if err := h.Repo.CreateMessage(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}
