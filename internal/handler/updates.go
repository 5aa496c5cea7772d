package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/repository"
	"dealdesk/internal/service"
)

type UpdateHandler struct {
	Repo    repository.Repository
	Service *service.CampaignService
}

func (h *UpdateHandler) Register(g *gin.RouterGroup) {
	g.GET("/updates", h.list)
	g.POST("/updates", h.create)
	g.GET("/updates/:id", h.get)
	g.POST("/updates/:id/send", h.send)
}

// @Summary List monthly updates
// @Tags updates
// @Produce json
// @Param status query string false "status filter (draft|sent)"
// @Success 200 {object} map[string]any
// @Router /api/updates [get]
func (h *UpdateHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListMonthlyUpdates(c.Request.Context(), repository.ListMonthlyUpdatesParams{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
		Status: strQueryPtr(c, "status"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *UpdateHandler) create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input service.CreateUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.CreateUpdate(c.Request.Context(), actor, input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *UpdateHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetMonthlyUpdateByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Send a monthly update as a Lemlist campaign
// @Tags updates
// @Produce json
// @Param id path int true "update id"
// @Success 200 {object} map[string]any
// @Router /api/updates/{id}/send [post]
func (h *UpdateHandler) send(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Service.Send(c.Request.Context(), actor, id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
