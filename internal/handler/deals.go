package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	dealpkg "dealdesk/internal/deal"
	"dealdesk/internal/repository"
	"dealdesk/internal/service"
)

type DealHandler struct {
	Repo    repository.Repository
	Service *service.DealService
}

func (h *DealHandler) Register(g *gin.RouterGroup) {
	g.GET("/deals", h.list)
	g.POST("/deals", h.create)
	g.GET("/deals/:id", h.get)
	g.PATCH("/deals/:id", h.update)
	g.DELETE("/deals/:id", h.remove)
	g.POST("/deals/:id/founders", h.addFounder)
	g.PATCH("/deals/:id/founders/:founderID", h.updateFounder)
	g.DELETE("/deals/:id/founders/:founderID", h.removeFounder)
}

// @Summary List deals
// @Tags deals
// @Produce json
// @Param stage query string false "stage filter"
// @Param bucket query string false "bucket filter (sourcing|under_review|offer|invested)"
// @Param search query string false "company name / description search"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} map[string]any
// @Router /api/deals [get]
func (h *DealHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	var stages []string
	if stage := c.Query("stage"); stage != "" {
		parsed, err := dealpkg.ParseStage(stage)
		if err != nil {
			ServiceError(c, err)
			return
		}
		stages = []string{string(parsed)}
	} else if bucket := c.Query("bucket"); bucket != "" {
		grouped := dealpkg.BucketStages(dealpkg.Bucket(bucket))
		if grouped == nil {
			Error(c, http.StatusBadRequest, "unknown bucket", nil)
			return
		}
		for _, s := range grouped {
			stages = append(stages, string(s))
		}
	}

	params := repository.ListDealsParams{
		Limit:    limit,
		Offset:   offset,
		Stages:   stages,
		Industry: strQueryPtr(c, "industry"),
		Search:   strQueryPtr(c, "search"),
		OrderBy:  "created_at",
		Asc:      boolPtr(false),
	}
	items, err := h.Repo.ListDeals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountDeals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Create a deal
// @Tags deals
// @Accept json
// @Produce json
// @Param body body service.CreateDealInput true "deal"
// @Success 200 {object} map[string]any
// @Router /api/deals [post]
func (h *DealHandler) create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input service.CreateDealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.Create(c.Request.Context(), actor, input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Deal detail with votes, founders, links, and summary
// @Tags deals
// @Produce json
// @Param id path int true "deal id"
// @Success 200 {object} map[string]any
// @Router /api/deals/{id} [get]
func (h *DealHandler) get(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	proj, err := h.Service.GetProjection(c.Request.Context(), id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, proj, nil)
}

// @Summary Merge-patch a deal
// @Tags deals
// @Accept json
// @Produce json
// @Param id path int true "deal id"
// @Success 200 {object} map[string]any
// @Router /api/deals/{id} [patch]
func (h *DealHandler) update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.Update(c.Request.Context(), actor, id, patch)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Delete a deal and everything it owns
// @Tags deals
// @Produce json
// @Param id path int true "deal id"
// @Success 200 {object} map[string]any
// @Router /api/deals/{id} [delete]
func (h *DealHandler) remove(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Service.Delete(c.Request.Context(), actor, id); err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, map[string]any{"id": id, "deleted": true}, nil)
}

func (h *DealHandler) addFounder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var input service.FounderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.AddFounder(c.Request.Context(), actor, id, input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *DealHandler) updateFounder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	founderID := uint64Param(c, "founderID")
	if id == 0 || founderID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var input service.FounderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.UpdateFounder(c.Request.Context(), actor, id, founderID, input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *DealHandler) removeFounder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	founderID := uint64Param(c, "founderID")
	if id == 0 || founderID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Service.RemoveFounder(c.Request.Context(), actor, id, founderID); err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, map[string]any{"id": founderID, "deleted": true}, nil)
}
