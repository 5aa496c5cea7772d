package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/repository"
)

type LPHandler struct {
	Repo repository.Repository
}

func (h *LPHandler) Register(g *gin.RouterGroup) {
	g.GET("/lps", h.list)
	g.GET("/lps/:id", h.get)
}

// @Summary List limited partners
// @Tags lps
// @Produce json
// @Param partner_type query string false "partner type filter"
// @Param active query bool false "active filter"
// @Success 200 {object} map[string]any
// @Router /api/lps [get]
func (h *LPHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)
	params := repository.ListLimitedPartnersParams{
		Limit:       limit,
		Offset:      offset,
		PartnerType: strQueryPtr(c, "partner_type"),
		Active:      boolQueryPtr(c, "active"),
	}
	items, err := h.Repo.ListLimitedPartners(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountLimitedPartners(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Limited partner detail
// @Tags lps
// @Produce json
// @Param id path int true "lp id"
// @Success 200 {object} map[string]any
// @Router /api/lps/{id} [get]
func (h *LPHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	lp, err := h.Repo.GetLimitedPartnerByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if lp == nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return
	}
	Ok(c, lp, nil)
}
