package handler

import (
	"github.com/gin-gonic/gin"

	"dealdesk/internal/service"
)

type SurveyHandler struct {
	Service *service.VoteService
}

func (h *SurveyHandler) Register(g *gin.RouterGroup) {
	g.GET("/surveys/pending", h.pending)
	g.GET("/surveys/next", h.next)
}

// @Summary The acting LP's review queue, most urgent first
// @Tags surveys
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/surveys/pending [get]
func (h *SurveyHandler) pending(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	items, err := h.Service.PendingReviews(c.Request.Context(), actor.LPID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, map[string]any{"total": len(items)})
}

// @Summary Next deal the acting LP should review
// @Tags surveys
// @Produce json
// @Param exclude_deal_id query int false "deal to skip (just voted on)"
// @Success 200 {object} map[string]any
// @Router /api/surveys/next [get]
func (h *SurveyHandler) next(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	next, err := h.Service.NextDealToReview(c.Request.Context(), actor.LPID, uint64Query(c, "exclude_deal_id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, next, nil)
}
