package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/repository"
	"dealdesk/internal/service"
	"dealdesk/internal/voting"
)

type VoteHandler struct {
	Repo    repository.Repository
	Service *service.VoteService
}

func (h *VoteHandler) Register(g *gin.RouterGroup) {
	g.POST("/votes", h.submit)
	g.GET("/deals/:id/votes", h.listForDeal)
	g.GET("/deals/:id/votes/mine", h.mine)
}

type submitVoteResponse struct {
	Vote     any `json:"vote"`
	NextDeal any `json:"next_deal,omitempty"`
}

// @Summary Submit or overwrite the acting LP's vote on a deal
// @Tags votes
// @Accept json
// @Produce json
// @Param body body service.SubmitVoteInput true "vote"
// @Success 200 {object} map[string]any
// @Router /api/votes [post]
func (h *VoteHandler) submit(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input service.SubmitVoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	vote, err := h.Service.Submit(c.Request.Context(), actor, input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	// The voted set just changed, so the queue head is recomputed here.
	next, err := h.Service.NextDealToReview(c.Request.Context(), actor.LPID, input.DealID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	resp := submitVoteResponse{Vote: vote}
	if next != nil {
		resp.NextDeal = next
	}
	Ok(c, resp, nil)
}

// @Summary The acting LP's own vote and links on a deal
// @Tags votes
// @Produce json
// @Param id path int true "deal id"
// @Success 200 {object} map[string]any
// @Router /api/deals/{id}/votes/mine [get]
func (h *VoteHandler) mine(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	mine, err := h.Service.GetMyVote(c.Request.Context(), actor, id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, mine, nil)
}

// @Summary List a deal's votes with display labels
// @Tags votes
// @Produce json
// @Param id path int true "deal id"
// @Success 200 {object} map[string]any
// @Router /api/deals/{id}/votes [get]
func (h *VoteHandler) listForDeal(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	votes, err := h.Repo.ListVotesByDealID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]service.VoteView, 0, len(votes))
	for _, v := range votes {
		out = append(out, service.VoteView{Vote: v, Label: voting.ConvictionLabel(v)})
	}
	Ok(c, map[string]any{
		"votes":   out,
		"summary": voting.Aggregate(votes),
	}, nil)
}
