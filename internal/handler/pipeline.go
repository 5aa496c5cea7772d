package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dealpkg "dealdesk/internal/deal"
	"dealdesk/internal/models"
	"dealdesk/internal/repository"
	"dealdesk/internal/voting"
)

type PipelineHandler struct {
	Repo repository.Repository
}

func (h *PipelineHandler) Register(g *gin.RouterGroup) {
	g.GET("/pipeline/board", h.board)
	g.GET("/pipeline/passed", h.passed)
	g.GET("/pipeline/health", h.health)
}

type boardDeal struct {
	models.Deal
	StageLabel string         `json:"stage_label"`
	Summary    voting.Summary `json:"summary"`
}

type boardColumn struct {
	Bucket string      `json:"bucket"`
	Deals  []boardDeal `json:"deals"`
}

// @Summary Pipeline board grouped by reporting bucket
// @Tags pipeline
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/pipeline/board [get]
func (h *PipelineHandler) board(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	ctx := c.Request.Context()

	var live []string
	for _, b := range dealpkg.PipelineBuckets {
		for _, s := range dealpkg.BucketStages(b) {
			live = append(live, string(s))
		}
	}
	deals, err := h.Repo.ListDealsByStages(ctx, live)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	ids := make([]uint64, 0, len(deals))
	for _, d := range deals {
		ids = append(ids, d.ID)
	}
	votesByDeal, err := h.Repo.ListVotesByDealIDs(ctx, ids)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}

	byBucket := map[dealpkg.Bucket][]boardDeal{}
	for _, d := range deals {
		stage := dealpkg.Stage(d.Stage)
		byBucket[stage.Bucket()] = append(byBucket[stage.Bucket()], boardDeal{
			Deal:       d,
			StageLabel: stage.Label(),
			Summary:    voting.Aggregate(votesByDeal[d.ID]),
		})
	}
	columns := make([]boardColumn, 0, len(dealpkg.PipelineBuckets))
	for _, b := range dealpkg.PipelineBuckets {
		col := boardColumn{Bucket: string(b), Deals: byBucket[b]}
		if col.Deals == nil {
			col.Deals = []boardDeal{}
		}
		columns = append(columns, col)
	}
	Ok(c, columns, map[string]any{"total": len(deals)})
}

// @Summary Passed deals that still carry LP feedback
// @Tags pipeline
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/pipeline/passed [get]
func (h *PipelineHandler) passed(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	deals, err := h.Repo.ListLostDealsWithVotes(ctx)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	ids := make([]uint64, 0, len(deals))
	for _, d := range deals {
		ids = append(ids, d.ID)
	}
	votesByDeal, err := h.Repo.ListVotesByDealIDs(ctx, ids)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]boardDeal, 0, len(deals))
	for _, d := range deals {
		stage := dealpkg.Stage(d.Stage)
		out = append(out, boardDeal{
			Deal:       d,
			StageLabel: stage.Label(),
			Summary:    voting.Aggregate(votesByDeal[d.ID]),
		})
	}
	Ok(c, out, map[string]any{"total": len(out)})
}

// @Summary Pipeline counters
// @Tags pipeline
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/pipeline/health [get]
func (h *PipelineHandler) health(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	ctx := c.Request.Context()

	byStage, _ := h.Repo.CountDealsByStage(ctx)
	byBucket := map[string]int64{}
	var dealsTotal int64
	for stage, n := range byStage {
		dealsTotal += n
		byBucket[string(dealpkg.Stage(stage).Bucket())] += n
	}
	votesTotal, _ := h.Repo.CountVotes(ctx)
	foundersTotal, _ := h.Repo.CountFounders(ctx)
	lpsTotal, _ := h.Repo.CountLimitedPartners(ctx, repository.ListLimitedPartnersParams{})

	// Deferred (to_review) votes across the deals currently under review.
	var pendingReviews int
	if reviewing, err := h.Repo.ListDealsByStages(ctx, []string{string(dealpkg.StagePartnerReview)}); err == nil {
		ids := make([]uint64, 0, len(reviewing))
		for _, d := range reviewing {
			ids = append(ids, d.ID)
		}
		if votesByDeal, err := h.Repo.ListVotesByDealIDs(ctx, ids); err == nil {
			for _, votes := range votesByDeal {
				pendingReviews += voting.Aggregate(votes).PendingReviewCount
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"deals_total":     dealsTotal,
		"deals_by_stage":  byStage,
		"deals_by_bucket": byBucket,
		"votes_total":     votesTotal,
		"founders_total":  foundersTotal,
		"lps_total":       lpsTotal,
		"pending_reviews": pendingReviews,
	})
}
