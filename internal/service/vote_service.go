package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"dealdesk/internal/auth"
	"dealdesk/internal/cache"
	"dealdesk/internal/deal"
	"dealdesk/internal/models"
	"dealdesk/internal/repository"
	"dealdesk/internal/voting"
)

type VoteService struct {
	Repo   repository.Repository
	Cache  *cache.RedisStore
	Logger *zap.Logger
}

type DealLinkInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type SubmitVoteInput struct {
	DealID          uint64            `json:"deal_id"`
	ConvictionLevel *int              `json:"conviction_level"`
	ReviewStatus    *string           `json:"review_status"`
	StrongNo        bool              `json:"strong_no"`
	Comments        string            `json:"comments"`
	AdditionalNotes string            `json:"additional_notes"`
	FounderNotes    map[string]string `json:"founder_specific_notes"`

	// DealLinks, when present, fully replaces this LP's links for the deal.
	DealLinks []DealLinkInput `json:"deal_links"`
}

// Submit upserts the acting LP's vote on a deal. The (deal_id, lp_id) pair
// is unique; a resubmission overwrites every mutable field of the prior vote.
func (s *VoteService) Submit(ctx context.Context, actor auth.ActingUser, input SubmitVoteInput) (*models.Vote, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	if err := validateVoteInput(input); err != nil {
		return nil, err
	}
	lp, err := s.Repo.GetLimitedPartnerByID(ctx, actor.LPID)
	if err != nil {
		return nil, err
	}
	if lp == nil {
		return nil, validationErr("lp_id", "unknown limited partner")
	}
	d, err := s.Repo.GetDealByID(ctx, input.DealID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}

	item := &models.Vote{
		DealID:          input.DealID,
		LPID:            actor.LPID,
		ConvictionLevel: input.ConvictionLevel,
		ReviewStatus:    input.ReviewStatus,
		StrongNo:        input.StrongNo,
		Comments:        input.Comments,
		AdditionalNotes: input.AdditionalNotes,
	}
	if len(input.FounderNotes) > 0 {
		raw, err := json.Marshal(input.FounderNotes)
		if err != nil {
			return nil, validationErr("founder_specific_notes", "not serializable")
		}
		item.FounderNotes = datatypes.JSON(raw)
	}

	// Vote and links land together or not at all. Everything was validated
	// above, so a rejected submission never reaches this point.
	err = s.Repo.InTx(ctx, func(r repository.Repository) error {
		if err := r.UpsertVote(ctx, item); err != nil {
			return err
		}
		if input.DealLinks == nil {
			return nil
		}
		links := make([]models.DealLink, 0, len(input.DealLinks))
		for _, l := range input.DealLinks {
			links = append(links, models.DealLink{Title: l.Title, URL: l.URL})
		}
		return r.ReplaceDealLinks(ctx, input.DealID, actor.LPID, links)
	})
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Delete(ctx, cache.DealSummaryKey(input.DealID)); err != nil && s.Logger != nil {
		s.Logger.Warn("summary cache invalidation failed", zap.Uint64("deal_id", input.DealID), zap.Error(err))
	}

	// Reload: the upsert path does not report whether it inserted or updated.
	stored, err := s.Repo.GetVoteByDealAndLP(ctx, input.DealID, actor.LPID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return item, nil
	}
	return stored, nil
}

// MyVote pairs the acting LP's stored vote on a deal with their links, for
// prefilling the survey form. The vote is nil when the LP has not voted yet.
type MyVote struct {
	Vote  *models.Vote      `json:"vote"`
	Links []models.DealLink `json:"links"`
}

func (s *VoteService) GetMyVote(ctx context.Context, actor auth.ActingUser, dealID uint64) (*MyVote, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	d, err := s.Repo.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	vote, err := s.Repo.GetVoteByDealAndLP(ctx, dealID, actor.LPID)
	if err != nil {
		return nil, err
	}
	links, err := s.Repo.ListDealLinksByDealAndLP(ctx, dealID, actor.LPID)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []models.DealLink{}
	}
	return &MyVote{Vote: vote, Links: links}, nil
}

func validateVoteInput(input SubmitVoteInput) error {
	hasLevel := input.ConvictionLevel != nil
	hasStatus := input.ReviewStatus != nil
	if hasLevel == hasStatus {
		return validationErr("conviction_level", "exactly one of conviction_level and review_status is required")
	}
	if hasLevel && !voting.ValidConvictionLevel(*input.ConvictionLevel) {
		return validationErr("conviction_level", "must be 1..4")
	}
	if hasStatus && *input.ReviewStatus != voting.ReviewStatusToReview {
		return validationErr("review_status", "must be \"to_review\"")
	}
	for _, l := range input.DealLinks {
		if l.URL == "" {
			return validationErr("deal_links", "url must not be empty")
		}
	}
	return nil
}

// NextDealToReview returns the next partner_review deal the LP has not voted
// on, or nil when the queue is empty.
func (s *VoteService) NextDealToReview(ctx context.Context, lpID, excludeDealID uint64) (*models.Deal, error) {
	candidates, voted, err := s.reviewCandidates(ctx, lpID)
	if err != nil {
		return nil, err
	}
	return voting.NextDeal(candidates, voted, excludeDealID), nil
}

// PendingReview annotates a queued deal with its survey urgency.
type PendingReview struct {
	Deal     models.Deal `json:"deal"`
	DaysLeft *int        `json:"days_left,omitempty"`
	Urgency  *string     `json:"urgency,omitempty"`
}

// PendingReviews lists the LP's full review queue in selection order.
func (s *VoteService) PendingReviews(ctx context.Context, lpID uint64) ([]PendingReview, error) {
	candidates, voted, err := s.reviewCandidates(ctx, lpID)
	if err != nil {
		return nil, err
	}
	queue := voting.ReviewQueue(candidates, voted, 0)
	now := time.Now().UTC()
	out := make([]PendingReview, 0, len(queue))
	for _, d := range queue {
		item := PendingReview{Deal: d}
		if d.SurveyDeadline != nil {
			days := voting.DaysLeft(*d.SurveyDeadline, now)
			label := voting.UrgencyLabel(*d.SurveyDeadline, now)
			item.DaysLeft = &days
			item.Urgency = &label
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *VoteService) reviewCandidates(ctx context.Context, lpID uint64) ([]models.Deal, map[uint64]struct{}, error) {
	if s == nil || s.Repo == nil {
		return nil, nil, ErrNotFound
	}
	candidates, err := s.Repo.ListDealsByStages(ctx, []string{string(deal.StagePartnerReview)})
	if err != nil {
		return nil, nil, err
	}
	votedIDs, err := s.Repo.ListVotedDealIDsByLP(ctx, lpID)
	if err != nil {
		return nil, nil, err
	}
	voted := make(map[uint64]struct{}, len(votedIDs))
	for _, id := range votedIDs {
		voted[id] = struct{}{}
	}
	return candidates, voted, nil
}
