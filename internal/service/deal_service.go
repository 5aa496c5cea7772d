package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dealdesk/internal/auth"
	"dealdesk/internal/cache"
	"dealdesk/internal/deal"
	"dealdesk/internal/models"
	"dealdesk/internal/repository"
	"dealdesk/internal/voting"
)

type DealService struct {
	Repo       repository.Repository
	Cache      *cache.RedisStore
	Logger     *zap.Logger
	SummaryTTL time.Duration
}

type CreateDealInput struct {
	CompanyName     string           `json:"company_name"`
	Description     string           `json:"description"`
	Industry        string           `json:"industry"`
	Round           string           `json:"round"`
	DealSize        decimal.Decimal  `json:"deal_size"`
	Valuation       *decimal.Decimal `json:"valuation"`
	RaisingAmount   *decimal.Decimal `json:"raising_amount"`
	ConfirmedAmount decimal.Decimal  `json:"confirmed_amount"`
	WebsiteURL      *string          `json:"website_url"`
	PitchDeckURL    *string          `json:"pitch_deck_url"`
	DemoURL         *string          `json:"demo_url"`
	SurveyDeadline  *string          `json:"survey_deadline"`
}

func (s *DealService) Create(ctx context.Context, actor auth.ActingUser, input CreateDealInput) (*models.Deal, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	if !actor.CanEditDeals() {
		return nil, ErrForbidden
	}
	if input.CompanyName == "" {
		return nil, validationErr("company_name", "must not be empty")
	}
	if input.DealSize.IsNegative() {
		return nil, validationErr("deal_size", "must be >= 0")
	}
	if input.ConfirmedAmount.IsNegative() {
		return nil, validationErr("confirmed_amount", "must be >= 0")
	}
	item := &models.Deal{
		CompanyName:     input.CompanyName,
		Description:     input.Description,
		Industry:        input.Industry,
		Round:           input.Round,
		DealSize:        input.DealSize,
		Valuation:       input.Valuation,
		RaisingAmount:   input.RaisingAmount,
		ConfirmedAmount: input.ConfirmedAmount,
		WebsiteURL:      input.WebsiteURL,
		PitchDeckURL:    input.PitchDeckURL,
		DemoURL:         input.DemoURL,
		Stage:           string(deal.InitialStage),
	}
	if input.SurveyDeadline != nil {
		t, err := parseDate(*input.SurveyDeadline)
		if err != nil {
			return nil, validationErr("survey_deadline", "expected YYYY-MM-DD")
		}
		item.SurveyDeadline = &t
	}
	if err := s.Repo.CreateDeal(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// fieldApplier mutates one deal field from its raw merge-patch value. The
// patch protocol: an explicit JSON null clears a nullable field, an omitted
// key leaves the field untouched. Enumerated per field so the dispatch stays
// statically checkable; stage is handled separately by Update.
type fieldApplier func(d *models.Deal, raw json.RawMessage) error

var dealFieldAppliers = map[string]fieldApplier{
	"company_name": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeString(raw)
		if err != nil || v == "" {
			return validationErr("company_name", "must be a non-empty string")
		}
		d.CompanyName = v
		return nil
	},
	"description": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeString(raw)
		if err != nil {
			return validationErr("description", "must be a string")
		}
		d.Description = v
		return nil
	},
	"industry": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeString(raw)
		if err != nil {
			return validationErr("industry", "must be a string")
		}
		d.Industry = v
		return nil
	},
	"round": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeString(raw)
		if err != nil {
			return validationErr("round", "must be a string")
		}
		d.Round = v
		return nil
	},
	"deal_size": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeDecimal(raw)
		if err != nil {
			return validationErr("deal_size", "must be a number")
		}
		if v.IsNegative() {
			return validationErr("deal_size", "must be >= 0")
		}
		d.DealSize = v
		return nil
	},
	"confirmed_amount": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeDecimal(raw)
		if err != nil {
			return validationErr("confirmed_amount", "must be a number")
		}
		if v.IsNegative() {
			return validationErr("confirmed_amount", "must be >= 0")
		}
		d.ConfirmedAmount = v
		return nil
	},
	"valuation": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeDecimalPtr(raw)
		if err != nil {
			return validationErr("valuation", "must be a number or null")
		}
		d.Valuation = v
		return nil
	},
	"raising_amount": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeDecimalPtr(raw)
		if err != nil {
			return validationErr("raising_amount", "must be a number or null")
		}
		d.RaisingAmount = v
		return nil
	},
	"website_url": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeStringPtr(raw)
		if err != nil {
			return validationErr("website_url", "must be a string or null")
		}
		d.WebsiteURL = v
		return nil
	},
	"pitch_deck_url": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeStringPtr(raw)
		if err != nil {
			return validationErr("pitch_deck_url", "must be a string or null")
		}
		d.PitchDeckURL = v
		return nil
	},
	"demo_url": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeStringPtr(raw)
		if err != nil {
			return validationErr("demo_url", "must be a string or null")
		}
		d.DemoURL = v
		return nil
	},
	"contract_url": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeStringPtr(raw)
		if err != nil {
			return validationErr("contract_url", "must be a string or null")
		}
		d.ContractURL = v
		return nil
	},
	"survey_deadline": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeDatePtr(raw)
		if err != nil {
			return validationErr("survey_deadline", "expected YYYY-MM-DD or null")
		}
		d.SurveyDeadline = v
		return nil
	},
	"close_date": func(d *models.Deal, raw json.RawMessage) error {
		v, err := decodeDatePtr(raw)
		if err != nil {
			return validationErr("close_date", "expected YYYY-MM-DD or null")
		}
		d.CloseDate = v
		return nil
	},
}

// Update applies a merge patch to a deal. Stage changes go through the
// pipeline enum and stamp stage-entry timestamps idempotently.
func (s *DealService) Update(ctx context.Context, actor auth.ActingUser, id uint64, patch map[string]json.RawMessage) (*models.Deal, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	if !actor.CanEditDeals() {
		return nil, ErrForbidden
	}
	item, err := s.Repo.GetDealByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	for field, raw := range patch {
		if field == "stage" {
			v, err := decodeString(raw)
			if err != nil {
				return nil, validationErr("stage", "must be a string")
			}
			next, err := deal.ParseStage(v)
			if err != nil {
				return nil, err
			}
			deal.StampTransition(item, next, time.Now().UTC())
			continue
		}
		applier, ok := dealFieldAppliers[field]
		if !ok {
			return nil, validationErr(field, "unknown field")
		}
		if err := applier(item, raw); err != nil {
			return nil, err
		}
	}
	if err := s.Repo.SaveDeal(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, id)
	return item, nil
}

// Delete cascades to founders, votes, and links in one transaction.
func (s *DealService) Delete(ctx context.Context, actor auth.ActingUser, id uint64) error {
	if s == nil || s.Repo == nil {
		return ErrNotFound
	}
	if !actor.CanEditDeals() {
		return ErrForbidden
	}
	item, err := s.Repo.GetDealByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	if err := s.Repo.DeleteDealCascade(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx, id)
	return nil
}

// VoteView pairs a vote with its display label.
type VoteView struct {
	models.Vote
	Label  string `json:"label"`
	LPName string `json:"lp_name,omitempty"`
}

// DealProjection is the deal-with-votes read model the board and detail
// views consume. The summary is recomputed (or cache-read) on every load.
type DealProjection struct {
	Deal       models.Deal       `json:"deal"`
	StageLabel string            `json:"stage_label"`
	Founders   []models.Founder  `json:"founders"`
	Votes      []VoteView        `json:"votes"`
	Links      []models.DealLink `json:"links"`
	Summary    voting.Summary    `json:"summary"`

	// CloseDate display fallback for invested deals without one recorded.
	EffectiveCloseDate *time.Time `json:"effective_close_date,omitempty"`
	Urgency            *string    `json:"urgency,omitempty"`
}

func (s *DealService) GetProjection(ctx context.Context, id uint64) (*DealProjection, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	item, err := s.Repo.GetDealByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	founders, err := s.Repo.ListFoundersByDealID(ctx, id)
	if err != nil {
		return nil, err
	}
	votes, err := s.Repo.ListVotesByDealID(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.Repo.ListDealLinksByDealID(ctx, id)
	if err != nil {
		return nil, err
	}

	lpNames := map[uint64]string{}
	lps, err := s.Repo.ListLimitedPartners(ctx, repository.ListLimitedPartnersParams{})
	if err == nil {
		for _, lp := range lps {
			lpNames[lp.ID] = lp.Name
		}
	}

	proj := &DealProjection{
		Deal:       *item,
		StageLabel: deal.Stage(item.Stage).Label(),
		Founders:   founders,
		Links:      links,
		Summary:    s.Summary(ctx, id, votes),
	}
	proj.Votes = make([]VoteView, 0, len(votes))
	for _, v := range votes {
		proj.Votes = append(proj.Votes, VoteView{
			Vote:   v,
			Label:  voting.ConvictionLabel(v),
			LPName: lpNames[v.LPID],
		})
	}
	if deal.Stage(item.Stage).Invested() {
		t := deal.EffectiveCloseDate(*item)
		proj.EffectiveCloseDate = &t
	}
	if item.SurveyDeadline != nil {
		label := voting.UrgencyLabel(*item.SurveyDeadline, time.Now().UTC())
		proj.Urgency = &label
	}
	return proj, nil
}

// Summary returns the aggregation for one deal's votes, reading through the
// optional redis cache. The cache key is invalidated on every vote or deal
// write, so a stale read is bounded by the TTL even if an invalidation is lost.
func (s *DealService) Summary(ctx context.Context, dealID uint64, votes []models.Vote) voting.Summary {
	key := cache.DealSummaryKey(dealID)
	if b, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
		var cached voting.Summary
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached
		}
	}
	summary := voting.Aggregate(votes)
	if b, err := json.Marshal(summary); err == nil {
		ttl := s.SummaryTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		if err := s.Cache.Set(ctx, key, b, ttl); err != nil && s.Logger != nil {
			s.Logger.Warn("summary cache write failed", zap.Uint64("deal_id", dealID), zap.Error(err))
		}
	}
	return summary
}

func (s *DealService) invalidateSummary(ctx context.Context, dealID uint64) {
	if err := s.Cache.Delete(ctx, cache.DealSummaryKey(dealID)); err != nil && s.Logger != nil {
		s.Logger.Warn("summary cache invalidation failed", zap.Uint64("deal_id", dealID), zap.Error(err))
	}
}

// --- Founders ---------------------------------------------------------------

type FounderInput struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Email       *string `json:"email"`
	LinkedInURL *string `json:"linkedin_url"`
	Bio         string  `json:"bio"`
}

func (s *DealService) AddFounder(ctx context.Context, actor auth.ActingUser, dealID uint64, input FounderInput) (*models.Founder, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	if !actor.CanEditDeals() {
		return nil, ErrForbidden
	}
	if input.Name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	d, err := s.Repo.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	item := &models.Founder{
		DealID:      dealID,
		Name:        input.Name,
		Title:       input.Title,
		Email:       input.Email,
		LinkedInURL: input.LinkedInURL,
		Bio:         input.Bio,
	}
	if err := s.Repo.CreateFounder(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *DealService) UpdateFounder(ctx context.Context, actor auth.ActingUser, dealID, founderID uint64, input FounderInput) (*models.Founder, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	if !actor.CanEditDeals() {
		return nil, ErrForbidden
	}
	if input.Name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	f, err := s.Repo.GetFounderByID(ctx, founderID)
	if err != nil {
		return nil, err
	}
	if f == nil || f.DealID != dealID {
		return nil, ErrNotFound
	}
	f.Name = input.Name
	f.Title = input.Title
	f.Email = input.Email
	f.LinkedInURL = input.LinkedInURL
	f.Bio = input.Bio
	if err := s.Repo.UpdateFounder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *DealService) RemoveFounder(ctx context.Context, actor auth.ActingUser, dealID, founderID uint64) error {
	if s == nil || s.Repo == nil {
		return ErrNotFound
	}
	if !actor.CanEditDeals() {
		return ErrForbidden
	}
	f, err := s.Repo.GetFounderByID(ctx, founderID)
	if err != nil {
		return err
	}
	if f == nil || f.DealID != dealID {
		return ErrNotFound
	}
	return s.Repo.DeleteFounder(ctx, founderID)
}

// --- decode helpers ---------------------------------------------------------

func decodeString(raw json.RawMessage) (string, error) {
	var v string
	err := json.Unmarshal(raw, &v)
	return v, err
}

func decodeStringPtr(raw json.RawMessage) (*string, error) {
	var v *string
	err := json.Unmarshal(raw, &v)
	return v, err
}

func decodeDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := json.Unmarshal(raw, &v)
	return v, err
}

func decodeDecimalPtr(raw json.RawMessage) (*decimal.Decimal, error) {
	var v *decimal.Decimal
	err := json.Unmarshal(raw, &v)
	return v, err
}

func decodeDatePtr(raw json.RawMessage) (*time.Time, error) {
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	t, err := parseDate(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}
