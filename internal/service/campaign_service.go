package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"dealdesk/internal/auth"
	"dealdesk/internal/client/lemlist"
	"dealdesk/internal/models"
	"dealdesk/internal/repository"
)

// CampaignService pushes a monthly update out as a Lemlist campaign with
// every active LP enrolled as a lead. Lemlist being unconfigured is a setup
// error, not a validation error.
type CampaignService struct {
	Repo    repository.Repository
	Lemlist *lemlist.Client
	Logger  *zap.Logger
}

var ErrCampaignsDisabled = errors.New("lemlist is not configured")

type CreateUpdateInput struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (s *CampaignService) CreateUpdate(ctx context.Context, actor auth.ActingUser, input CreateUpdateInput) (*models.MonthlyUpdate, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	if !actor.CanEditDeals() {
		return nil, ErrForbidden
	}
	if input.Title == "" {
		return nil, validationErr("title", "must not be empty")
	}
	if input.Subject == "" {
		return nil, validationErr("subject", "must not be empty")
	}
	item := &models.MonthlyUpdate{
		Title:   input.Title,
		Subject: input.Subject,
		Body:    input.Body,
		Status:  models.MonthlyUpdateStatusDraft,
	}
	if err := s.Repo.CreateMonthlyUpdate(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CampaignService) Send(ctx context.Context, actor auth.ActingUser, updateID uint64) (*models.MonthlyUpdate, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	if !actor.CanEditDeals() {
		return nil, ErrForbidden
	}
	if s.Lemlist == nil {
		return nil, ErrCampaignsDisabled
	}
	item, err := s.Repo.GetMonthlyUpdateByID(ctx, updateID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if item.Status == models.MonthlyUpdateStatusSent {
		return nil, validationErr("status", "update already sent")
	}

	campaign, err := s.Lemlist.CreateCampaign(ctx, item.Title)
	if err != nil {
		return nil, err
	}

	active := true
	lps, err := s.Repo.ListLimitedPartners(ctx, repository.ListLimitedPartnersParams{Active: &active})
	if err != nil {
		return nil, err
	}
	enrolled := 0
	for _, lp := range lps {
		if lp.Email == "" {
			continue
		}
		err := s.Lemlist.AddLead(ctx, campaign.ID, lp.Email, map[string]string{
			"firstName": lp.Name,
			"subject":   item.Subject,
		})
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("lemlist lead enrollment failed",
					zap.String("email", lp.Email),
					zap.Error(err),
				)
			}
			continue
		}
		enrolled++
	}

	sentAt := time.Now().UTC()
	if err := s.Repo.MarkMonthlyUpdateSent(ctx, item.ID, campaign.ID, sentAt); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("monthly update sent",
			zap.Uint64("update_id", item.ID),
			zap.String("campaign_id", campaign.ID),
			zap.Int("leads", enrolled),
		)
	}
	item.Status = models.MonthlyUpdateStatusSent
	item.CampaignID = &campaign.ID
	item.SentAt = &sentAt
	return item, nil
}
