package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dealdesk/internal/deal"
	"dealdesk/internal/repository"
	"dealdesk/internal/voting"
)

// SurveyReminderService periodically scans deals under partner review and
// logs how close each survey deadline is. Overdue surveys log at Warn so
// they surface in ops channels.
type SurveyReminderService struct {
	Repo        repository.Repository
	Logger      *zap.Logger
	OverdueOnly bool
}

func (s *SurveyReminderService) Run(ctx context.Context, interval time.Duration) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if interval <= 0 {
		interval = time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if err := s.RunOnce(ctx); err != nil && s.Logger != nil {
			s.Logger.Warn("survey reminder run failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (s *SurveyReminderService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	deals, err := s.Repo.ListDealsByStages(ctx, []string{string(deal.StagePartnerReview)})
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, d := range deals {
		if d.SurveyDeadline == nil {
			continue
		}
		overdue := voting.Overdue(*d.SurveyDeadline, now)
		if s.OverdueOnly && !overdue {
			continue
		}
		if s.Logger == nil {
			continue
		}
		fields := []zap.Field{
			zap.Uint64("deal_id", d.ID),
			zap.String("company", d.CompanyName),
			zap.String("urgency", voting.UrgencyLabel(*d.SurveyDeadline, now)),
		}
		if overdue {
			s.Logger.Warn("survey overdue", fields...)
		} else {
			s.Logger.Info("survey due", fields...)
		}
	}
	return nil
}
