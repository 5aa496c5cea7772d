package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dealdesk/internal/models"
)

func TestSurveyReminder_RunOnce(t *testing.T) {
	repo := newStubRepo()
	seedLP(repo, models.PartnerTypeGeneral)

	now := time.Now().UTC()
	overdue := now.Add(-48 * time.Hour)
	upcoming := now.Add(72 * time.Hour)
	seedDeal(repo, "overdue-co", "partner_review", &overdue)
	seedDeal(repo, "upcoming-co", "partner_review", &upcoming)
	seedDeal(repo, "no-deadline-co", "partner_review", nil)
	seedDeal(repo, "sourcing-co", "sourcing", &overdue)

	core, logs := observer.New(zapcore.InfoLevel)
	svc := &SurveyReminderService{Repo: repo, Logger: zap.New(core)}

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run err=%v", err)
	}

	warns := logs.FilterMessage("survey overdue").All()
	infos := logs.FilterMessage("survey due").All()
	if len(warns) != 1 {
		t.Fatalf("warns=%d want 1", len(warns))
	}
	if len(infos) != 1 {
		t.Fatalf("infos=%d want 1", len(infos))
	}
	if got := warns[0].ContextMap()["company"]; got != "overdue-co" {
		t.Fatalf("warn company=%v", got)
	}
}

func TestSurveyReminder_RunStopsOnCancel(t *testing.T) {
	repo := newStubRepo()
	now := time.Now().UTC()
	overdue := now.Add(-48 * time.Hour)
	seedDeal(repo, "overdue-co", "partner_review", &overdue)

	core, logs := observer.New(zapcore.InfoLevel)
	svc := &SurveyReminderService{Repo: repo, Logger: zap.New(core)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Run(ctx, time.Hour); err != context.Canceled {
		t.Fatalf("run err=%v want context.Canceled", err)
	}
	// The loop always scans once before waiting on the ticker.
	if len(logs.FilterMessage("survey overdue").All()) != 1 {
		t.Fatalf("expected one scan before shutdown")
	}
}

func TestSurveyReminder_OverdueOnly(t *testing.T) {
	repo := newStubRepo()
	now := time.Now().UTC()
	upcoming := now.Add(72 * time.Hour)
	seedDeal(repo, "upcoming-co", "partner_review", &upcoming)

	core, logs := observer.New(zapcore.InfoLevel)
	svc := &SurveyReminderService{Repo: repo, Logger: zap.New(core), OverdueOnly: true}

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run err=%v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("logs=%d want 0 with overdue_only", logs.Len())
	}
}
