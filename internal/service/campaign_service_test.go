package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dealdesk/internal/client/lemlist"
	"dealdesk/internal/models"
)

func lemlistStub(t *testing.T) (*lemlist.Client, *[]string) {
	t.Helper()
	var leads []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/campaigns":
			_ = json.NewEncoder(w).Encode(map[string]string{"_id": "cmp_123", "name": "test"})
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/campaigns/cmp_123/leads/"):
			leads = append(leads, strings.TrimPrefix(r.URL.Path, "/api/campaigns/cmp_123/leads/"))
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return lemlist.NewClient(srv.URL, "test-key", 5*time.Second), &leads
}

func TestCampaignSend_EnrollsActiveLPs(t *testing.T) {
	repo := newStubRepo()
	gp := seedLP(repo, models.PartnerTypeGeneral)
	_ = repo.CreateLimitedPartner(context.Background(), &models.LimitedPartner{
		Name: "Inactive", Email: "inactive@example.com", PartnerType: models.PartnerTypeLimited, Active: false,
	})
	client, leads := lemlistStub(t)
	svc := &CampaignService{Repo: repo, Lemlist: client}
	ctx := context.Background()

	item, err := svc.CreateUpdate(ctx, gp, CreateUpdateInput{Title: "June Update", Subject: "Portfolio news", Body: "hello"})
	if err != nil {
		t.Fatalf("create err=%v", err)
	}
	if item.Status != models.MonthlyUpdateStatusDraft {
		t.Fatalf("status=%s want draft", item.Status)
	}

	sent, err := svc.Send(ctx, gp, item.ID)
	if err != nil {
		t.Fatalf("send err=%v", err)
	}
	if sent.Status != models.MonthlyUpdateStatusSent {
		t.Fatalf("status=%s want sent", sent.Status)
	}
	if sent.CampaignID == nil || *sent.CampaignID != "cmp_123" {
		t.Fatalf("campaign_id=%v", sent.CampaignID)
	}
	if sent.SentAt == nil {
		t.Fatalf("sent_at not stamped")
	}
	if len(*leads) != 1 || (*leads)[0] != "partner@example.com" {
		t.Fatalf("leads=%v want only the active LP", *leads)
	}

	// A sent update cannot be re-sent.
	if _, err := svc.Send(ctx, gp, item.ID); err == nil {
		t.Fatalf("re-send accepted")
	}
}

func TestCampaignSend_Guards(t *testing.T) {
	repo := newStubRepo()
	gp := seedLP(repo, models.PartnerTypeGeneral)
	lp := seedLP(repo, models.PartnerTypeLimited)
	client, _ := lemlistStub(t)
	ctx := context.Background()

	disabled := &CampaignService{Repo: repo}
	item, _ := disabled.CreateUpdate(ctx, gp, CreateUpdateInput{Title: "t", Subject: "s"})
	if _, err := disabled.Send(ctx, gp, item.ID); err != ErrCampaignsDisabled {
		t.Fatalf("err=%v want ErrCampaignsDisabled", err)
	}

	svc := &CampaignService{Repo: repo, Lemlist: client}
	if _, err := svc.Send(ctx, lp, item.ID); err != ErrForbidden {
		t.Fatalf("err=%v want ErrForbidden", err)
	}
	if _, err := svc.Send(ctx, gp, 999); err != ErrNotFound {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
	if _, err := svc.CreateUpdate(ctx, gp, CreateUpdateInput{Subject: "s"}); err == nil {
		t.Fatalf("empty title accepted")
	}
}
