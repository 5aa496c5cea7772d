package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"dealdesk/internal/models"
	"dealdesk/internal/repository"
)

// stubRepo is an in-memory Repository for service tests. Upsert and cascade
// semantics mirror the gorm store.
type stubRepo struct {
	deals    map[uint64]*models.Deal
	founders map[uint64]*models.Founder
	votes    map[uint64]*models.Vote
	links    map[uint64]*models.DealLink
	lps      map[uint64]*models.LimitedPartner
	channels map[uint64]*models.Channel
	messages map[uint64]*models.Message
	updates  map[uint64]*models.MonthlyUpdate

	nextID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		deals:    map[uint64]*models.Deal{},
		founders: map[uint64]*models.Founder{},
		votes:    map[uint64]*models.Vote{},
		links:    map[uint64]*models.DealLink{},
		lps:      map[uint64]*models.LimitedPartner{},
		channels: map[uint64]*models.Channel{},
		messages: map[uint64]*models.Message{},
		updates:  map[uint64]*models.MonthlyUpdate{},
	}
}

func (r *stubRepo) id() uint64 {
	r.nextID++
	return r.nextID
}

// The stub has no rollback; callers validate before entering the transaction,
// which is exactly what the regression tests assert.
func (r *stubRepo) InTx(ctx context.Context, fn func(rr repository.Repository) error) error {
	return fn(r)
}

// Deals

func (r *stubRepo) CreateDeal(ctx context.Context, item *models.Deal) error {
	item.ID = r.id()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	cp := *item
	r.deals[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetDealByID(ctx context.Context, id uint64) (*models.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *stubRepo) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]models.Deal, error) {
	var out []models.Deal
	for _, d := range r.deals {
		if len(params.Stages) > 0 && !containsStr(params.Stages, d.Stage) {
			continue
		}
		if params.Industry != nil && d.Industry != *params.Industry {
			continue
		}
		if params.Search != nil && !strings.Contains(strings.ToLower(d.CompanyName), strings.ToLower(*params.Search)) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) CountDeals(ctx context.Context, params repository.ListDealsParams) (int64, error) {
	items, _ := r.ListDeals(ctx, params)
	return int64(len(items)), nil
}

func (r *stubRepo) SaveDeal(ctx context.Context, item *models.Deal) error {
	item.UpdatedAt = time.Now().UTC()
	cp := *item
	r.deals[item.ID] = &cp
	return nil
}

func (r *stubRepo) DeleteDealCascade(ctx context.Context, id uint64) error {
	delete(r.deals, id)
	for vid, v := range r.votes {
		if v.DealID == id {
			delete(r.votes, vid)
		}
	}
	for fid, f := range r.founders {
		if f.DealID == id {
			delete(r.founders, fid)
		}
	}
	for lid, l := range r.links {
		if l.DealID == id {
			delete(r.links, lid)
		}
	}
	return nil
}

func (r *stubRepo) ListDealsByStages(ctx context.Context, stages []string) ([]models.Deal, error) {
	return r.ListDeals(ctx, repository.ListDealsParams{Stages: stages})
}

func (r *stubRepo) ListLostDealsWithVotes(ctx context.Context) ([]models.Deal, error) {
	var out []models.Deal
	for _, d := range r.deals {
		if d.Stage != "closed_lost_passed" && d.Stage != "closed_lost_rejected" {
			continue
		}
		for _, v := range r.votes {
			if v.DealID == d.ID {
				out = append(out, *d)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) CountDealsByStage(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, d := range r.deals {
		out[d.Stage]++
	}
	return out, nil
}

// Founders

func (r *stubRepo) CreateFounder(ctx context.Context, item *models.Founder) error {
	item.ID = r.id()
	cp := *item
	r.founders[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetFounderByID(ctx context.Context, id uint64) (*models.Founder, error) {
	f, ok := r.founders[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *stubRepo) UpdateFounder(ctx context.Context, item *models.Founder) error {
	cp := *item
	r.founders[item.ID] = &cp
	return nil
}

func (r *stubRepo) DeleteFounder(ctx context.Context, id uint64) error {
	delete(r.founders, id)
	return nil
}

func (r *stubRepo) ListFoundersByDealID(ctx context.Context, dealID uint64) ([]models.Founder, error) {
	var out []models.Founder
	for _, f := range r.founders {
		if f.DealID == dealID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) CountFounders(ctx context.Context) (int64, error) {
	return int64(len(r.founders)), nil
}

// Votes

func (r *stubRepo) UpsertVote(ctx context.Context, item *models.Vote) error {
	for _, v := range r.votes {
		if v.DealID == item.DealID && v.LPID == item.LPID {
			item.ID = v.ID
			item.CreatedAt = v.CreatedAt
			item.UpdatedAt = time.Now().UTC()
			cp := *item
			r.votes[v.ID] = &cp
			return nil
		}
	}
	item.ID = r.id()
	item.CreatedAt = time.Now().UTC()
	cp := *item
	r.votes[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetVoteByDealAndLP(ctx context.Context, dealID, lpID uint64) (*models.Vote, error) {
	for _, v := range r.votes {
		if v.DealID == dealID && v.LPID == lpID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListVotesByDealID(ctx context.Context, dealID uint64) ([]models.Vote, error) {
	var out []models.Vote
	for _, v := range r.votes {
		if v.DealID == dealID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) ListVotesByDealIDs(ctx context.Context, dealIDs []uint64) (map[uint64][]models.Vote, error) {
	out := map[uint64][]models.Vote{}
	for _, id := range dealIDs {
		votes, _ := r.ListVotesByDealID(ctx, id)
		if len(votes) > 0 {
			out[id] = votes
		}
	}
	return out, nil
}

func (r *stubRepo) ListVotedDealIDsByLP(ctx context.Context, lpID uint64) ([]uint64, error) {
	var out []uint64
	for _, v := range r.votes {
		if v.LPID == lpID {
			out = append(out, v.DealID)
		}
	}
	return out, nil
}

func (r *stubRepo) CountVotes(ctx context.Context) (int64, error) {
	return int64(len(r.votes)), nil
}

// Deal links

func (r *stubRepo) ReplaceDealLinks(ctx context.Context, dealID, lpID uint64, links []models.DealLink) error {
	for id, l := range r.links {
		if l.DealID == dealID && l.LPID == lpID {
			delete(r.links, id)
		}
	}
	for i := range links {
		links[i].ID = r.id()
		links[i].DealID = dealID
		links[i].LPID = lpID
		cp := links[i]
		r.links[cp.ID] = &cp
	}
	return nil
}

func (r *stubRepo) ListDealLinksByDealID(ctx context.Context, dealID uint64) ([]models.DealLink, error) {
	var out []models.DealLink
	for _, l := range r.links {
		if l.DealID == dealID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) ListDealLinksByDealAndLP(ctx context.Context, dealID, lpID uint64) ([]models.DealLink, error) {
	var out []models.DealLink
	for _, l := range r.links {
		if l.DealID == dealID && l.LPID == lpID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Limited partners

func (r *stubRepo) CreateLimitedPartner(ctx context.Context, item *models.LimitedPartner) error {
	item.ID = r.id()
	cp := *item
	r.lps[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetLimitedPartnerByID(ctx context.Context, id uint64) (*models.LimitedPartner, error) {
	lp, ok := r.lps[id]
	if !ok {
		return nil, nil
	}
	cp := *lp
	return &cp, nil
}

func (r *stubRepo) GetLimitedPartnerByEmail(ctx context.Context, email string) (*models.LimitedPartner, error) {
	for _, lp := range r.lps {
		if strings.EqualFold(lp.Email, email) {
			cp := *lp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListLimitedPartners(ctx context.Context, params repository.ListLimitedPartnersParams) ([]models.LimitedPartner, error) {
	var out []models.LimitedPartner
	for _, lp := range r.lps {
		if params.PartnerType != nil && lp.PartnerType != *params.PartnerType {
			continue
		}
		if params.Active != nil && lp.Active != *params.Active {
			continue
		}
		out = append(out, *lp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) CountLimitedPartners(ctx context.Context, params repository.ListLimitedPartnersParams) (int64, error) {
	items, _ := r.ListLimitedPartners(ctx, params)
	return int64(len(items)), nil
}

// Chat

func (r *stubRepo) CreateChannel(ctx context.Context, item *models.Channel) error {
	item.ID = r.id()
	cp := *item
	r.channels[item.ID] = &cp
	return nil
}

func (r *stubRepo) ListChannels(ctx context.Context) ([]models.Channel, error) {
	var out []models.Channel
	for _, c := range r.channels {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) GetChannelByID(ctx context.Context, id uint64) (*models.Channel, error) {
	c, ok := r.channels[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *stubRepo) CreateMessage(ctx context.Context, item *models.Message) error {
	item.ID = r.id()
	item.CreatedAt = time.Now().UTC()
	cp := *item
	r.messages[item.ID] = &cp
	return nil
}

func (r *stubRepo) ListMessages(ctx context.Context, params repository.ListMessagesParams) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if m.ChannelID != params.ChannelID {
			continue
		}
		if m.ID <= params.AfterID {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

// Monthly updates

func (r *stubRepo) CreateMonthlyUpdate(ctx context.Context, item *models.MonthlyUpdate) error {
	item.ID = r.id()
	if item.Status == "" {
		item.Status = models.MonthlyUpdateStatusDraft
	}
	cp := *item
	r.updates[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetMonthlyUpdateByID(ctx context.Context, id uint64) (*models.MonthlyUpdate, error) {
	u, ok := r.updates[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *stubRepo) ListMonthlyUpdates(ctx context.Context, params repository.ListMonthlyUpdatesParams) ([]models.MonthlyUpdate, error) {
	var out []models.MonthlyUpdate
	for _, u := range r.updates {
		if params.Status != nil && u.Status != *params.Status {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) MarkMonthlyUpdateSent(ctx context.Context, id uint64, campaignID string, sentAt time.Time) error {
	u, ok := r.updates[id]
	if !ok {
		return nil
	}
	u.Status = models.MonthlyUpdateStatusSent
	u.CampaignID = &campaignID
	u.SentAt = &sentAt
	return nil
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
