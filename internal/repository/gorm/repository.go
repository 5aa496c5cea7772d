package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dealdesk/internal/models"
	"dealdesk/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn against a Store bound to the transaction, so repository calls
// made inside fn commit or roll back together.
func (s *Store) InTx(ctx context.Context, fn func(r repository.Repository) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// --- Deals ------------------------------------------------------------------

func (s *Store) CreateDeal(ctx context.Context, item *models.Deal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetDealByID(ctx context.Context, id uint64) (*models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Deal
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func applyDealFilters(query *gorm.DB, params repository.ListDealsParams) *gorm.DB {
	if len(params.Stages) > 0 {
		query = query.Where("stage IN ?", params.Stages)
	}
	if params.Industry != nil && strings.TrimSpace(*params.Industry) != "" {
		query = query.Where("industry = ?", strings.TrimSpace(*params.Industry))
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		needle := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("company_name ILIKE ? OR description ILIKE ?", needle, needle)
	}
	return query
}

func (s *Store) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyDealFilters(s.db.WithContext(ctx).Model(&models.Deal{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Deal
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountDeals(ctx context.Context, params repository.ListDealsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyDealFilters(s.db.WithContext(ctx).Model(&models.Deal{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) SaveDeal(ctx context.Context, item *models.Deal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

// DeleteDealCascade removes a deal and everything it owns in one
// transaction. No partial-cascade state is ever observable.
func (s *Store) DeleteDealCascade(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deal_id = ?", id).Delete(&models.Founder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deal_id = ?", id).Delete(&models.DealLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Deal{}, "id = ?", id).Error
	})
}

func (s *Store) ListDealsByStages(ctx context.Context, stages []string) ([]models.Deal, error) {
	if s == nil || s.db == nil || len(stages) == 0 {
		return nil, nil
	}
	var items []models.Deal
	if err := s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("stage IN ?", stages).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListLostDealsWithVotes(ctx context.Context) ([]models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Deal
	if err := s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("stage IN ?", []string{"closed_lost_passed", "closed_lost_rejected"}).
		Where("EXISTS (SELECT 1 FROM votes WHERE votes.deal_id = deals.id)").
		Order("updated_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountDealsByStage(ctx context.Context) (map[string]int64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	type row struct {
		Stage string
		Total int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Select("stage, count(*) as total").
		Group("stage").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Stage] = r.Total
	}
	return out, nil
}

// --- Founders ---------------------------------------------------------------

func (s *Store) CreateFounder(ctx context.Context, item *models.Founder) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetFounderByID(ctx context.Context, id uint64) (*models.Founder, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Founder
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateFounder(ctx context.Context, item *models.Founder) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteFounder(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Founder{}, "id = ?", id).Error
}

func (s *Store) ListFoundersByDealID(ctx context.Context, dealID uint64) ([]models.Founder, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Founder
	if err := s.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountFounders(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Founder{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- Votes ------------------------------------------------------------------

// UpsertVote enforces the (deal_id, lp_id) uniqueness atomically: a second
// submission from the same LP overwrites the first, last write wins.
func (s *Store) UpsertVote(ctx context.Context, item *models.Vote) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.UpdatedAt = time.Now().UTC()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "deal_id"}, {Name: "lp_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"conviction_level",
			"review_status",
			"strong_no",
			"comments",
			"additional_notes",
			"founder_notes",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetVoteByDealAndLP(ctx context.Context, dealID, lpID uint64) (*models.Vote, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Vote
	err := s.db.WithContext(ctx).
		First(&item, "deal_id = ? AND lp_id = ?", dealID, lpID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListVotesByDealID(ctx context.Context, dealID uint64) ([]models.Vote, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Vote
	if err := s.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListVotesByDealIDs(ctx context.Context, dealIDs []uint64) (map[uint64][]models.Vote, error) {
	if s == nil || s.db == nil || len(dealIDs) == 0 {
		return map[uint64][]models.Vote{}, nil
	}
	var items []models.Vote
	if err := s.db.WithContext(ctx).
		Where("deal_id IN ?", dealIDs).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[uint64][]models.Vote, len(dealIDs))
	for _, v := range items {
		out[v.DealID] = append(out[v.DealID], v)
	}
	return out, nil
}

func (s *Store) ListVotedDealIDsByLP(ctx context.Context, lpID uint64) ([]uint64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []uint64
	if err := s.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("lp_id = ?", lpID).
		Pluck("deal_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) CountVotes(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Vote{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- Deal links -------------------------------------------------------------

// ReplaceDealLinks swaps one LP's links for a deal in a single transaction:
// the caller always resubmits the full list.
func (s *Store) ReplaceDealLinks(ctx context.Context, dealID, lpID uint64, links []models.DealLink) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ? AND lp_id = ?", dealID, lpID).
			Delete(&models.DealLink{}).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].ID = 0
			links[i].DealID = dealID
			links[i].LPID = lpID
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

func (s *Store) ListDealLinksByDealID(ctx context.Context, dealID uint64) ([]models.DealLink, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.DealLink
	if err := s.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListDealLinksByDealAndLP(ctx context.Context, dealID, lpID uint64) ([]models.DealLink, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.DealLink
	if err := s.db.WithContext(ctx).
		Where("deal_id = ? AND lp_id = ?", dealID, lpID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Limited partners -------------------------------------------------------

func (s *Store) CreateLimitedPartner(ctx context.Context, item *models.LimitedPartner) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetLimitedPartnerByID(ctx context.Context, id uint64) (*models.LimitedPartner, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.LimitedPartner
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetLimitedPartnerByEmail(ctx context.Context, email string) (*models.LimitedPartner, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.LimitedPartner
	err := s.db.WithContext(ctx).
		First(&item, "lower(email) = lower(?)", strings.TrimSpace(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func applyLPFilters(query *gorm.DB, params repository.ListLimitedPartnersParams) *gorm.DB {
	if params.PartnerType != nil && strings.TrimSpace(*params.PartnerType) != "" {
		query = query.Where("partner_type = ?", strings.TrimSpace(*params.PartnerType))
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	return query
}

func (s *Store) ListLimitedPartners(ctx context.Context, params repository.ListLimitedPartnersParams) ([]models.LimitedPartner, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyLPFilters(s.db.WithContext(ctx).Model(&models.LimitedPartner{}), params)
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.LimitedPartner
	if err := query.Order("name asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountLimitedPartners(ctx context.Context, params repository.ListLimitedPartnersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyLPFilters(s.db.WithContext(ctx).Model(&models.LimitedPartner{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- Chat -------------------------------------------------------------------

func (s *Store) CreateChannel(ctx context.Context, item *models.Channel) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListChannels(ctx context.Context) ([]models.Channel, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Channel
	if err := s.db.WithContext(ctx).
		Model(&models.Channel{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetChannelByID(ctx context.Context, id uint64) (*models.Channel, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Channel
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateMessage(ctx context.Context, item *models.Message) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListMessages(ctx context.Context, params repository.ListMessagesParams) ([]models.Message, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("channel_id = ?", params.ChannelID)
	if params.AfterID > 0 {
		query = query.Where("id > ?", params.AfterID)
	}
	limit := normalizeLimit(params.Limit, 100)
	var items []models.Message
	if err := query.Order("id asc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Monthly updates --------------------------------------------------------

func (s *Store) CreateMonthlyUpdate(ctx context.Context, item *models.MonthlyUpdate) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetMonthlyUpdateByID(ctx context.Context, id uint64) (*models.MonthlyUpdate, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.MonthlyUpdate
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListMonthlyUpdates(ctx context.Context, params repository.ListMonthlyUpdatesParams) ([]models.MonthlyUpdate, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.MonthlyUpdate{})
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.MonthlyUpdate
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkMonthlyUpdateSent(ctx context.Context, id uint64, campaignID string, sentAt time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.MonthlyUpdate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      models.MonthlyUpdateStatusSent,
			"campaign_id": campaignID,
			"sent_at":     sentAt,
		}).Error
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
