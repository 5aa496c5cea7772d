package repository

import (
	"context"
	"time"

	"dealdesk/internal/models"
)

type ListDealsParams struct {
	Limit  int
	Offset int

	// Stages filters to an explicit stage set; empty means all.
	Stages   []string
	Industry *string
	Search   *string

	OrderBy string
	Asc     *bool
}

type ListLimitedPartnersParams struct {
	Limit       int
	Offset      int
	PartnerType *string
	Active      *bool
}

type ListMonthlyUpdatesParams struct {
	Limit  int
	Offset int
	Status *string
}

type ListMessagesParams struct {
	ChannelID uint64
	// AfterID returns only messages newer than this id (polling cursor).
	AfterID uint64
	Limit   int
}

// Repository is the persistence surface the services and handlers depend on.
type Repository interface {
	// InTx runs fn against a Repository whose writes commit atomically.
	// Writes made through the outer Repository are not part of the
	// transaction.
	InTx(ctx context.Context, fn func(r Repository) error) error

	// Deals
	CreateDeal(ctx context.Context, item *models.Deal) error
	GetDealByID(ctx context.Context, id uint64) (*models.Deal, error)
	ListDeals(ctx context.Context, params ListDealsParams) ([]models.Deal, error)
	CountDeals(ctx context.Context, params ListDealsParams) (int64, error)
	SaveDeal(ctx context.Context, item *models.Deal) error
	DeleteDealCascade(ctx context.Context, id uint64) error
	ListDealsByStages(ctx context.Context, stages []string) ([]models.Deal, error)
	ListLostDealsWithVotes(ctx context.Context) ([]models.Deal, error)
	CountDealsByStage(ctx context.Context) (map[string]int64, error)

	// Founders
	CreateFounder(ctx context.Context, item *models.Founder) error
	GetFounderByID(ctx context.Context, id uint64) (*models.Founder, error)
	UpdateFounder(ctx context.Context, item *models.Founder) error
	DeleteFounder(ctx context.Context, id uint64) error
	ListFoundersByDealID(ctx context.Context, dealID uint64) ([]models.Founder, error)
	CountFounders(ctx context.Context) (int64, error)

	// Votes
	UpsertVote(ctx context.Context, item *models.Vote) error
	GetVoteByDealAndLP(ctx context.Context, dealID, lpID uint64) (*models.Vote, error)
	ListVotesByDealID(ctx context.Context, dealID uint64) ([]models.Vote, error)
	ListVotesByDealIDs(ctx context.Context, dealIDs []uint64) (map[uint64][]models.Vote, error)
	ListVotedDealIDsByLP(ctx context.Context, lpID uint64) ([]uint64, error)
	CountVotes(ctx context.Context) (int64, error)

	// Deal links
	ReplaceDealLinks(ctx context.Context, dealID, lpID uint64, links []models.DealLink) error
	ListDealLinksByDealID(ctx context.Context, dealID uint64) ([]models.DealLink, error)
	ListDealLinksByDealAndLP(ctx context.Context, dealID, lpID uint64) ([]models.DealLink, error)

	// Limited partners (read-mostly directory)
	CreateLimitedPartner(ctx context.Context, item *models.LimitedPartner) error
	GetLimitedPartnerByID(ctx context.Context, id uint64) (*models.LimitedPartner, error)
	GetLimitedPartnerByEmail(ctx context.Context, email string) (*models.LimitedPartner, error)
	ListLimitedPartners(ctx context.Context, params ListLimitedPartnersParams) ([]models.LimitedPartner, error)
	CountLimitedPartners(ctx context.Context, params ListLimitedPartnersParams) (int64, error)

	// Chat (append-only, polled)
	CreateChannel(ctx context.Context, item *models.Channel) error
	ListChannels(ctx context.Context) ([]models.Channel, error)
	GetChannelByID(ctx context.Context, id uint64) (*models.Channel, error)
	CreateMessage(ctx context.Context, item *models.Message) error
	ListMessages(ctx context.Context, params ListMessagesParams) ([]models.Message, error)

	// Monthly updates
	CreateMonthlyUpdate(ctx context.Context, item *models.MonthlyUpdate) error
	GetMonthlyUpdateByID(ctx context.Context, id uint64) (*models.MonthlyUpdate, error)
	ListMonthlyUpdates(ctx context.Context, params ListMonthlyUpdatesParams) ([]models.MonthlyUpdate, error)
	MarkMonthlyUpdateSent(ctx context.Context, id uint64, campaignID string, sentAt time.Time) error
}
