package voting

import (
	"sort"

	"dealdesk/internal/models"
)

// ReviewQueue orders an LP's pending reviews. Candidates are expected to be
// the partner_review set; the deal just voted on and anything the LP already
// voted on are excluded. Ordering is earliest survey deadline first with nil
// deadlines last, ties broken by oldest created_at.
func ReviewQueue(candidates []models.Deal, votedDealIDs map[uint64]struct{}, excludeDealID uint64) []models.Deal {
	pending := make([]models.Deal, 0, len(candidates))
	for _, d := range candidates {
		if d.ID == excludeDealID {
			continue
		}
		if _, voted := votedDealIDs[d.ID]; voted {
			continue
		}
		pending = append(pending, d)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		di, dj := pending[i].SurveyDeadline, pending[j].SurveyDeadline
		switch {
		case di != nil && dj != nil && !di.Equal(*dj):
			return di.Before(*dj)
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending
}

// NextDeal selects the deal an LP should review next after submitting a
// vote, or nil when nothing is pending. Pure selection over the queue: it
// must be recomputed after every submission since the voted set changes.
func NextDeal(candidates []models.Deal, votedDealIDs map[uint64]struct{}, excludeDealID uint64) *models.Deal {
	queue := ReviewQueue(candidates, votedDealIDs, excludeDealID)
	if len(queue) == 0 {
		return nil
	}
	next := queue[0]
	return &next
}
