package voting

import (
	"testing"
	"time"

	"dealdesk/internal/models"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func queueFixture() []models.Deal {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Deal{
		{ID: 1, CompanyName: "later", SurveyDeadline: datePtr(2024, 1, 5), CreatedAt: base},
		{ID: 2, CompanyName: "soonest", SurveyDeadline: datePtr(2024, 1, 3), CreatedAt: base.Add(time.Hour)},
		{ID: 3, CompanyName: "no-deadline", CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestReviewQueue_DeadlineOrderNullsLast(t *testing.T) {
	queue := ReviewQueue(queueFixture(), nil, 0)
	if len(queue) != 3 {
		t.Fatalf("len=%d want 3", len(queue))
	}
	wantOrder := []uint64{2, 1, 3}
	for i, want := range wantOrder {
		if queue[i].ID != want {
			t.Fatalf("queue[%d]=%d want %d", i, queue[i].ID, want)
		}
	}
}

func TestReviewQueue_CreatedAtTiebreak(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	deadline := datePtr(2024, 1, 3)
	candidates := []models.Deal{
		{ID: 1, SurveyDeadline: deadline, CreatedAt: base.Add(time.Hour)},
		{ID: 2, SurveyDeadline: deadline, CreatedAt: base},
	}
	queue := ReviewQueue(candidates, nil, 0)
	if queue[0].ID != 2 {
		t.Fatalf("queue[0]=%d want 2 (older first)", queue[0].ID)
	}
}

func TestReviewQueue_ExcludesVotedAndExplicit(t *testing.T) {
	voted := map[uint64]struct{}{1: {}}
	queue := ReviewQueue(queueFixture(), voted, 2)
	if len(queue) != 1 || queue[0].ID != 3 {
		t.Fatalf("queue=%v want only deal 3", queue)
	}
}

func TestNextDeal(t *testing.T) {
	next := NextDeal(queueFixture(), nil, 0)
	if next == nil || next.ID != 2 {
		t.Fatalf("next=%v want deal 2", next)
	}
}

func TestNextDeal_EmptyQueue(t *testing.T) {
	voted := map[uint64]struct{}{1: {}, 2: {}, 3: {}}
	if next := NextDeal(queueFixture(), voted, 0); next != nil {
		t.Fatalf("next=%v want nil", next)
	}
}
