package voting

import (
	"testing"

	"dealdesk/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestAggregate_NetScore(t *testing.T) {
	votes := []models.Vote{
		{ConvictionLevel: intPtr(4)},
		{ConvictionLevel: intPtr(4)},
		{ConvictionLevel: intPtr(3)},
		{ConvictionLevel: intPtr(1)},
		{StrongNo: true},
		{StrongNo: true},
	}
	s := Aggregate(votes)
	if s.TotalVotes != 6 {
		t.Fatalf("total=%d want 6", s.TotalVotes)
	}
	if s.StrongYesPlusVotes != 2 || s.StrongYesVotes != 1 {
		t.Fatalf("l4=%d l3=%d want 2/1", s.StrongYesPlusVotes, s.StrongYesVotes)
	}
	if s.StrongNoVotes != 2 {
		t.Fatalf("strong_no=%d want 2", s.StrongNoVotes)
	}
	// (2 + 1) - 2
	if s.NetScore != 1 {
		t.Fatalf("net=%d want 1", s.NetScore)
	}
}

func TestAggregate_ProgressPct(t *testing.T) {
	votes := []models.Vote{
		{ConvictionLevel: intPtr(4)},
		{ConvictionLevel: intPtr(3)},
		{ConvictionLevel: intPtr(2)},
		{ConvictionLevel: intPtr(1)},
	}
	s := Aggregate(votes)
	if s.ProgressPct != 50 {
		t.Fatalf("progress=%v want 50", s.ProgressPct)
	}
}

func TestAggregate_EmptyNoDivideByZero(t *testing.T) {
	s := Aggregate(nil)
	if s.TotalVotes != 0 || s.ProgressPct != 0 || s.NetScore != 0 {
		t.Fatalf("zero-vote summary not zeroed: %+v", s)
	}
}

func TestAggregate_ToReviewExcludedFromTotal(t *testing.T) {
	votes := []models.Vote{
		{ConvictionLevel: intPtr(4)},
		{ReviewStatus: strPtr(ReviewStatusToReview)},
		{ReviewStatus: strPtr(ReviewStatusToReview)},
	}
	s := Aggregate(votes)
	if s.TotalVotes != 1 {
		t.Fatalf("total=%d want 1", s.TotalVotes)
	}
	if s.PendingReviewCount != 2 {
		t.Fatalf("pending=%d want 2", s.PendingReviewCount)
	}
	if s.ProgressPct != 100 {
		t.Fatalf("progress=%v want 100", s.ProgressPct)
	}
}

func TestAggregate_StrongNoWithoutLevelCounts(t *testing.T) {
	votes := []models.Vote{{StrongNo: true}}
	s := Aggregate(votes)
	if s.TotalVotes != 1 || s.StrongNoVotes != 1 {
		t.Fatalf("total=%d strong_no=%d want 1/1", s.TotalVotes, s.StrongNoVotes)
	}
	if s.NetScore != -1 {
		t.Fatalf("net=%d want -1", s.NetScore)
	}
}

func TestAggregate_StrongNoAlongsideLevelCountsOnce(t *testing.T) {
	votes := []models.Vote{{ConvictionLevel: intPtr(2), StrongNo: true}}
	s := Aggregate(votes)
	if s.TotalVotes != 1 {
		t.Fatalf("total=%d want 1", s.TotalVotes)
	}
	if s.FollowingPackVotes != 1 || s.StrongNoVotes != 1 {
		t.Fatalf("l2=%d strong_no=%d want 1/1", s.FollowingPackVotes, s.StrongNoVotes)
	}
}

func TestConvictionLabel_Precedence(t *testing.T) {
	cases := []struct {
		name string
		vote models.Vote
		want string
	}{
		{"strong_no_overrides_level", models.Vote{ConvictionLevel: intPtr(4), StrongNo: true}, "Strong no"},
		{"strong_no_overrides_to_review", models.Vote{ReviewStatus: strPtr(ReviewStatusToReview), StrongNo: true}, "Strong no"},
		{"to_review_overrides_level", models.Vote{ConvictionLevel: intPtr(3), ReviewStatus: strPtr(ReviewStatusToReview)}, "To Review"},
		{"level_4", models.Vote{ConvictionLevel: intPtr(4)}, "Strong yes"},
		{"level_3", models.Vote{ConvictionLevel: intPtr(3)}, "Leaning yes"},
		{"level_2", models.Vote{ConvictionLevel: intPtr(2)}, "Leaning no"},
		{"level_1", models.Vote{ConvictionLevel: intPtr(1)}, "Strong no"},
		{"empty", models.Vote{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConvictionLabel(tc.vote); got != tc.want {
				t.Fatalf("label=%q want %q", got, tc.want)
			}
		})
	}
}

func TestValidConvictionLevel(t *testing.T) {
	for level := 1; level <= 4; level++ {
		if !ValidConvictionLevel(level) {
			t.Fatalf("level %d should be valid", level)
		}
	}
	for _, level := range []int{0, 5, -1, 100} {
		if ValidConvictionLevel(level) {
			t.Fatalf("level %d should be invalid", level)
		}
	}
}
