package voting

import (
	"dealdesk/internal/models"
)

// Conviction levels. Higher is stronger support.
const (
	ConvictionStrongNo   = 1
	ConvictionLeaningNo  = 2
	ConvictionLeaningYes = 3
	ConvictionStrongYes  = 4
)

// ReviewStatusToReview is the only non-numeric vote state: the LP has seen
// the deal but deferred a numeric opinion.
const ReviewStatusToReview = "to_review"

var convictionLabels = map[int]string{
	ConvictionStrongYes:  "Strong yes",
	ConvictionLeaningYes: "Leaning yes",
	ConvictionLeaningNo:  "Leaning no",
	ConvictionStrongNo:   "Strong no",
}

// Summary holds per-deal voting statistics. Recomputed from the vote set on
// read; never maintained incrementally.
type Summary struct {
	// TotalVotes counts votes carrying a conviction level or a strong-no
	// flag. To-review placeholders are tracked in PendingReviewCount and
	// excluded here so the progress denominator stays consistent.
	TotalVotes         int `json:"total_votes"`
	StrongYesPlusVotes int `json:"strong_yes_plus_votes"`
	StrongYesVotes     int `json:"strong_yes_votes"`
	FollowingPackVotes int `json:"following_pack_votes"`
	NoVotes            int `json:"no_votes"`
	StrongNoVotes      int `json:"strong_no_votes"`
	PendingReviewCount int `json:"pending_review_count"`

	// NetScore = (L4 + L3) - strong_no.
	NetScore int `json:"net_score"`

	// ProgressPct = (L4 + L3) / TotalVotes * 100, 0 when TotalVotes is 0.
	ProgressPct float64 `json:"progress_pct"`
}

// Aggregate computes the summary for one deal's votes.
func Aggregate(votes []models.Vote) Summary {
	var s Summary
	for _, v := range votes {
		if v.StrongNo {
			s.StrongNoVotes++
		}
		if v.ConvictionLevel != nil {
			switch *v.ConvictionLevel {
			case ConvictionStrongYes:
				s.StrongYesPlusVotes++
			case ConvictionLeaningYes:
				s.StrongYesVotes++
			case ConvictionLeaningNo:
				s.FollowingPackVotes++
			case ConvictionStrongNo:
				s.NoVotes++
			}
			s.TotalVotes++
			continue
		}
		if v.StrongNo {
			s.TotalVotes++
			continue
		}
		if v.ReviewStatus != nil && *v.ReviewStatus == ReviewStatusToReview {
			s.PendingReviewCount++
		}
	}
	s.NetScore = (s.StrongYesPlusVotes + s.StrongYesVotes) - s.StrongNoVotes
	if s.TotalVotes > 0 {
		s.ProgressPct = float64(s.StrongYesPlusVotes+s.StrongYesVotes) / float64(s.TotalVotes) * 100
	}
	return s
}

// ConvictionLabel maps a vote to its display label. A to_review status
// overrides the numeric mapping, and a strong-no flag overrides everything.
func ConvictionLabel(v models.Vote) string {
	if v.StrongNo {
		return "Strong no"
	}
	if v.ReviewStatus != nil && *v.ReviewStatus == ReviewStatusToReview {
		return "To Review"
	}
	if v.ConvictionLevel != nil {
		if label, ok := convictionLabels[*v.ConvictionLevel]; ok {
			return label
		}
	}
	return ""
}

// ValidConvictionLevel reports whether level is a member of the 1..4 scale.
func ValidConvictionLevel(level int) bool {
	_, ok := convictionLabels[level]
	return ok
}
