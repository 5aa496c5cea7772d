package deal

import (
	"fmt"
	"time"

	"dealdesk/internal/models"
)

// Stage is a deal's pipeline phase. The set is closed: persisting any value
// outside the enum is rejected with InvalidStageError.
type Stage string

const (
	StageSourcing              Stage = "sourcing"
	StageSourcingReachedOut    Stage = "sourcing_reached_out"
	StageSourcingMeetingBooked Stage = "sourcing_meeting_booked"
	StageSourcingMeetingDone   Stage = "sourcing_meeting_done_deciding"
	StagePartnerReview         Stage = "partner_review"
	StageOffer                 Stage = "offer"
	StageSigned                Stage = "signed"
	StageSignedAndWired        Stage = "signed_and_wired"
	StageClosedLostPassed      Stage = "closed_lost_passed"
	StageClosedLostRejected    Stage = "closed_lost_rejected"
)

// InitialStage is assigned to every newly created deal.
const InitialStage = StageSourcing

// Stages lists the pipeline enum in board order, lost stages last.
var Stages = []Stage{
	StageSourcing,
	StageSourcingReachedOut,
	StageSourcingMeetingBooked,
	StageSourcingMeetingDone,
	StagePartnerReview,
	StageOffer,
	StageSigned,
	StageSignedAndWired,
	StageClosedLostPassed,
	StageClosedLostRejected,
}

var stageLabels = map[Stage]string{
	StageSourcing:              "Sourcing",
	StageSourcingReachedOut:    "Reached Out",
	StageSourcingMeetingBooked: "Meeting Booked",
	StageSourcingMeetingDone:   "Meeting Done / Deciding",
	StagePartnerReview:         "Partner Review",
	StageOffer:                 "Offer",
	StageSigned:                "Signed",
	StageSignedAndWired:        "Signed & Wired",
	StageClosedLostPassed:      "Passed",
	StageClosedLostRejected:    "Rejected",
}

type InvalidStageError struct {
	Value string
}

func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("invalid deal stage %q", e.Value)
}

// ParseStage validates a wire value against the closed enum.
func ParseStage(value string) (Stage, error) {
	s := Stage(value)
	if _, ok := stageLabels[s]; !ok {
		return "", &InvalidStageError{Value: value}
	}
	return s, nil
}

func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// Lost reports whether the deal left the pipeline without an investment.
func (s Stage) Lost() bool {
	return s == StageClosedLostPassed || s == StageClosedLostRejected
}

// Terminal stages accept no further pipeline movement in practice.
// Signed is semi-terminal: won, but the wire transfer is still pending.
func (s Stage) Terminal() bool {
	return s == StageSignedAndWired || s.Lost()
}

// Invested reports whether the deal is won (signed or signed and wired).
func (s Stage) Invested() bool {
	return s == StageSigned || s == StageSignedAndWired
}

// Bucket is the derived reporting group for a stage. Computed at query
// time, never stored.
type Bucket string

const (
	BucketSourcing    Bucket = "sourcing"
	BucketUnderReview Bucket = "under_review"
	BucketOffer       Bucket = "offer"
	BucketInvested    Bucket = "invested"
	BucketLost        Bucket = "lost"
)

// PipelineBuckets are the buckets shown on the primary board, in order.
// Lost deals are excluded from the primary view.
var PipelineBuckets = []Bucket{BucketSourcing, BucketUnderReview, BucketOffer, BucketInvested}

func (s Stage) Bucket() Bucket {
	switch s {
	case StageSourcing, StageSourcingReachedOut, StageSourcingMeetingBooked, StageSourcingMeetingDone:
		return BucketSourcing
	case StagePartnerReview:
		return BucketUnderReview
	case StageOffer:
		return BucketOffer
	case StageSigned, StageSignedAndWired:
		return BucketInvested
	default:
		return BucketLost
	}
}

// BucketStages returns the stages a bucket groups, or nil for an unknown bucket.
func BucketStages(b Bucket) []Stage {
	var out []Stage
	for _, s := range Stages {
		if s.Bucket() == b {
			out = append(out, s)
		}
	}
	return out
}

// StampTransition moves a deal to next and stamps the stage-entry timestamps
// the first time the matching stage is entered. Re-entering or re-saving a
// stage never overwrites an existing stamp. Transitions are otherwise
// permissive: any stage may move to any other.
func StampTransition(d *models.Deal, next Stage, now time.Time) {
	if d == nil {
		return
	}
	d.Stage = string(next)
	switch next {
	case StageSourcingMeetingBooked:
		if d.SourcingMeetingBookedAt == nil {
			t := now
			d.SourcingMeetingBookedAt = &t
		}
	case StagePartnerReview:
		if d.PartnerReviewStartedAt == nil {
			t := now
			d.PartnerReviewStartedAt = &t
		}
	}
}

// EffectiveCloseDate is the close date shown for an invested deal. When
// close_date was never recorded, updated_at approximates the close time.
// Display convenience only, nothing is stored.
func EffectiveCloseDate(d models.Deal) time.Time {
	if d.CloseDate != nil {
		return *d.CloseDate
	}
	return d.UpdatedAt
}
