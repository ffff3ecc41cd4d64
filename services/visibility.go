package services

import (
	"time"

	"conference-review-api/models"
)

// Relationship describes how a requester relates to one paper. Exactly one
// applies, checked in order: admin, author, chair, assigned reviewer, other
// reviewer in the conference. Authorship is checked before chair so a chair
// who co-authored a paper never sees its reviewer identities.
type Relationship string

const (
	RelAdmin            Relationship = "admin"
	RelChair            Relationship = "chair"
	RelAuthor           Relationship = "author"
	RelAssignedReviewer Relationship = "assigned_reviewer"
	RelPeerReviewer     Relationship = "peer_reviewer"
	RelNone             Relationship = "none"
)

// Reviewer identity placeholder used everywhere a real identity must be
// hidden.
const (
	AnonymousReviewerID   = 0
	AnonymousReviewerName = "Anonymous Reviewer"
)

// RawPaperView is the unredacted aggregate loaded from storage. It must never
// be serialized to a client directly; every read path projects it through
// ProjectPaperView first.
type RawPaperView struct {
	Paper       models.Paper
	Authors     []models.PaperAuthor
	Assignments []models.ReviewAssignment
	Bids        []models.Bid
	Decision    *models.Decision
	Files       []models.PaperFile
}

// ReviewView is the redacted review content of one assignment.
type ReviewView struct {
	Score            *int       `json:"score,omitempty"`
	Confidence       *int       `json:"confidence,omitempty"`
	Summary          *string    `json:"summary,omitempty"`
	Strengths        *string    `json:"strengths,omitempty"`
	Weaknesses       *string    `json:"weaknesses,omitempty"`
	CommentsToAuthor *string    `json:"comments_to_author,omitempty"`
	CommentsToChair  *string    `json:"comments_to_chair,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
}

// AssignmentView is the redacted form of one review assignment.
type AssignmentView struct {
	AssignmentID int         `json:"assignment_id"`
	ReviewerID   int         `json:"reviewer_id"`
	ReviewerName string      `json:"reviewer_name"`
	Status       string      `json:"status"`
	DueDate      *time.Time  `json:"due_date,omitempty"`
	Review       *ReviewView `json:"review,omitempty"`
}

// BidView is the redacted form of one bid.
type BidView struct {
	ReviewerID   int    `json:"reviewer_id"`
	ReviewerName string `json:"reviewer_name"`
	BidValue     string `json:"bid_value"`
}

// AuthorView is one entry of the visible author list.
type AuthorView struct {
	UserID      int    `json:"user_id"`
	Name        string `json:"name"`
	AuthorOrder int    `json:"author_order"`
}

// DecisionView is the redacted form of the decision record.
type DecisionView struct {
	FinalDecision     string    `json:"final_decision"`
	Comment           *string   `json:"comment,omitempty"`
	AverageScore      *float64  `json:"average_score,omitempty"`
	AverageConfidence *float64  `json:"average_confidence,omitempty"`
	ReviewCount       *int      `json:"review_count,omitempty"`
	DecidedBy         *int      `json:"decided_by,omitempty"`
	DecidedAt         time.Time `json:"decided_at"`
}

// PaperView is the projection of one paper for one requester. The same
// underlying records produce a different PaperView per relationship and
// stage.
type PaperView struct {
	PaperID     int                `json:"paper_id"`
	Title       string             `json:"title"`
	Abstract    string             `json:"abstract"`
	Status      string             `json:"status"`
	Stage       Stage              `json:"stage"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Authors     []AuthorView       `json:"authors"`
	Assignments []AssignmentView   `json:"assignments"`
	Bids        []BidView          `json:"bids"`
	Decision    *DecisionView      `json:"decision,omitempty"`
	ReviewStats ReviewStats        `json:"review_stats"`
	Files       []models.PaperFile `json:"files"`
}

// ProjectPaperView applies the double-blind policy to a raw aggregate. Pure
// function of its inputs; it never touches storage.
func ProjectPaperView(raw RawPaperView, requesterID int, rel Relationship, stage Stage) PaperView {
	view := PaperView{
		PaperID:     raw.Paper.PaperID,
		Title:       raw.Paper.Title,
		Abstract:    raw.Paper.Abstract,
		Status:      raw.Paper.Status,
		Stage:       stage,
		SubmittedAt: raw.Paper.SubmittedAt,
		Authors:     []AuthorView{},
		Assignments: []AssignmentView{},
		Bids:        []BidView{},
		ReviewStats: ReviewStats{Scores: []int{}},
		Files:       raw.Files,
	}

	switch rel {
	case RelAdmin, RelChair:
		view.Authors = fullAuthors(raw.Authors)
		view.Assignments = fullAssignments(raw.Assignments)
		view.Bids = fullBids(raw.Bids)
		view.ReviewStats = ComputeReviewStats(raw.Assignments)
		view.Decision = chairDecisionView(raw.Decision)

	case RelAuthor:
		view.Authors = fullAuthors(raw.Authors)
		if stage.PostDecision() {
			view.Assignments = authorAssignments(raw.Assignments)
			view.Decision = authorDecisionView(raw.Decision)
		}
		// Pre-decision the author sees no review material at all, no matter
		// how many assignments or bids exist.

	case RelAssignedReviewer, RelPeerReviewer:
		// Reviewers never learn the author list; that is the other half of
		// double blind. File metadata carries the uploader, an author, so it
		// is scrubbed too.
		view.Assignments = reviewerAssignments(raw.Assignments, requesterID)
		view.Bids = reviewerBids(raw.Bids, requesterID)
		view.ReviewStats = ComputeReviewStats(raw.Assignments)
		view.Decision = authorDecisionView(raw.Decision)
		view.Files = redactedFiles(raw.Files)
	}

	return view
}

func fullAuthors(authors []models.PaperAuthor) []AuthorView {
	views := make([]AuthorView, 0, len(authors))
	for _, author := range authors {
		name := ""
		if author.User != nil {
			name = author.User.FullName()
		}
		views = append(views, AuthorView{
			UserID:      author.UserID,
			Name:        name,
			AuthorOrder: author.AuthorOrder,
		})
	}
	return views
}

func fullAssignments(assignments []models.ReviewAssignment) []AssignmentView {
	views := make([]AssignmentView, 0, len(assignments))
	for _, assignment := range assignments {
		view := AssignmentView{
			AssignmentID: assignment.AssignmentID,
			ReviewerID:   assignment.ReviewerID,
			ReviewerName: reviewerName(assignment.Reviewer),
			Status:       assignment.Status,
			DueDate:      assignment.DueDate,
		}
		if assignment.Review != nil {
			review := assignment.Review
			view.Review = &ReviewView{
				Score:            review.Score,
				Confidence:       review.Confidence,
				Summary:          review.Summary,
				Strengths:        review.Strengths,
				Weaknesses:       review.Weaknesses,
				CommentsToAuthor: review.CommentsToAuthor,
				CommentsToChair:  review.CommentsToChair,
				SubmittedAt:      review.SubmittedAt,
			}
		}
		views = append(views, view)
	}
	return views
}

// authorAssignments keeps only the comments-to-author text of submitted
// reviews, under the anonymous placeholder. Everything else stays hidden.
func authorAssignments(assignments []models.ReviewAssignment) []AssignmentView {
	views := []AssignmentView{}
	for _, assignment := range assignments {
		if assignment.Status != models.AssignmentStatusSubmitted || assignment.Review == nil {
			continue
		}
		views = append(views, AssignmentView{
			AssignmentID: assignment.AssignmentID,
			ReviewerID:   AnonymousReviewerID,
			ReviewerName: AnonymousReviewerName,
			Status:       assignment.Status,
			Review: &ReviewView{
				CommentsToAuthor: assignment.Review.CommentsToAuthor,
				SubmittedAt:      assignment.Review.SubmittedAt,
			},
		})
	}
	return views
}

// reviewerAssignments shows a reviewer their own assignment in full and every
// other assignment under the anonymous placeholder. Peer review content
// appears only once submitted, and comments to the chair stay with the chair.
func reviewerAssignments(assignments []models.ReviewAssignment, requesterID int) []AssignmentView {
	views := make([]AssignmentView, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.ReviewerID == requesterID {
			view := AssignmentView{
				AssignmentID: assignment.AssignmentID,
				ReviewerID:   assignment.ReviewerID,
				ReviewerName: reviewerName(assignment.Reviewer),
				Status:       assignment.Status,
				DueDate:      assignment.DueDate,
			}
			if assignment.Review != nil {
				review := assignment.Review
				view.Review = &ReviewView{
					Score:            review.Score,
					Confidence:       review.Confidence,
					Summary:          review.Summary,
					Strengths:        review.Strengths,
					Weaknesses:       review.Weaknesses,
					CommentsToAuthor: review.CommentsToAuthor,
					CommentsToChair:  review.CommentsToChair,
					SubmittedAt:      review.SubmittedAt,
				}
			}
			views = append(views, view)
			continue
		}

		view := AssignmentView{
			AssignmentID: assignment.AssignmentID,
			ReviewerID:   AnonymousReviewerID,
			ReviewerName: AnonymousReviewerName,
			Status:       assignment.Status,
		}
		if assignment.Status == models.AssignmentStatusSubmitted && assignment.Review != nil {
			review := assignment.Review
			view.Review = &ReviewView{
				Score:            review.Score,
				Confidence:       review.Confidence,
				Summary:          review.Summary,
				Strengths:        review.Strengths,
				Weaknesses:       review.Weaknesses,
				CommentsToAuthor: review.CommentsToAuthor,
				SubmittedAt:      review.SubmittedAt,
			}
		}
		views = append(views, view)
	}
	return views
}

func fullBids(bids []models.Bid) []BidView {
	views := make([]BidView, 0, len(bids))
	for _, bid := range bids {
		views = append(views, BidView{
			ReviewerID: bid.ReviewerID,
			BidValue:   bid.BidValue,
		})
	}
	return views
}

// reviewerBids keeps the requester's own bid recognizable and masks every
// other bidder.
func reviewerBids(bids []models.Bid, requesterID int) []BidView {
	views := make([]BidView, 0, len(bids))
	for _, bid := range bids {
		if bid.ReviewerID == requesterID {
			views = append(views, BidView{ReviewerID: bid.ReviewerID, BidValue: bid.BidValue})
			continue
		}
		views = append(views, BidView{
			ReviewerID:   AnonymousReviewerID,
			ReviewerName: AnonymousReviewerName,
			BidValue:     bid.BidValue,
		})
	}
	return views
}

func chairDecisionView(decision *models.Decision) *DecisionView {
	if decision == nil {
		return nil
	}
	return &DecisionView{
		FinalDecision:     decision.FinalDecision,
		Comment:           decision.Comment,
		AverageScore:      &decision.AverageScore,
		AverageConfidence: &decision.AverageConfidence,
		ReviewCount:       &decision.ReviewCount,
		DecidedBy:         &decision.DecidedBy,
		DecidedAt:         decision.DecidedAt,
	}
}

// authorDecisionView exposes the outcome without the snapshotted score
// statistics or the decider identity.
func authorDecisionView(decision *models.Decision) *DecisionView {
	if decision == nil {
		return nil
	}
	return &DecisionView{
		FinalDecision: decision.FinalDecision,
		Comment:       decision.Comment,
		DecidedAt:     decision.DecidedAt,
	}
}

// redactedFiles strips the uploader identity from file metadata. Files are
// uploaded by authors, so their uploader id identifies an author.
func redactedFiles(files []models.PaperFile) []models.PaperFile {
	views := make([]models.PaperFile, 0, len(files))
	for _, file := range files {
		file.UploadedBy = 0
		views = append(views, file)
	}
	return views
}

// RedactSubmitterIdentity clears the submitter id from paper rows handed to
// reviewers in listings, which reuse the storage shape.
func RedactSubmitterIdentity(papers []models.Paper) []models.Paper {
	for i := range papers {
		papers[i].SubmittedBy = 0
	}
	return papers
}

func reviewerName(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.FullName()
}
