package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaperShortfall reports a paper the allocator could not staff to target.
type PaperShortfall struct {
	PaperID  int `json:"paper_id"`
	Assigned int `json:"assigned"`
	Target   int `json:"target"`
}

// AutoAssignResult summarizes one allocation pass.
type AutoAssignResult struct {
	AssignedCount int              `json:"assigned_count"`
	Shortfalls    []PaperShortfall `json:"shortfalls"`
}

type candidateReviewer struct {
	userID   int
	bidRank  int
	joinedAt time.Time
}

// AutoAssign staffs every undecided paper of the conference with up to
// targetPerPaper reviewers. Eligibility excludes authors, declared conflicts
// and conflict bids; papers with the fewest eligible reviewers are staffed
// first, and within a paper the least-loaded reviewer wins, ties broken by
// bid rank, then membership age, then user id. Papers that cannot reach the
// target are reported as shortfalls, not errors. Each assignment write is an
// upsert-or-skip against the (paper, reviewer) unique index so a chair
// assigning manually at the same time stays benign.
func AutoAssign(conferenceID, targetPerPaper, assignedBy int) (*AutoAssignResult, error) {
	if targetPerPaper < 1 {
		return nil, NewError(ErrKindValidation, "Target reviewers per paper must be at least 1")
	}

	var conference models.Conference
	if err := config.DB.Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		First(&conference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "Conference not found")
		}
		return nil, err
	}

	var papers []models.Paper
	if err := config.DB.
		Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		Where("NOT EXISTS (SELECT 1 FROM decisions WHERE decisions.paper_id = papers.paper_id)").
		Order("paper_id").
		Find(&papers).Error; err != nil {
		return nil, err
	}

	var members []models.ConferenceMember
	if err := config.DB.
		Where("conference_id = ? AND role IN ?", conferenceID,
			[]string{models.ConferenceRoleReviewer, models.ConferenceRoleChair}).
		Find(&members).Error; err != nil {
		return nil, err
	}

	// A user holding both reviewer and chair roles counts once, with the
	// earliest membership time.
	joined := make(map[int]time.Time)
	for _, member := range members {
		if at, ok := joined[member.UserID]; !ok || member.JoinedAt.Before(at) {
			joined[member.UserID] = member.JoinedAt
		}
	}

	paperIDs := make([]int, 0, len(papers))
	for _, paper := range papers {
		paperIDs = append(paperIDs, paper.PaperID)
	}

	authorsByPaper := make(map[int]map[int]bool)
	conflictsByPaper := make(map[int]map[int]bool)
	bidsByPaper := make(map[int]map[int]string)
	assignedByPaper := make(map[int]map[int]bool)
	load := make(map[int]int)

	if len(paperIDs) > 0 {
		var authors []models.PaperAuthor
		if err := config.DB.Where("paper_id IN ?", paperIDs).Find(&authors).Error; err != nil {
			return nil, err
		}
		for _, author := range authors {
			if authorsByPaper[author.PaperID] == nil {
				authorsByPaper[author.PaperID] = make(map[int]bool)
			}
			authorsByPaper[author.PaperID][author.UserID] = true
		}

		var conflicts []models.Conflict
		if err := config.DB.Where("paper_id IN ?", paperIDs).Find(&conflicts).Error; err != nil {
			return nil, err
		}
		for _, conflict := range conflicts {
			if conflictsByPaper[conflict.PaperID] == nil {
				conflictsByPaper[conflict.PaperID] = make(map[int]bool)
			}
			conflictsByPaper[conflict.PaperID][conflict.UserID] = true
		}

		var bids []models.Bid
		if err := config.DB.Where("paper_id IN ?", paperIDs).Find(&bids).Error; err != nil {
			return nil, err
		}
		for _, bid := range bids {
			if bidsByPaper[bid.PaperID] == nil {
				bidsByPaper[bid.PaperID] = make(map[int]string)
			}
			bidsByPaper[bid.PaperID][bid.ReviewerID] = bid.BidValue
		}
	}

	// Existing load counts every live assignment in the conference, including
	// papers already decided.
	var existing []models.ReviewAssignment
	if err := config.DB.
		Joins("JOIN papers ON papers.paper_id = review_assignments.paper_id").
		Where("papers.conference_id = ?", conferenceID).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	for _, assignment := range existing {
		load[assignment.ReviewerID]++
		if assignedByPaper[assignment.PaperID] == nil {
			assignedByPaper[assignment.PaperID] = make(map[int]bool)
		}
		assignedByPaper[assignment.PaperID][assignment.ReviewerID] = true
	}

	eligible := make(map[int][]candidateReviewer, len(papers))
	for _, paper := range papers {
		candidates := make([]candidateReviewer, 0, len(joined))
		for userID, joinedAt := range joined {
			if authorsByPaper[paper.PaperID][userID] {
				continue
			}
			if conflictsByPaper[paper.PaperID][userID] {
				continue
			}
			bidValue := bidsByPaper[paper.PaperID][userID]
			if bidValue == models.BidValueConflict {
				continue
			}
			candidates = append(candidates, candidateReviewer{
				userID:   userID,
				bidRank:  models.BidRank(bidValue),
				joinedAt: joinedAt,
			})
		}
		eligible[paper.PaperID] = candidates
	}

	// Most constrained paper first, so hard-to-staff papers are not starved.
	sort.SliceStable(papers, func(i, j int) bool {
		li := len(eligible[papers[i].PaperID])
		lj := len(eligible[papers[j].PaperID])
		if li != lj {
			return li < lj
		}
		return papers[i].PaperID < papers[j].PaperID
	})

	result := &AutoAssignResult{Shortfalls: []PaperShortfall{}}

	for _, paper := range papers {
		already := len(assignedByPaper[paper.PaperID])
		needed := targetPerPaper - already
		if needed <= 0 {
			continue
		}

		candidates := make([]candidateReviewer, 0, len(eligible[paper.PaperID]))
		for _, candidate := range eligible[paper.PaperID] {
			if assignedByPaper[paper.PaperID][candidate.userID] {
				continue
			}
			candidates = append(candidates, candidate)
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			if load[candidates[i].userID] != load[candidates[j].userID] {
				return load[candidates[i].userID] < load[candidates[j].userID]
			}
			if candidates[i].bidRank != candidates[j].bidRank {
				return candidates[i].bidRank > candidates[j].bidRank
			}
			if !candidates[i].joinedAt.Equal(candidates[j].joinedAt) {
				return candidates[i].joinedAt.Before(candidates[j].joinedAt)
			}
			return candidates[i].userID < candidates[j].userID
		})

		picked := 0
		for _, candidate := range candidates {
			if picked >= needed {
				break
			}

			assignment := models.ReviewAssignment{
				PaperID:    paper.PaperID,
				ReviewerID: candidate.userID,
				Status:     models.AssignmentStatusNotStarted,
				AssignedBy: assignedBy,
				CreateAt:   time.Now(),
			}
			res := config.DB.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "paper_id"}, {Name: "reviewer_id"}},
				DoNothing: true,
			}).Create(&assignment)
			if res.Error != nil {
				return nil, res.Error
			}
			// RowsAffected 0 means a concurrent writer got there first; the
			// pair is assigned either way.
			if res.RowsAffected > 0 {
				result.AssignedCount++
			}
			load[candidate.userID]++
			if assignedByPaper[paper.PaperID] == nil {
				assignedByPaper[paper.PaperID] = make(map[int]bool)
			}
			assignedByPaper[paper.PaperID][candidate.userID] = true
			picked++
		}

		if already+picked < targetPerPaper {
			result.Shortfalls = append(result.Shortfalls, PaperShortfall{
				PaperID:  paper.PaperID,
				Assigned: already + picked,
				Target:   targetPerPaper,
			})
		}
	}

	sort.Slice(result.Shortfalls, func(i, j int) bool {
		return result.Shortfalls[i].PaperID < result.Shortfalls[j].PaperID
	})
	return result, nil
}

// AssignReviewer manually assigns a reviewer to a paper with the same
// eligibility checks as the automatic pass. Assigning an already assigned
// pair succeeds idempotently so double-clicks stay harmless.
func AssignReviewer(paperID, reviewerID, assignedBy int) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var paper models.Paper
		if err := tx.Where("paper_id = ? AND delete_at IS NULL", paperID).
			First(&paper).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(ErrKindNotFound, "Paper not found")
			}
			return err
		}

		var authorCount int64
		if err := tx.Model(&models.PaperAuthor{}).
			Where("paper_id = ? AND user_id = ?", paperID, reviewerID).
			Count(&authorCount).Error; err != nil {
			return err
		}
		if authorCount > 0 {
			return NewError(ErrKindConflictOfInterest, "Authors cannot review their own paper")
		}

		eligible, err := HasConferenceRole(tx, paper.ConferenceID, reviewerID,
			models.ConferenceRoleReviewer, models.ConferenceRoleChair)
		if err != nil {
			return err
		}
		if !eligible {
			return NewError(ErrKindNotAMember, "User is not a reviewer in this conference")
		}

		conflicted, err := HasConflict(tx, paperID, reviewerID)
		if err != nil {
			return err
		}
		if conflicted {
			return NewError(ErrKindConflictOfInterest, "A conflict of interest is declared for this paper")
		}

		assignment = models.ReviewAssignment{
			PaperID:    paperID,
			ReviewerID: reviewerID,
			Status:     models.AssignmentStatusNotStarted,
			AssignedBy: assignedBy,
			CreateAt:   time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "paper_id"}, {Name: "reviewer_id"}},
			DoNothing: true,
		}).Create(&assignment).Error; err != nil {
			return err
		}

		return tx.Where("paper_id = ? AND reviewer_id = ?", paperID, reviewerID).
			First(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UnassignReviewer removes an assignment, along with any review draft.
// Forbidden once the review is submitted.
func UnassignReviewer(assignmentID int) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var assignment models.ReviewAssignment
		if err := tx.Where("assignment_id = ?", assignmentID).
			First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(ErrKindNotFound, "Assignment not found")
			}
			return err
		}

		if assignment.Status == models.AssignmentStatusSubmitted {
			return NewError(ErrKindAlreadySubmitted,
				fmt.Sprintf("Review for assignment %d is already submitted", assignmentID))
		}

		if err := tx.Where("assignment_id = ?", assignmentID).
			Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&assignment).Error
	})
}
