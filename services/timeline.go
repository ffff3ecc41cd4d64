package services

import (
	"sort"
	"time"

	"conference-review-api/models"
)

// Timeline event types, in tie-break order for identical timestamps.
const (
	EventPaperSubmitted     = "paper_submitted"
	EventFileUploaded       = "file_uploaded"
	EventReviewSubmitted    = "review_submitted"
	EventDecisionMade       = "decision_made"
	EventCameraReadyUpload  = "camera_ready_uploaded"
	EventCameraReadyApprove = "camera_ready_approved"
)

// TimelineEvent is one entry of a paper's lifecycle history.
type TimelineEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   *int      `json:"actor_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

var eventOrder = map[string]int{
	EventPaperSubmitted:     0,
	EventFileUploaded:       1,
	EventReviewSubmitted:    2,
	EventDecisionMade:       3,
	EventCameraReadyUpload:  4,
	EventCameraReadyApprove: 5,
}

// BuildTimeline merges the paper's heterogeneous lifecycle events into one
// deterministic, timestamp-ordered list. When anonymized (author and reviewer
// views), no event carries an actor id: submission and upload actors are
// authors, review and decision actors are reviewers and chairs.
func BuildTimeline(raw RawPaperView, anonymize bool) []TimelineEvent {
	events := []TimelineEvent{}

	submitted := TimelineEvent{
		Type:      EventPaperSubmitted,
		Timestamp: raw.Paper.SubmittedAt,
		Detail:    raw.Paper.Title,
	}
	if !anonymize {
		submitter := raw.Paper.SubmittedBy
		submitted.ActorID = &submitter
	}
	events = append(events, submitted)

	for _, file := range raw.Files {
		eventType := EventFileUploaded
		if file.Kind == models.PaperFileKindCameraReady {
			eventType = EventCameraReadyUpload
		}
		uploaded := TimelineEvent{
			Type:      eventType,
			Timestamp: file.UploadedAt,
			Detail:    file.OriginalName,
		}
		if !anonymize {
			uploader := file.UploadedBy
			uploaded.ActorID = &uploader
		}
		events = append(events, uploaded)
		if file.Kind == models.PaperFileKindCameraReady && file.Status == models.PaperFileStatusApproved {
			events = append(events, TimelineEvent{
				Type:      EventCameraReadyApprove,
				Timestamp: file.UploadedAt,
				Detail:    file.OriginalName,
			})
		}
	}

	for _, assignment := range raw.Assignments {
		if assignment.Review == nil || assignment.Review.SubmittedAt == nil {
			continue
		}
		event := TimelineEvent{
			Type:      EventReviewSubmitted,
			Timestamp: *assignment.Review.SubmittedAt,
		}
		if !anonymize {
			reviewer := assignment.ReviewerID
			event.ActorID = &reviewer
		}
		events = append(events, event)
	}

	if raw.Decision != nil {
		event := TimelineEvent{
			Type:      EventDecisionMade,
			Timestamp: raw.Decision.DecidedAt,
			Detail:    raw.Decision.FinalDecision,
		}
		if !anonymize {
			decider := raw.Decision.DecidedBy
			event.ActorID = &decider
		}
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return eventOrder[events[i].Type] < eventOrder[events[j].Type]
	})
	return events
}
