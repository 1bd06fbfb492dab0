package goodwork

import (
	"context"
	"time"
)

// Submission is a good-work report as sent by the dashboard.
type Submission struct {
	OfficerName string `json:"officerName"`
	BadgeNumber string `json:"badgeNumber"`
	District    string `json:"district"`
	Achievement string `json:"achievement"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Entry is the local record of a submission the upstream accepted.
type Entry struct {
	ID          int64
	Submission  Submission
	SubmittedBy int64
	CreatedAt   time.Time
}

type Repo interface {
	Insert(ctx context.Context, entry *Entry) (int64, error)
}
