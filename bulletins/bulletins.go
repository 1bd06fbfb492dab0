package bulletins

import (
	"context"
	"time"
)

const (
	PressReleaseLimit = 20
	CrimeAlertLimit   = 10
)

type PressRelease struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

type CrimeAlert struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	District    string    `json:"district"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repo stores press releases and crime alerts.
type Repo interface {
	// ListPressReleases returns up to limit releases, newest first.
	ListPressReleases(ctx context.Context, limit int) ([]PressRelease, error)
	InsertPressRelease(ctx context.Context, release *PressRelease) (int64, error)
	// ListActiveCrimeAlerts returns up to limit active alerts, newest first.
	ListActiveCrimeAlerts(ctx context.Context, limit int) ([]CrimeAlert, error)
	InsertCrimeAlert(ctx context.Context, alert *CrimeAlert) (int64, error)
}
