package bulletins

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sounak286/RAKSHA-SATHI/auth"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/sounak286/RAKSHA-SATHI/token"
)

const defaultSeverity = "medium"

type CreatePressReleaseRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type CreateCrimeAlertRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	District    string `json:"district"`
}

// Service serves the locally stored press releases and crime alerts.
type Service struct {
	repo    Repo
	nowTime func() time.Time
}

type ServiceOption func(*Service)

func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repo Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[bulletins NewService] repo is required")
	}
	s := &Service{repo: repo, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Service) PressReleases(ctx context.Context) ([]PressRelease, error) {
	releases, err := s.repo.ListPressReleases(ctx, PressReleaseLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "Failed to fetch press releases", err)
	}
	return releases, nil
}

// CreatePressRelease stores a release dated now. Admin only.
func (s *Service) CreatePressRelease(ctx context.Context, claims *token.Claims, req CreatePressReleaseRequest) (int64, error) {
	if err := auth.RequireAdmin(claims); err != nil {
		return 0, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return 0, apperrors.New(apperrors.ErrValidation, "Title and content are required")
	}

	release := &PressRelease{
		Title:    req.Title,
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
		Date:     s.nowTime().UTC(),
	}
	id, err := s.repo.InsertPressRelease(ctx, release)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternal, "Failed to create press release", err)
	}
	return id, nil
}

func (s *Service) CrimeAlerts(ctx context.Context) ([]CrimeAlert, error) {
	alerts, err := s.repo.ListActiveCrimeAlerts(ctx, CrimeAlertLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "Failed to fetch crime alerts", err)
	}
	return alerts, nil
}

// CreateCrimeAlert stores an active alert. Admin only.
func (s *Service) CreateCrimeAlert(ctx context.Context, claims *token.Claims, req CreateCrimeAlertRequest) (int64, error) {
	if err := auth.RequireAdmin(claims); err != nil {
		return 0, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return 0, apperrors.New(apperrors.ErrValidation, "Title is required")
	}
	severity := strings.ToLower(strings.TrimSpace(req.Severity))
	if severity == "" {
		severity = defaultSeverity
	}

	alert := &CrimeAlert{
		Title:       req.Title,
		Description: req.Description,
		Severity:    severity,
		District:    strings.TrimSpace(req.District),
		IsActive:    true,
		CreatedAt:   s.nowTime().UTC(),
	}
	id, err := s.repo.InsertCrimeAlert(ctx, alert)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternal, "Failed to create crime alert", err)
	}
	return id, nil
}
