package service

import (
	"context"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/config"
	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/repository"
	"github.com/rs/zerolog"
)

// UserService defines the interface for authentication and user management
type UserService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, input *models.UserInput) (*models.User, error)
	Update(ctx context.Context, id string, input *models.UserInput) (*models.User, error)
	ToggleActive(ctx context.Context, id string, actor *auth.Actor) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, input *models.ProfileInput) (*models.User, error)
	EnsureAdmin(ctx context.Context) error
}

// ParticipantService defines the interface for participant operations
type ParticipantService interface {
	Create(ctx context.Context, input *models.ParticipantInput) (*models.Participant, error)
	Update(ctx context.Context, id string, input *models.ParticipantInput) (*models.Participant, error)
	Get(ctx context.Context, id string) (*models.ParticipantDetail, error)
	List(ctx context.Context, search string, page int) ([]*models.Participant, models.PageMeta, error)
	Search(ctx context.Context, query string) ([]*models.ParticipantSearchResult, error)
}

// ReferralService defines the interface for referral intake and adjudication
type ReferralService interface {
	Submit(ctx context.Context, payload *models.ReferralPayload) (*models.Referral, error)
	List(ctx context.Context, status, search string, page int) ([]*models.Referral, models.PageMeta, error)
	Get(ctx context.Context, id string) (*models.Referral, error)
	Accept(ctx context.Context, id string, actor *auth.Actor) (*models.Participant, error)
	Reject(ctx context.Context, id string, actor *auth.Actor, reason string) (*models.Referral, error)
	Waitlist(ctx context.Context, id string, actor *auth.Actor) (*models.Referral, error)
}

// CaseService defines the interface for case lifecycle operations
type CaseService interface {
	Create(ctx context.Context, participantID string, input *models.CaseInput) (*models.Case, error)
	Update(ctx context.Context, id string, input *models.CaseInput) (*models.Case, error)
	Get(ctx context.Context, id string) (*models.Case, error)
	List(ctx context.Context, status, search string, page int) ([]*models.CaseWithParticipant, models.PageMeta, error)
	AddNote(ctx context.Context, caseID string, actor *auth.Actor, input *models.CaseNoteInput) (*models.CaseNote, error)
	ListNotes(ctx context.Context, caseID string, actor *auth.Actor) ([]*models.CaseNote, error)
}

// DashboardService defines the interface for the dashboard and metrics
type DashboardService interface {
	Get(ctx context.Context, actor *auth.Actor) (*models.Dashboard, error)
	EntityCounts(ctx context.Context) (map[string]int64, error)
}

// Services holds all service interfaces
type Services struct {
	User        UserService
	Participant ParticipantService
	Referral    ReferralService
	Case        CaseService
	Dashboard   DashboardService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		User:        newUserService(repos.User, cfg, log),
		Participant: newParticipantService(repos, cfg.App.PageSize, log),
		Referral:    newReferralService(repos, cfg.App.PageSize, log),
		Case:        newCaseService(repos, cfg.App.PageSize, log),
		Dashboard:   newDashboardService(repos, log),
	}
}
