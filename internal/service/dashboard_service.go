package service

import (
	"context"
	"fmt"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/repository"
	"github.com/rs/zerolog"
)

// recentItems is how many recent cases and referrals the dashboard shows
const recentItems = 5

// dashboardService is the concrete implementation of DashboardService
type dashboardService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newDashboardService creates a new DashboardService
func newDashboardService(repos *repository.Repositories, log zerolog.Logger) *dashboardService {
	return &dashboardService{
		repos: repos,
		log:   log.With().Str("service", "dashboard").Logger(),
	}
}

// Get assembles the dashboard for the acting user. Recent referrals are
// included only for coordinators and above.
func (s *dashboardService) Get(ctx context.Context, actor *auth.Actor) (*models.Dashboard, error) {
	var (
		stats models.DashboardStats
		err   error
	)

	if stats.TotalParticipants, err = s.repos.Participant.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	if stats.TotalReferrals, err = s.repos.Referral.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}
	if stats.PendingReferrals, err = s.repos.Referral.CountByStatus(ctx, models.ReferralStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending referrals: %w", err)
	}
	if stats.ActiveCases, err = s.repos.Case.CountByStatus(ctx, models.CaseStatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to count active cases: %w", err)
	}
	if stats.CompletedCases, err = s.repos.Case.CountByStatus(ctx, models.CaseStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed cases: %w", err)
	}
	if stats.WaitlistedCases, err = s.repos.Case.CountByStatus(ctx, models.CaseStatusWaitlisted); err != nil {
		return nil, fmt.Errorf("failed to count waitlisted cases: %w", err)
	}

	recentCases, err := s.repos.Case.Recent(ctx, recentItems)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent cases: %w", err)
	}
	if recentCases == nil {
		recentCases = []*models.CaseWithParticipant{}
	}

	recentReferrals := []*models.Referral{}
	if actor.IsAtLeast(auth.RoleCoordinator) {
		recentReferrals, err = s.repos.Referral.Recent(ctx, recentItems)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent referrals: %w", err)
		}
		if recentReferrals == nil {
			recentReferrals = []*models.Referral{}
		}
	}

	return &models.Dashboard{
		Stats:           stats,
		RecentCases:     recentCases,
		RecentReferrals: recentReferrals,
	}, nil
}

// EntityCounts reports row counts per entity for the metrics endpoint
func (s *dashboardService) EntityCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)

	participants, err := s.repos.Participant.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	counts["participants"] = participants

	referrals, err := s.repos.Referral.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}
	counts["referrals"] = referrals

	cases, err := s.repos.Case.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}
	counts["cases"] = cases

	users, err := s.repos.User.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	counts["users"] = users

	return counts, nil
}
