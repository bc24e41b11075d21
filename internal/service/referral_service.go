package service

import (
	"context"
	"fmt"
	"time"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/repository"
	"github.com/case-management-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultUrgency is applied when a webhook submission omits urgency_level
const defaultUrgency = "medium"

// referralService is the concrete implementation of ReferralService
type referralService struct {
	repos    *repository.Repositories
	pageSize int
	log      zerolog.Logger
}

// newReferralService creates a new ReferralService
func newReferralService(repos *repository.Repositories, pageSize int, log zerolog.Logger) *referralService {
	return &referralService{
		repos:    repos,
		pageSize: pageSize,
		log:      log.With().Str("service", "referral").Logger(),
	}
}

// Submit records an incoming webhook referral in pending state
func (s *referralService) Submit(ctx context.Context, payload *models.ReferralPayload) (*models.Referral, error) {
	if verr := validation.ValidateReferralPayload(payload); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	dob, _ := validation.ParseDate(payload.DateOfBirth)
	incidentDate, _ := validation.ParseDate(payload.IncidentDate)
	urgency := payload.UrgencyLevel
	if urgency == "" {
		urgency = defaultUrgency
	}

	referral := &models.Referral{
		ID:          uuid.New().String(),
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		DateOfBirth: dob,

		Phone:         payload.Phone,
		Email:         payload.Email,
		StreetAddress: payload.StreetAddress,
		City:          payload.City,
		State:         payload.State,
		ZipCode:       payload.ZipCode,

		EmergencyContactName:         payload.EmergencyContactName,
		EmergencyContactPhone:        payload.EmergencyContactPhone,
		EmergencyContactRelationship: payload.EmergencyContactRelationship,

		SchoolName: payload.SchoolName,
		GradeLevel: payload.GradeLevel,

		Race:            payload.Race,
		Ethnicity:       payload.Ethnicity,
		GenderIdentity:  payload.GenderIdentity,
		Sex:             payload.Sex,
		Pronouns:        payload.Pronouns,
		FamilyStructure: payload.FamilyStructure,

		Allergies:             payload.Allergies,
		IllnessesDisabilities: payload.IllnessesDisabilities,
		PrimaryCareDoctor:     payload.PrimaryCareDoctor,
		EmergencyInstructions: payload.EmergencyInstructions,

		PreferredContactMethod: payload.PreferredContactMethod,
		PreferredLanguage:      payload.PreferredLanguage,

		ReferrerName:         payload.ReferrerName,
		ReferrerEmail:        payload.ReferrerEmail,
		ReferrerPhone:        payload.ReferrerPhone,
		ReferrerOrganization: payload.ReferrerOrganization,
		ReferrerRelationship: payload.ReferrerRelationship,

		IncidentDate:          incidentDate,
		IncidentDescription:   payload.IncidentDescription,
		DesiredOutcome:        payload.DesiredOutcome,
		PreviousInterventions: payload.PreviousInterventions,
		UrgencyLevel:          urgency,

		Status:    models.ReferralStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repos.Referral.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	s.log.Info().
		Str("referral_id", referral.ID).
		Str("name", referral.FullName()).
		Str("urgency", referral.UrgencyLevel).
		Msg("Referral received")
	return referral, nil
}

// List retrieves a page of referrals with optional status filter and search
func (s *referralService) List(ctx context.Context, status, search string, page int) ([]*models.Referral, models.PageMeta, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	referrals, total, err := s.repos.Referral.List(ctx, status, search, s.pageSize, offset)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list referrals: %w", err)
	}

	return referrals, models.NewPageMeta(page, s.pageSize, total), nil
}

// Get retrieves a referral by ID
func (s *referralService) Get(ctx context.Context, id string) (*models.Referral, error) {
	referral, err := s.repos.Referral.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load referral: %w", err)
	}
	if referral == nil {
		return nil, models.ErrReferralNotFound
	}
	return referral, nil
}

// participantFromReferral copies a referral's demographic fields onto a
// new participant. The incident description becomes the intake notes.
func participantFromReferral(ref *models.Referral, now time.Time) *models.Participant {
	return &models.Participant{
		ID:          uuid.New().String(),
		FirstName:   ref.FirstName,
		LastName:    ref.LastName,
		DateOfBirth: ref.DateOfBirth,

		Phone:         ref.Phone,
		Email:         ref.Email,
		StreetAddress: ref.StreetAddress,
		City:          ref.City,
		State:         ref.State,
		ZipCode:       ref.ZipCode,

		EmergencyContactName:         ref.EmergencyContactName,
		EmergencyContactPhone:        ref.EmergencyContactPhone,
		EmergencyContactRelationship: ref.EmergencyContactRelationship,

		SchoolName: ref.SchoolName,
		GradeLevel: ref.GradeLevel,

		Race:            ref.Race,
		Ethnicity:       ref.Ethnicity,
		GenderIdentity:  ref.GenderIdentity,
		Sex:             ref.Sex,
		Pronouns:        ref.Pronouns,
		FamilyStructure: ref.FamilyStructure,

		Allergies:             ref.Allergies,
		IllnessesDisabilities: ref.IllnessesDisabilities,
		PrimaryCareDoctor:     ref.PrimaryCareDoctor,
		EmergencyInstructions: ref.EmergencyInstructions,

		PreferredContactMethod: ref.PreferredContactMethod,
		PreferredLanguage:      ref.PreferredLanguage,

		Notes:     ref.IncidentDescription,
		Source:    models.SourceReferral,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Accept turns a referral into a participant. At most one accept can ever
// succeed for a given referral; once accepted or rejected the decision is
// final.
func (s *referralService) Accept(ctx context.Context, id string, actor *auth.Actor) (*models.Participant, error) {
	referral, err := s.repos.Referral.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load referral: %w", err)
	}
	if referral == nil {
		return nil, models.ErrReferralNotFound
	}
	if referral.Processed() {
		return nil, models.ErrReferralProcessed
	}

	participant := participantFromReferral(referral, time.Now().UTC())

	ok, err := s.repos.Referral.Accept(ctx, id, participant, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept referral: %w", err)
	}
	if !ok {
		// a concurrent decision got there first
		return nil, models.ErrReferralProcessed
	}

	s.log.Info().
		Str("referral_id", id).
		Str("participant_id", participant.ID).
		Str("accepted_by", actor.Username).
		Msg("Referral accepted")
	return participant, nil
}

// Reject closes a referral with a reason. Rejection is final.
func (s *referralService) Reject(ctx context.Context, id string, actor *auth.Actor, reason string) (*models.Referral, error) {
	referral, err := s.repos.Referral.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load referral: %w", err)
	}
	if referral == nil {
		return nil, models.ErrReferralNotFound
	}
	if referral.Processed() {
		return nil, models.ErrReferralProcessed
	}

	ok, err := s.repos.Referral.MarkProcessed(ctx, id, models.ReferralStatusRejected, actor.ID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject referral: %w", err)
	}
	if !ok {
		return nil, models.ErrReferralProcessed
	}

	s.log.Info().Str("referral_id", id).Str("rejected_by", actor.Username).Msg("Referral rejected")
	return s.Get(ctx, id)
}

// Waitlist parks a referral. Waitlisted referrals can still be accepted
// or rejected later.
func (s *referralService) Waitlist(ctx context.Context, id string, actor *auth.Actor) (*models.Referral, error) {
	referral, err := s.repos.Referral.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load referral: %w", err)
	}
	if referral == nil {
		return nil, models.ErrReferralNotFound
	}
	if referral.Processed() {
		return nil, models.ErrReferralProcessed
	}

	ok, err := s.repos.Referral.MarkProcessed(ctx, id, models.ReferralStatusWaitlisted, actor.ID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to waitlist referral: %w", err)
	}
	if !ok {
		return nil, models.ErrReferralProcessed
	}

	s.log.Info().Str("referral_id", id).Str("waitlisted_by", actor.Username).Msg("Referral waitlisted")
	return s.Get(ctx, id)
}
