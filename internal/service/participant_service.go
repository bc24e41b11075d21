package service

import (
	"context"
	"fmt"
	"time"

	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/repository"
	"github.com/case-management-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Typeahead search bounds: queries shorter than minSearchLength return
// nothing, matches are capped at searchResultLimit.
const (
	minSearchLength   = 2
	searchResultLimit = 10
)

// participantService is the concrete implementation of ParticipantService
type participantService struct {
	repos    *repository.Repositories
	pageSize int
	log      zerolog.Logger
}

// newParticipantService creates a new ParticipantService
func newParticipantService(repos *repository.Repositories, pageSize int, log zerolog.Logger) *participantService {
	return &participantService{
		repos:    repos,
		pageSize: pageSize,
		log:      log.With().Str("service", "participant").Logger(),
	}
}

// applyParticipantInput copies request fields onto a participant
func applyParticipantInput(p *models.Participant, input *models.ParticipantInput) {
	p.FirstName = input.FirstName
	p.LastName = input.LastName
	p.Phone = input.Phone
	p.Email = input.Email
	p.StreetAddress = input.StreetAddress
	p.City = input.City
	p.State = input.State
	p.ZipCode = input.ZipCode
	p.EmergencyContactName = input.EmergencyContactName
	p.EmergencyContactPhone = input.EmergencyContactPhone
	p.EmergencyContactRelationship = input.EmergencyContactRelationship
	p.SchoolName = input.SchoolName
	p.GradeLevel = input.GradeLevel
	p.Race = input.Race
	p.Ethnicity = input.Ethnicity
	p.GenderIdentity = input.GenderIdentity
	p.Sex = input.Sex
	p.Pronouns = input.Pronouns
	p.FamilyStructure = input.FamilyStructure
	p.Allergies = input.Allergies
	p.IllnessesDisabilities = input.IllnessesDisabilities
	p.PrimaryCareDoctor = input.PrimaryCareDoctor
	p.EmergencyInstructions = input.EmergencyInstructions
	p.PreferredContactMethod = input.PreferredContactMethod
	p.PreferredLanguage = input.PreferredLanguage
	p.Notes = input.Notes
}

// buildImportantPersons materializes the supportive-contact set for a
// participant write. The set is replaced wholesale on every edit.
func buildImportantPersons(participantID string, inputs []models.ImportantPersonInput, now time.Time) []*models.ImportantPerson {
	persons := make([]*models.ImportantPerson, 0, len(inputs))
	for _, in := range inputs {
		persons = append(persons, &models.ImportantPerson{
			ID:            uuid.New().String(),
			ParticipantID: participantID,
			Name:          in.Name,
			Role:          in.Role,
			Phone:         in.Phone,
			Email:         in.Email,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return persons
}

// Create adds a manually entered participant with its important persons
func (s *participantService) Create(ctx context.Context, input *models.ParticipantInput) (*models.Participant, error) {
	if verr := validation.ValidateParticipantInput(input); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	participant := &models.Participant{
		ID:        uuid.New().String(),
		Source:    models.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyParticipantInput(participant, input)
	dob, _ := validation.ParseDate(input.DateOfBirth)
	participant.DateOfBirth = dob

	persons := buildImportantPersons(participant.ID, input.ImportantPersons, now)

	if err := s.repos.Participant.Create(ctx, participant, persons); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	s.log.Info().
		Str("participant_id", participant.ID).
		Str("name", participant.FullName()).
		Msg("Participant created")
	return participant, nil
}

// Update rewrites a participant's fields and replaces its important persons
func (s *participantService) Update(ctx context.Context, id string, input *models.ParticipantInput) (*models.Participant, error) {
	participant, err := s.repos.Participant.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if participant == nil {
		return nil, models.ErrParticipantNotFound
	}

	if verr := validation.ValidateParticipantInput(input); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	applyParticipantInput(participant, input)
	dob, _ := validation.ParseDate(input.DateOfBirth)
	participant.DateOfBirth = dob
	participant.UpdatedAt = now

	persons := buildImportantPersons(id, input.ImportantPersons, now)

	if err := s.repos.Participant.Update(ctx, participant, persons); err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	s.log.Info().Str("participant_id", id).Msg("Participant updated")
	return participant, nil
}

// Get retrieves a participant with its cases, important persons, and the
// referral that created it
func (s *participantService) Get(ctx context.Context, id string) (*models.ParticipantDetail, error) {
	participant, err := s.repos.Participant.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if participant == nil {
		return nil, models.ErrParticipantNotFound
	}

	cases, err := s.repos.Case.ListByParticipant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}

	persons, err := s.repos.Participant.GetImportantPersons(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load important persons: %w", err)
	}

	detail := &models.ParticipantDetail{
		Participant:      participant,
		Cases:            cases,
		ImportantPersons: persons,
	}

	if participant.Source == models.SourceReferral {
		referral, err := s.repos.Referral.GetByParticipantID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load referral: %w", err)
		}
		detail.Referral = referral
	}

	return detail, nil
}

// List retrieves a page of participants with an optional search
func (s *participantService) List(ctx context.Context, search string, page int) ([]*models.Participant, models.PageMeta, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	participants, total, err := s.repos.Participant.List(ctx, search, s.pageSize, offset)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, models.NewPageMeta(page, s.pageSize, total), nil
}

// Search runs the typeahead lookup. Short queries yield an empty result,
// never an error.
func (s *participantService) Search(ctx context.Context, query string) ([]*models.ParticipantSearchResult, error) {
	if len(query) < minSearchLength {
		return []*models.ParticipantSearchResult{}, nil
	}

	results, err := s.repos.Participant.SearchBrief(ctx, query, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search participants: %w", err)
	}
	if results == nil {
		results = []*models.ParticipantSearchResult{}
	}
	return results, nil
}
