package service

import (
	"context"
	"fmt"
	"time"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/repository"
	"github.com/case-management-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// caseNumberAttempts bounds retries when a generated case number collides
// with a concurrent creation
const caseNumberAttempts = 3

// defaultNoteType is applied when a note omits its type
const defaultNoteType = "general"

// caseService is the concrete implementation of CaseService
type caseService struct {
	repos    *repository.Repositories
	pageSize int
	log      zerolog.Logger
}

// newCaseService creates a new CaseService
func newCaseService(repos *repository.Repositories, pageSize int, log zerolog.Logger) *caseService {
	return &caseService{
		repos:    repos,
		pageSize: pageSize,
		log:      log.With().Str("service", "case").Logger(),
	}
}

// applyCaseInput copies request fields onto a case. A blank status keeps
// the case's current one.
func applyCaseInput(c *models.Case, input *models.CaseInput) {
	c.ProgramType = input.ProgramType
	if input.Status != "" {
		c.Status = input.Status
	}
	c.Description = input.Description
	c.AssignedStaff = input.AssignedStaff

	c.ReferralDate, _ = validation.ParseDate(input.ReferralDate)
	c.IntakeDate, _ = validation.ParseDate(input.IntakeDate)
	c.CompletionDate, _ = validation.ParseDate(input.CompletionDate)

	c.ReferringAgency = input.ReferringAgency
	c.OffenseType = input.OffenseType
	c.VictimInfo = input.VictimInfo
	c.OutcomeNotes = input.OutcomeNotes
}

// nextCaseNumber derives the next sequential case number from the live
// case count
func (s *caseService) nextCaseNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := s.repos.Case.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count cases: %w", err)
	}
	return fmt.Sprintf("RJ-%d-%04d", now.Year(), count+1), nil
}

// Create opens a new case for a participant. The unique constraint on
// case_number is the final arbiter against concurrent creations; on a
// collision the number is regenerated from a fresh count.
func (s *caseService) Create(ctx context.Context, participantID string, input *models.CaseInput) (*models.Case, error) {
	participant, err := s.repos.Participant.GetByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if participant == nil {
		return nil, models.ErrParticipantNotFound
	}

	if verr := validation.ValidateCaseInput(input); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	c := &models.Case{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		Status:        models.CaseStatusInProgress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyCaseInput(c, input)

	for attempt := 0; attempt < caseNumberAttempts; attempt++ {
		number, err := s.nextCaseNumber(ctx, now)
		if err != nil {
			return nil, err
		}
		c.CaseNumber = number

		err = s.repos.Case.Create(ctx, c)
		if err == nil {
			s.log.Info().
				Str("case_id", c.ID).
				Str("case_number", c.CaseNumber).
				Str("participant_id", participantID).
				Msg("Case created")
			return c, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create case: %w", err)
		}
	}

	return nil, models.ErrCaseNumberExhausted
}

// Update rewrites a case's editable fields
func (s *caseService) Update(ctx context.Context, id string, input *models.CaseInput) (*models.Case, error) {
	c, err := s.repos.Case.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	if c == nil {
		return nil, models.ErrCaseNotFound
	}

	if verr := validation.ValidateCaseInput(input); verr != nil {
		return nil, verr
	}

	applyCaseInput(c, input)
	c.UpdatedAt = time.Now().UTC()

	if err := s.repos.Case.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}

	s.log.Info().Str("case_id", id).Str("status", c.Status).Msg("Case updated")
	return c, nil
}

// Get retrieves a case by ID
func (s *caseService) Get(ctx context.Context, id string) (*models.Case, error) {
	c, err := s.repos.Case.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	if c == nil {
		return nil, models.ErrCaseNotFound
	}
	return c, nil
}

// List retrieves a page of cases with optional status filter and search
func (s *caseService) List(ctx context.Context, status, search string, page int) ([]*models.CaseWithParticipant, models.PageMeta, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	cases, total, err := s.repos.Case.List(ctx, status, search, s.pageSize, offset)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list cases: %w", err)
	}

	return cases, models.NewPageMeta(page, s.pageSize, total), nil
}

// AddNote appends a note to a case, authored by the acting user
func (s *caseService) AddNote(ctx context.Context, caseID string, actor *auth.Actor, input *models.CaseNoteInput) (*models.CaseNote, error) {
	c, err := s.repos.Case.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	if c == nil {
		return nil, models.ErrCaseNotFound
	}

	if verr := validation.ValidateCaseNoteInput(input); verr != nil {
		return nil, verr
	}

	noteType := input.NoteType
	if noteType == "" {
		noteType = defaultNoteType
	}

	note := &models.CaseNote{
		ID:             uuid.New().String(),
		CaseID:         caseID,
		UserID:         actor.ID,
		NoteText:       input.NoteText,
		NoteType:       noteType,
		IsConfidential: input.IsConfidential,
		CreatedAt:      time.Now().UTC(),
		Author:         actor.Username,
	}

	if err := s.repos.CaseNote.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create case note: %w", err)
	}

	s.log.Info().
		Str("case_id", caseID).
		Str("note_type", noteType).
		Bool("confidential", note.IsConfidential).
		Msg("Case note added")
	return note, nil
}

// ListNotes retrieves a case's notes. Confidential notes are withheld
// from actors below coordinator.
func (s *caseService) ListNotes(ctx context.Context, caseID string, actor *auth.Actor) ([]*models.CaseNote, error) {
	c, err := s.repos.Case.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	if c == nil {
		return nil, models.ErrCaseNotFound
	}

	notes, err := s.repos.CaseNote.ListByCase(ctx, caseID, actor.IsAtLeast(auth.RoleCoordinator))
	if err != nil {
		return nil, fmt.Errorf("failed to list case notes: %w", err)
	}
	if notes == nil {
		notes = []*models.CaseNote{}
	}
	return notes, nil
}
