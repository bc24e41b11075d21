package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
)

// caseColumns is the select list for unjoined case reads
const caseColumns = `id, participant_id, case_number, program_type, status, description, assigned_staff,
	referral_date, intake_date, completion_date,
	referring_agency, offense_type, victim_info, outcome_notes, created_at, updated_at`

// caseJoinColumns is the select list for case reads joined with the
// participant's name
const caseJoinColumns = `c.id, c.participant_id, c.case_number, c.program_type, c.status, c.description, c.assigned_staff,
	c.referral_date, c.intake_date, c.completion_date,
	c.referring_agency, c.offense_type, c.victim_info, c.outcome_notes, c.created_at, c.updated_at,
	p.first_name, p.last_name`

// caseRepo is the concrete implementation of CaseRepository
type caseRepo struct {
	db *database.DB
}

// NewCaseRepo creates a new case repository
func NewCaseRepo(db *database.DB) CaseRepository {
	return &caseRepo{db: db}
}

func scanCaseFields(s rowScanner, c *models.Case, extra ...interface{}) error {
	var description, assignedStaff sql.NullString
	var referralDate, intakeDate, completionDate sql.NullTime
	var referringAgency, offenseType, victimInfo, outcomeNotes sql.NullString

	dest := []interface{}{
		&c.ID, &c.ParticipantID, &c.CaseNumber, &c.ProgramType, &c.Status, &description, &assignedStaff,
		&referralDate, &intakeDate, &completionDate,
		&referringAgency, &offenseType, &victimInfo, &outcomeNotes, &c.CreatedAt, &c.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := s.Scan(dest...); err != nil {
		return err
	}

	c.Description = description.String
	c.AssignedStaff = assignedStaff.String
	if referralDate.Valid {
		c.ReferralDate = &referralDate.Time
	}
	if intakeDate.Valid {
		c.IntakeDate = &intakeDate.Time
	}
	if completionDate.Valid {
		c.CompletionDate = &completionDate.Time
	}
	c.ReferringAgency = referringAgency.String
	c.OffenseType = offenseType.String
	c.VictimInfo = victimInfo.String
	c.OutcomeNotes = outcomeNotes.String

	return nil
}

// scanCase reads one unjoined case row
func scanCase(s rowScanner) (*models.Case, error) {
	var c models.Case
	if err := scanCaseFields(s, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// scanCaseWithParticipant reads one joined case row
func scanCaseWithParticipant(s rowScanner) (*models.CaseWithParticipant, error) {
	var cw models.CaseWithParticipant
	var firstName, lastName string
	if err := scanCaseFields(s, &cw.Case, &firstName, &lastName); err != nil {
		return nil, err
	}
	cw.ParticipantName = firstName + " " + lastName
	return &cw, nil
}

// Create inserts a new case. A case_number collision surfaces as a
// unique constraint violation from the driver.
func (r *caseRepo) Create(ctx context.Context, c *models.Case) error {
	query := `
		INSERT INTO cases (id, participant_id, case_number, program_type, status, description, assigned_staff,
			referral_date, intake_date, completion_date,
			referring_agency, offense_type, victim_info, outcome_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ParticipantID, c.CaseNumber, c.ProgramType, c.Status,
		nullString(c.Description), nullString(c.AssignedStaff),
		c.ReferralDate, c.IntakeDate, c.CompletionDate,
		nullString(c.ReferringAgency), nullString(c.OffenseType), nullString(c.VictimInfo), nullString(c.OutcomeNotes),
		c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// Update rewrites a case's editable fields. participant_id and
// case_number never change after creation.
func (r *caseRepo) Update(ctx context.Context, c *models.Case) error {
	query := `
		UPDATE cases SET
			program_type = $1, status = $2, description = $3, assigned_staff = $4,
			referral_date = $5, intake_date = $6, completion_date = $7,
			referring_agency = $8, offense_type = $9, victim_info = $10, outcome_notes = $11,
			updated_at = $12
		WHERE id = $13
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ProgramType, c.Status, nullString(c.Description), nullString(c.AssignedStaff),
		c.ReferralDate, c.IntakeDate, c.CompletionDate,
		nullString(c.ReferringAgency), nullString(c.OffenseType), nullString(c.VictimInfo), nullString(c.OutcomeNotes),
		c.UpdatedAt, c.ID,
	)
	return err
}

// GetByID retrieves a case by ID
func (r *caseRepo) GetByID(ctx context.Context, id string) (*models.Case, error) {
	query := fmt.Sprintf("SELECT %s FROM cases WHERE id = $1", caseColumns)

	c, err := scanCase(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves a page of cases joined with participant names, newest
// first, with optional status filter and search over participant name and
// case number
func (r *caseRepo) List(ctx context.Context, status, search string, limit, offset int) ([]*models.CaseWithParticipant, int64, error) {
	var conditions []string
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(p.first_name) LIKE $%d OR LOWER(p.last_name) LIKE $%d OR LOWER(c.case_number) LIKE $%d)", n, n, n))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	base := "FROM cases c JOIN participants p ON p.id = c.participant_id " + where

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s %s ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d",
		caseJoinColumns, base, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cases []*models.CaseWithParticipant
	for rows.Next() {
		cw, err := scanCaseWithParticipant(rows)
		if err != nil {
			return nil, 0, err
		}
		cases = append(cases, cw)
	}

	return cases, total, rows.Err()
}

// ListByParticipant retrieves a participant's cases, newest first
func (r *caseRepo) ListByParticipant(ctx context.Context, participantID string) ([]*models.Case, error) {
	query := fmt.Sprintf("SELECT %s FROM cases WHERE participant_id = $1 ORDER BY created_at DESC", caseColumns)

	rows, err := r.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	return cases, rows.Err()
}

// Recent retrieves the most recently opened cases with participant names
func (r *caseRepo) Recent(ctx context.Context, limit int) ([]*models.CaseWithParticipant, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM cases c JOIN participants p ON p.id = c.participant_id ORDER BY c.created_at DESC LIMIT $1",
		caseJoinColumns,
	)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*models.CaseWithParticipant
	for rows.Next() {
		cw, err := scanCaseWithParticipant(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, cw)
	}

	return cases, rows.Err()
}

// Count returns the total number of cases
func (r *caseRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cases").Scan(&count)
	return count, err
}

// CountByStatus returns the number of cases in the given status
func (r *caseRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cases WHERE status = $1", status).Scan(&count)
	return count, err
}
