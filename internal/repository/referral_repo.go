package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
)

// referralColumns is the full select list shared by referral reads
const referralColumns = `id, participant_id, first_name, last_name, date_of_birth, phone, email,
	street_address, city, state, zip_code,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	school_name, grade_level, race, ethnicity, gender_identity, sex, pronouns, family_structure,
	allergies, illnesses_disabilities, primary_care_doctor, emergency_instructions,
	preferred_contact_method, preferred_language,
	referrer_name, referrer_email, referrer_phone, referrer_organization, referrer_relationship,
	incident_date, incident_description, desired_outcome, previous_interventions, urgency_level,
	status, processed_at, processed_by, rejection_reason, created_at, updated_at`

// referralRepo is the concrete implementation of ReferralRepository
type referralRepo struct {
	db *database.DB
}

// NewReferralRepo creates a new referral repository
func NewReferralRepo(db *database.DB) ReferralRepository {
	return &referralRepo{db: db}
}

// scanReferral reads one referral row
func scanReferral(s rowScanner) (*models.Referral, error) {
	var ref models.Referral
	var participantID, processedBy sql.NullString
	var dob, incidentDate, processedAt sql.NullTime
	var phone, email, street, city, state, zip sql.NullString
	var ecName, ecPhone, ecRel sql.NullString
	var school, grade sql.NullString
	var race, ethnicity, gender, sex, pronouns, family sql.NullString
	var allergies, illnesses, doctor, instructions sql.NullString
	var contactMethod, language sql.NullString
	var refPhone, refOrg, refRel sql.NullString
	var incidentDesc, desiredOutcome, previousInterventions, rejectionReason sql.NullString

	err := s.Scan(
		&ref.ID, &participantID, &ref.FirstName, &ref.LastName, &dob, &phone, &email,
		&street, &city, &state, &zip,
		&ecName, &ecPhone, &ecRel,
		&school, &grade, &race, &ethnicity, &gender, &sex, &pronouns, &family,
		&allergies, &illnesses, &doctor, &instructions,
		&contactMethod, &language,
		&ref.ReferrerName, &ref.ReferrerEmail, &refPhone, &refOrg, &refRel,
		&incidentDate, &incidentDesc, &desiredOutcome, &previousInterventions, &ref.UrgencyLevel,
		&ref.Status, &processedAt, &processedBy, &rejectionReason, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if participantID.Valid {
		ref.ParticipantID = &participantID.String
	}
	if dob.Valid {
		ref.DateOfBirth = &dob.Time
	}
	if incidentDate.Valid {
		ref.IncidentDate = &incidentDate.Time
	}
	if processedAt.Valid {
		ref.ProcessedAt = &processedAt.Time
	}
	if processedBy.Valid {
		ref.ProcessedBy = &processedBy.String
	}
	ref.Phone = phone.String
	ref.Email = email.String
	ref.StreetAddress = street.String
	ref.City = city.String
	ref.State = state.String
	ref.ZipCode = zip.String
	ref.EmergencyContactName = ecName.String
	ref.EmergencyContactPhone = ecPhone.String
	ref.EmergencyContactRelationship = ecRel.String
	ref.SchoolName = school.String
	ref.GradeLevel = grade.String
	ref.Race = race.String
	ref.Ethnicity = ethnicity.String
	ref.GenderIdentity = gender.String
	ref.Sex = sex.String
	ref.Pronouns = pronouns.String
	ref.FamilyStructure = family.String
	ref.Allergies = allergies.String
	ref.IllnessesDisabilities = illnesses.String
	ref.PrimaryCareDoctor = doctor.String
	ref.EmergencyInstructions = instructions.String
	ref.PreferredContactMethod = contactMethod.String
	ref.PreferredLanguage = language.String
	ref.ReferrerPhone = refPhone.String
	ref.ReferrerOrganization = refOrg.String
	ref.ReferrerRelationship = refRel.String
	ref.IncidentDescription = incidentDesc.String
	ref.DesiredOutcome = desiredOutcome.String
	ref.PreviousInterventions = previousInterventions.String
	ref.RejectionReason = rejectionReason.String

	return &ref, nil
}

// Create inserts a new referral in pending state
func (r *referralRepo) Create(ctx context.Context, referral *models.Referral) error {
	query := `
		INSERT INTO referrals (id, first_name, last_name, date_of_birth, phone, email,
			street_address, city, state, zip_code,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			school_name, grade_level, race, ethnicity, gender_identity, sex, pronouns, family_structure,
			allergies, illnesses_disabilities, primary_care_doctor, emergency_instructions,
			preferred_contact_method, preferred_language,
			referrer_name, referrer_email, referrer_phone, referrer_organization, referrer_relationship,
			incident_date, incident_description, desired_outcome, previous_interventions, urgency_level,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34,
			$35, $36, $37, $38, $39, $40)
	`
	_, err := r.db.ExecContext(ctx, query,
		referral.ID, referral.FirstName, referral.LastName, referral.DateOfBirth,
		nullString(referral.Phone), nullString(referral.Email),
		nullString(referral.StreetAddress), nullString(referral.City), nullString(referral.State), nullString(referral.ZipCode),
		nullString(referral.EmergencyContactName), nullString(referral.EmergencyContactPhone), nullString(referral.EmergencyContactRelationship),
		nullString(referral.SchoolName), nullString(referral.GradeLevel),
		nullString(referral.Race), nullString(referral.Ethnicity), nullString(referral.GenderIdentity), nullString(referral.Sex),
		nullString(referral.Pronouns), nullString(referral.FamilyStructure),
		nullString(referral.Allergies), nullString(referral.IllnessesDisabilities), nullString(referral.PrimaryCareDoctor),
		nullString(referral.EmergencyInstructions),
		nullString(referral.PreferredContactMethod), nullString(referral.PreferredLanguage),
		referral.ReferrerName, referral.ReferrerEmail,
		nullString(referral.ReferrerPhone), nullString(referral.ReferrerOrganization), nullString(referral.ReferrerRelationship),
		referral.IncidentDate, nullString(referral.IncidentDescription),
		nullString(referral.DesiredOutcome), nullString(referral.PreviousInterventions), referral.UrgencyLevel,
		referral.Status, referral.CreatedAt, referral.UpdatedAt,
	)
	return err
}

// GetByID retrieves a referral by ID
func (r *referralRepo) GetByID(ctx context.Context, id string) (*models.Referral, error) {
	query := fmt.Sprintf("SELECT %s FROM referrals WHERE id = $1", referralColumns)

	ref, err := scanReferral(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// GetByParticipantID retrieves the referral that created a participant
func (r *referralRepo) GetByParticipantID(ctx context.Context, participantID string) (*models.Referral, error) {
	query := fmt.Sprintf("SELECT %s FROM referrals WHERE participant_id = $1", referralColumns)

	ref, err := scanReferral(r.db.QueryRowContext(ctx, query, participantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// List retrieves a page of referrals, newest first, with optional status
// filter and name search
func (r *referralRepo) List(ctx context.Context, status, search string, limit, offset int) ([]*models.Referral, int64, error) {
	var conditions []string
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(referrer_name) LIKE $%d)", n, n, n))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM referrals %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM referrals %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		referralColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var referrals []*models.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, 0, err
		}
		referrals = append(referrals, ref)
	}

	return referrals, total, rows.Err()
}

// Accept atomically creates the participant and links the referral to it.
// The update is conditional on the referral still being adjudicable, so a
// concurrent accept rolls back its participant and reports false.
func (r *referralRepo) Accept(ctx context.Context, referralID string, participant *models.Participant, processedBy string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := insertParticipant(ctx, tx, participant); err != nil {
		return false, err
	}

	query := `
		UPDATE referrals SET
			participant_id = $1, status = $2, processed_at = $3, processed_by = $4, updated_at = $5
		WHERE id = $6 AND participant_id IS NULL AND status IN ('pending', 'waitlisted')
	`
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, query,
		participant.ID, models.ReferralStatusAccepted, now, processedBy, now, referralID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// MarkProcessed moves an adjudicable referral to rejected or waitlisted.
// Reports false when the referral was already accepted or rejected.
func (r *referralRepo) MarkProcessed(ctx context.Context, referralID string, status models.ReferralStatus, processedBy, rejectionReason string) (bool, error) {
	query := `
		UPDATE referrals SET
			status = $1, rejection_reason = $2, processed_at = $3, processed_by = $4, updated_at = $5
		WHERE id = $6 AND participant_id IS NULL AND status IN ('pending', 'waitlisted')
	`
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		status, nullString(rejectionReason), now, processedBy, now, referralID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Recent retrieves the most recently submitted referrals
func (r *referralRepo) Recent(ctx context.Context, limit int) ([]*models.Referral, error) {
	query := fmt.Sprintf("SELECT %s FROM referrals ORDER BY created_at DESC LIMIT $1", referralColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var referrals []*models.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		referrals = append(referrals, ref)
	}

	return referrals, rows.Err()
}

// Count returns the total number of referrals
func (r *referralRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM referrals").Scan(&count)
	return count, err
}

// CountByStatus returns the number of referrals in the given status
func (r *referralRepo) CountByStatus(ctx context.Context, status models.ReferralStatus) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM referrals WHERE status = $1", status).Scan(&count)
	return count, err
}
