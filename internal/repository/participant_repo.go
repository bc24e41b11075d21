package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
)

// participantColumns is the full select list shared by participant reads
const participantColumns = `id, first_name, last_name, date_of_birth, phone, email,
	street_address, city, state, zip_code,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	school_name, grade_level, race, ethnicity, gender_identity, sex, pronouns, family_structure,
	allergies, illnesses_disabilities, primary_care_doctor, emergency_instructions,
	preferred_contact_method, preferred_language, notes, source, created_at, updated_at`

// participantRepo is the concrete implementation of ParticipantRepository
type participantRepo struct {
	db *database.DB
}

// NewParticipantRepo creates a new participant repository
func NewParticipantRepo(db *database.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

// scanParticipant reads one participant row. Optional columns are stored
// as NULL and surface as empty strings on the model.
func scanParticipant(s rowScanner) (*models.Participant, error) {
	var p models.Participant
	var dob sql.NullTime
	var phone, email, street, city, state, zip sql.NullString
	var ecName, ecPhone, ecRel sql.NullString
	var school, grade sql.NullString
	var race, ethnicity, gender, sex, pronouns, family sql.NullString
	var allergies, illnesses, doctor, instructions sql.NullString
	var contactMethod, language, notes sql.NullString

	err := s.Scan(
		&p.ID, &p.FirstName, &p.LastName, &dob, &phone, &email,
		&street, &city, &state, &zip,
		&ecName, &ecPhone, &ecRel,
		&school, &grade, &race, &ethnicity, &gender, &sex, &pronouns, &family,
		&allergies, &illnesses, &doctor, &instructions,
		&contactMethod, &language, &notes, &p.Source, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dob.Valid {
		p.DateOfBirth = &dob.Time
	}
	p.Phone = phone.String
	p.Email = email.String
	p.StreetAddress = street.String
	p.City = city.String
	p.State = state.String
	p.ZipCode = zip.String
	p.EmergencyContactName = ecName.String
	p.EmergencyContactPhone = ecPhone.String
	p.EmergencyContactRelationship = ecRel.String
	p.SchoolName = school.String
	p.GradeLevel = grade.String
	p.Race = race.String
	p.Ethnicity = ethnicity.String
	p.GenderIdentity = gender.String
	p.Sex = sex.String
	p.Pronouns = pronouns.String
	p.FamilyStructure = family.String
	p.Allergies = allergies.String
	p.IllnessesDisabilities = illnesses.String
	p.PrimaryCareDoctor = doctor.String
	p.EmergencyInstructions = instructions.String
	p.PreferredContactMethod = contactMethod.String
	p.PreferredLanguage = language.String
	p.Notes = notes.String

	return &p, nil
}

// insertParticipant writes a participant row inside a transaction. Referral
// acceptance shares this with participant creation.
func insertParticipant(ctx context.Context, tx *database.Tx, p *models.Participant) error {
	query := `
		INSERT INTO participants (id, first_name, last_name, date_of_birth, phone, email,
			street_address, city, state, zip_code,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			school_name, grade_level, race, ethnicity, gender_identity, sex, pronouns, family_structure,
			allergies, illnesses_disabilities, primary_care_doctor, emergency_instructions,
			preferred_contact_method, preferred_language, notes, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
	`
	_, err := tx.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth,
		nullString(p.Phone), nullString(p.Email),
		nullString(p.StreetAddress), nullString(p.City), nullString(p.State), nullString(p.ZipCode),
		nullString(p.EmergencyContactName), nullString(p.EmergencyContactPhone), nullString(p.EmergencyContactRelationship),
		nullString(p.SchoolName), nullString(p.GradeLevel),
		nullString(p.Race), nullString(p.Ethnicity), nullString(p.GenderIdentity), nullString(p.Sex),
		nullString(p.Pronouns), nullString(p.FamilyStructure),
		nullString(p.Allergies), nullString(p.IllnessesDisabilities), nullString(p.PrimaryCareDoctor),
		nullString(p.EmergencyInstructions),
		nullString(p.PreferredContactMethod), nullString(p.PreferredLanguage), nullString(p.Notes),
		p.Source, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// insertImportantPerson writes one important-person row inside a transaction
func insertImportantPerson(ctx context.Context, tx *database.Tx, person *models.ImportantPerson) error {
	query := `
		INSERT INTO important_persons (id, participant_id, name, role, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		person.ID, person.ParticipantID, person.Name, person.Role,
		nullString(person.Phone), nullString(person.Email), nullString(person.Notes),
		person.CreatedAt, person.UpdatedAt,
	)
	return err
}

// Create inserts a participant and its important persons atomically
func (r *participantRepo) Create(ctx context.Context, participant *models.Participant, persons []*models.ImportantPerson) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertParticipant(ctx, tx, participant); err != nil {
		return err
	}
	for _, person := range persons {
		if err := insertImportantPerson(ctx, tx, person); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Update rewrites a participant's fields and replaces its important-person
// set in one transaction
func (r *participantRepo) Update(ctx context.Context, participant *models.Participant, persons []*models.ImportantPerson) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE participants SET
			first_name = $1, last_name = $2, date_of_birth = $3, phone = $4, email = $5,
			street_address = $6, city = $7, state = $8, zip_code = $9,
			emergency_contact_name = $10, emergency_contact_phone = $11, emergency_contact_relationship = $12,
			school_name = $13, grade_level = $14, race = $15, ethnicity = $16,
			gender_identity = $17, sex = $18, pronouns = $19, family_structure = $20,
			allergies = $21, illnesses_disabilities = $22, primary_care_doctor = $23, emergency_instructions = $24,
			preferred_contact_method = $25, preferred_language = $26, notes = $27, updated_at = $28
		WHERE id = $29
	`
	_, err = tx.ExecContext(ctx, query,
		participant.FirstName, participant.LastName, participant.DateOfBirth,
		nullString(participant.Phone), nullString(participant.Email),
		nullString(participant.StreetAddress), nullString(participant.City), nullString(participant.State), nullString(participant.ZipCode),
		nullString(participant.EmergencyContactName), nullString(participant.EmergencyContactPhone), nullString(participant.EmergencyContactRelationship),
		nullString(participant.SchoolName), nullString(participant.GradeLevel),
		nullString(participant.Race), nullString(participant.Ethnicity), nullString(participant.GenderIdentity), nullString(participant.Sex),
		nullString(participant.Pronouns), nullString(participant.FamilyStructure),
		nullString(participant.Allergies), nullString(participant.IllnessesDisabilities), nullString(participant.PrimaryCareDoctor),
		nullString(participant.EmergencyInstructions),
		nullString(participant.PreferredContactMethod), nullString(participant.PreferredLanguage), nullString(participant.Notes),
		participant.UpdatedAt, participant.ID,
	)
	if err != nil {
		return err
	}

	// Replace the important-person set
	if _, err := tx.ExecContext(ctx, "DELETE FROM important_persons WHERE participant_id = $1", participant.ID); err != nil {
		return err
	}
	for _, person := range persons {
		if err := insertImportantPerson(ctx, tx, person); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a participant by ID
func (r *participantRepo) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	query := fmt.Sprintf("SELECT %s FROM participants WHERE id = $1", participantColumns)

	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves a page of participants with an optional name/email search
func (r *participantRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.Participant, int64, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = "WHERE LOWER(first_name) LIKE $1 OR LOWER(last_name) LIKE $1 OR LOWER(email) LIKE $1"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM participants %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM participants %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d",
		participantColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, 0, err
		}
		participants = append(participants, p)
	}

	return participants, total, rows.Err()
}

// SearchBrief returns lightweight name matches for the typeahead endpoint
func (r *participantRepo) SearchBrief(ctx context.Context, query string, limit int) ([]*models.ParticipantSearchResult, error) {
	sqlQuery := `
		SELECT id, first_name, last_name, email FROM participants
		WHERE LOWER(first_name) LIKE $1 OR LOWER(last_name) LIKE $1
		ORDER BY last_name, first_name
		LIMIT $2
	`
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := r.db.QueryContext(ctx, sqlQuery, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.ParticipantSearchResult
	for rows.Next() {
		var id, firstName, lastName string
		var email sql.NullString
		if err := rows.Scan(&id, &firstName, &lastName, &email); err != nil {
			return nil, err
		}
		results = append(results, &models.ParticipantSearchResult{
			ID:    id,
			Name:  firstName + " " + lastName,
			Email: email.String,
		})
	}

	return results, rows.Err()
}

// GetImportantPersons retrieves a participant's important persons
func (r *participantRepo) GetImportantPersons(ctx context.Context, participantID string) ([]*models.ImportantPerson, error) {
	query := `
		SELECT id, participant_id, name, role, phone, email, notes, created_at, updated_at
		FROM important_persons WHERE participant_id = $1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []*models.ImportantPerson
	for rows.Next() {
		var person models.ImportantPerson
		var phone, email, notes sql.NullString
		err := rows.Scan(
			&person.ID, &person.ParticipantID, &person.Name, &person.Role,
			&phone, &email, &notes, &person.CreatedAt, &person.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		person.Phone = phone.String
		person.Email = email.String
		person.Notes = notes.String
		persons = append(persons, &person)
	}

	return persons, rows.Err()
}

// Count returns the total number of participants
func (r *participantRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM participants").Scan(&count)
	return count, err
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
