package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/case-management-api/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// dateLayout is the ISO date format accepted on all date fields
const dateLayout = "2006-01-02"

// ParseDate parses an ISO date string. Empty input yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ValidateReferralPayload validates a webhook referral submission. Required
// fields are checked in order so the first missing one is the one reported.
func ValidateReferralPayload(p *models.ReferralPayload) *models.ValidationError {
	required := []struct {
		field string
		value string
	}{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"referrer_name", p.ReferrerName},
		{"referrer_email", p.ReferrerEmail},
	}
	for _, f := range required {
		if f.value == "" {
			return models.NewMissingFieldError(f.field)
		}
	}

	// Validate optional dates
	if _, err := ParseDate(p.DateOfBirth); err != nil {
		return models.NewValidationError("date_of_birth", "invalid date format, expected YYYY-MM-DD")
	}
	if _, err := ParseDate(p.IncidentDate); err != nil {
		return models.NewValidationError("incident_date", "invalid date format, expected YYYY-MM-DD")
	}

	// Validate urgency level, blank falls back to the default
	if p.UrgencyLevel != "" && !models.ValidUrgencyLevels[p.UrgencyLevel] {
		return models.NewValidationError("urgency_level", "invalid urgency level, must be one of: low, medium, high, urgent")
	}

	return nil
}

// ValidateParticipantInput validates a participant create/edit request
func ValidateParticipantInput(in *models.ParticipantInput) *models.ValidationError {
	if in.FirstName == "" {
		return models.NewMissingFieldError("first_name")
	}
	if in.LastName == "" {
		return models.NewMissingFieldError("last_name")
	}

	// Validate email format if present
	if in.Email != "" && !emailRegex.MatchString(in.Email) {
		return models.NewValidationError("email", "invalid email format")
	}

	// Validate optional date of birth
	if _, err := ParseDate(in.DateOfBirth); err != nil {
		return models.NewValidationError("date_of_birth", "invalid date format, expected YYYY-MM-DD")
	}

	// Validate important persons list
	if len(in.ImportantPersons) > models.MaxImportantPersons {
		return models.NewValidationError("important_persons",
			fmt.Sprintf("at most %d important persons allowed", models.MaxImportantPersons))
	}
	for i, person := range in.ImportantPersons {
		if person.Name == "" {
			return models.NewValidationError("important_persons",
				fmt.Sprintf("entry %d: name is required", i+1))
		}
		if person.Role == "" {
			return models.NewValidationError("important_persons",
				fmt.Sprintf("entry %d: role is required", i+1))
		}
	}

	return nil
}

// ValidateCaseInput validates a case create/edit request
func ValidateCaseInput(in *models.CaseInput) *models.ValidationError {
	if in.ProgramType == "" {
		return models.NewMissingFieldError("program_type")
	}
	if !models.ValidProgramTypes[in.ProgramType] {
		return models.NewValidationError("program_type", "invalid program type")
	}

	// Validate status, blank falls back to the default
	if in.Status != "" && !models.ValidCaseStatuses[in.Status] {
		return models.NewValidationError("status", "invalid case status")
	}

	// Validate optional dates
	if _, err := ParseDate(in.ReferralDate); err != nil {
		return models.NewValidationError("referral_date", "invalid date format, expected YYYY-MM-DD")
	}
	if _, err := ParseDate(in.IntakeDate); err != nil {
		return models.NewValidationError("intake_date", "invalid date format, expected YYYY-MM-DD")
	}
	if _, err := ParseDate(in.CompletionDate); err != nil {
		return models.NewValidationError("completion_date", "invalid date format, expected YYYY-MM-DD")
	}

	return nil
}

// ValidateCaseNoteInput validates a case note create request
func ValidateCaseNoteInput(in *models.CaseNoteInput) *models.ValidationError {
	if in.NoteText == "" {
		return models.NewMissingFieldError("note_text")
	}

	// Validate note type, blank falls back to the default
	if in.NoteType != "" && !models.ValidNoteTypes[in.NoteType] {
		return models.NewValidationError("note_type", "invalid note type")
	}

	return nil
}

// ValidateUserInput validates a user create/edit request. requirePassword
// is true on create; on edit a blank password keeps the current one.
func ValidateUserInput(in *models.UserInput, requirePassword bool) *models.ValidationError {
	if in.Username == "" {
		return models.NewMissingFieldError("username")
	}
	if len(in.Username) < 3 {
		return models.NewValidationError("username", "username must be at least 3 characters")
	}

	if in.Email == "" {
		return models.NewMissingFieldError("email")
	}
	if !emailRegex.MatchString(in.Email) {
		return models.NewValidationError("email", "invalid email format")
	}

	if requirePassword && in.Password == "" {
		return models.NewMissingFieldError("password")
	}
	if in.Password != "" && len(in.Password) < 6 {
		return models.NewValidationError("password", "password must be at least 6 characters")
	}

	if in.Role == "" {
		return models.NewMissingFieldError("role")
	}
	if !models.ValidRoles[in.Role] {
		return models.NewValidationError("role", "invalid role, must be one of: volunteer, coordinator, admin")
	}

	return nil
}

// ValidateProfileInput validates a self-service profile update
func ValidateProfileInput(in *models.ProfileInput) *models.ValidationError {
	if in.Email == "" {
		return models.NewMissingFieldError("email")
	}
	if !emailRegex.MatchString(in.Email) {
		return models.NewValidationError("email", "invalid email format")
	}

	// Password change is optional but must be complete when attempted
	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return models.NewMissingFieldError("current_password")
		}
		if len(in.NewPassword) < 6 {
			return models.NewValidationError("new_password", "password must be at least 6 characters")
		}
	}

	return nil
}
