package validation

import (
	"testing"
	"time"

	"github.com/case-management-api/internal/models"
)

func validPayload() *models.ReferralPayload {
	return &models.ReferralPayload{
		FirstName:     "Jordan",
		LastName:      "Rivera",
		DateOfBirth:   "2010-04-12",
		SchoolName:    "Lincoln High",
		ReferrerName:  "Dana Smith",
		ReferrerEmail: "dana@school.org",
		IncidentDate:  "2026-02-01",
		UrgencyLevel:  "high",
	}
}

func TestValidateReferralPayload(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(p *models.ReferralPayload)
		wantField   string
		wantMessage string
	}{
		{
			name:   "valid payload with all fields",
			mutate: func(p *models.ReferralPayload) {},
		},
		{
			name: "valid payload with only required fields",
			mutate: func(p *models.ReferralPayload) {
				*p = models.ReferralPayload{
					FirstName:     "Jordan",
					LastName:      "Rivera",
					ReferrerName:  "Dana Smith",
					ReferrerEmail: "dana@school.org",
				}
			},
		},
		{
			name:        "missing first_name",
			mutate:      func(p *models.ReferralPayload) { p.FirstName = "" },
			wantField:   "first_name",
			wantMessage: "Missing required field: first_name",
		},
		{
			name:        "missing last_name",
			mutate:      func(p *models.ReferralPayload) { p.LastName = "" },
			wantField:   "last_name",
			wantMessage: "Missing required field: last_name",
		},
		{
			name:        "missing referrer_name",
			mutate:      func(p *models.ReferralPayload) { p.ReferrerName = "" },
			wantField:   "referrer_name",
			wantMessage: "Missing required field: referrer_name",
		},
		{
			name:        "missing referrer_email",
			mutate:      func(p *models.ReferralPayload) { p.ReferrerEmail = "" },
			wantField:   "referrer_email",
			wantMessage: "Missing required field: referrer_email",
		},
		{
			name: "first missing field wins",
			mutate: func(p *models.ReferralPayload) {
				p.LastName = ""
				p.ReferrerEmail = ""
			},
			wantField: "last_name",
		},
		{
			name:      "invalid date_of_birth format",
			mutate:    func(p *models.ReferralPayload) { p.DateOfBirth = "12-04-2010" },
			wantField: "date_of_birth",
		},
		{
			name:      "invalid incident_date format",
			mutate:    func(p *models.ReferralPayload) { p.IncidentDate = "February 1st" },
			wantField: "incident_date",
		},
		{
			name:      "invalid urgency level",
			mutate:    func(p *models.ReferralPayload) { p.UrgencyLevel = "critical" },
			wantField: "urgency_level",
		},
		{
			name:   "blank urgency level is allowed",
			mutate: func(p *models.ReferralPayload) { p.UrgencyLevel = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)

			err := ValidateReferralPayload(payload)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid payload, got error on %s: %s", err.Field, err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error on field %s, got none", tt.wantField)
			}
			if err.Field != tt.wantField {
				t.Errorf("Expected error on field %s, got %s", tt.wantField, err.Field)
			}
			if tt.wantMessage != "" && err.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, err.Message)
			}
		})
	}
}

func TestValidateParticipantInput(t *testing.T) {
	tests := []struct {
		name      string
		input     *models.ParticipantInput
		wantField string
	}{
		{
			name:  "valid minimal input",
			input: &models.ParticipantInput{FirstName: "Jordan", LastName: "Rivera"},
		},
		{
			name:      "missing first_name",
			input:     &models.ParticipantInput{LastName: "Rivera"},
			wantField: "first_name",
		},
		{
			name:      "missing last_name",
			input:     &models.ParticipantInput{FirstName: "Jordan"},
			wantField: "last_name",
		},
		{
			name:      "invalid email",
			input:     &models.ParticipantInput{FirstName: "Jordan", LastName: "Rivera", Email: "not-an-email"},
			wantField: "email",
		},
		{
			name:  "blank email is allowed",
			input: &models.ParticipantInput{FirstName: "Jordan", LastName: "Rivera"},
		},
		{
			name:      "invalid date of birth",
			input:     &models.ParticipantInput{FirstName: "Jordan", LastName: "Rivera", DateOfBirth: "04/12/2010"},
			wantField: "date_of_birth",
		},
		{
			name: "too many important persons",
			input: &models.ParticipantInput{
				FirstName: "Jordan", LastName: "Rivera",
				ImportantPersons: []models.ImportantPersonInput{
					{Name: "A", Role: "parent"},
					{Name: "B", Role: "mentor"},
					{Name: "C", Role: "coach"},
					{Name: "D", Role: "teacher"},
				},
			},
			wantField: "important_persons",
		},
		{
			name: "important person missing name",
			input: &models.ParticipantInput{
				FirstName: "Jordan", LastName: "Rivera",
				ImportantPersons: []models.ImportantPersonInput{
					{Role: "parent"},
				},
			},
			wantField: "important_persons",
		},
		{
			name: "important person missing role",
			input: &models.ParticipantInput{
				FirstName: "Jordan", LastName: "Rivera",
				ImportantPersons: []models.ImportantPersonInput{
					{Name: "Alex Rivera"},
				},
			},
			wantField: "important_persons",
		},
		{
			name: "maximum important persons allowed",
			input: &models.ParticipantInput{
				FirstName: "Jordan", LastName: "Rivera",
				ImportantPersons: []models.ImportantPersonInput{
					{Name: "A", Role: "parent"},
					{Name: "B", Role: "mentor"},
					{Name: "C", Role: "coach"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParticipantInput(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid input, got error on %s: %s", err.Field, err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error on field %s, got none", tt.wantField)
			}
			if err.Field != tt.wantField {
				t.Errorf("Expected error on field %s, got %s", tt.wantField, err.Field)
			}
		})
	}
}

func TestValidateCaseInput(t *testing.T) {
	tests := []struct {
		name      string
		input     *models.CaseInput
		wantField string
	}{
		{
			name:  "valid input",
			input: &models.CaseInput{ProgramType: "victim-offender-mediation", Status: "in-progress"},
		},
		{
			name:      "missing program type",
			input:     &models.CaseInput{},
			wantField: "program_type",
		},
		{
			name:      "unknown program type",
			input:     &models.CaseInput{ProgramType: "boot-camp"},
			wantField: "program_type",
		},
		{
			name:      "unknown status",
			input:     &models.CaseInput{ProgramType: "diversion", Status: "open"},
			wantField: "status",
		},
		{
			name:  "blank status is allowed",
			input: &models.CaseInput{ProgramType: "diversion"},
		},
		{
			name:      "invalid referral date",
			input:     &models.CaseInput{ProgramType: "diversion", ReferralDate: "last week"},
			wantField: "referral_date",
		},
		{
			name:      "invalid intake date",
			input:     &models.CaseInput{ProgramType: "diversion", IntakeDate: "2026-13-01"},
			wantField: "intake_date",
		},
		{
			name:      "invalid completion date",
			input:     &models.CaseInput{ProgramType: "diversion", CompletionDate: "01-06-2026"},
			wantField: "completion_date",
		},
		{
			name: "all dates valid",
			input: &models.CaseInput{
				ProgramType:    "circle-process",
				ReferralDate:   "2026-01-05",
				IntakeDate:     "2026-01-12",
				CompletionDate: "2026-03-20",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCaseInput(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid input, got error on %s: %s", err.Field, err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error on field %s, got none", tt.wantField)
			}
			if err.Field != tt.wantField {
				t.Errorf("Expected error on field %s, got %s", tt.wantField, err.Field)
			}
		})
	}
}

func TestValidateCaseNoteInput(t *testing.T) {
	tests := []struct {
		name      string
		input     *models.CaseNoteInput
		wantField string
	}{
		{
			name:  "valid note",
			input: &models.CaseNoteInput{NoteText: "Met with participant", NoteType: "meeting"},
		},
		{
			name:      "missing note text",
			input:     &models.CaseNoteInput{NoteType: "meeting"},
			wantField: "note_text",
		},
		{
			name:      "unknown note type",
			input:     &models.CaseNoteInput{NoteText: "text", NoteType: "tweet"},
			wantField: "note_type",
		},
		{
			name:  "blank note type is allowed",
			input: &models.CaseNoteInput{NoteText: "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCaseNoteInput(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid input, got error on %s: %s", err.Field, err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error on field %s, got none", tt.wantField)
			}
			if err.Field != tt.wantField {
				t.Errorf("Expected error on field %s, got %s", tt.wantField, err.Field)
			}
		})
	}
}

func TestValidateUserInput(t *testing.T) {
	tests := []struct {
		name            string
		input           *models.UserInput
		requirePassword bool
		wantField       string
	}{
		{
			name:            "valid create",
			input:           &models.UserInput{Username: "casey", Email: "casey@test.com", Password: "secret1", Role: "coordinator"},
			requirePassword: true,
		},
		{
			name:            "missing username",
			input:           &models.UserInput{Email: "casey@test.com", Password: "secret1", Role: "coordinator"},
			requirePassword: true,
			wantField:       "username",
		},
		{
			name:            "username too short",
			input:           &models.UserInput{Username: "cc", Email: "casey@test.com", Password: "secret1", Role: "coordinator"},
			requirePassword: true,
			wantField:       "username",
		},
		{
			name:            "invalid email",
			input:           &models.UserInput{Username: "casey", Email: "casey@", Password: "secret1", Role: "coordinator"},
			requirePassword: true,
			wantField:       "email",
		},
		{
			name:            "missing password on create",
			input:           &models.UserInput{Username: "casey", Email: "casey@test.com", Role: "coordinator"},
			requirePassword: true,
			wantField:       "password",
		},
		{
			name:            "blank password allowed on edit",
			input:           &models.UserInput{Username: "casey", Email: "casey@test.com", Role: "coordinator"},
			requirePassword: false,
		},
		{
			name:            "short password rejected on edit too",
			input:           &models.UserInput{Username: "casey", Email: "casey@test.com", Password: "abc", Role: "coordinator"},
			requirePassword: false,
			wantField:       "password",
		},
		{
			name:            "missing role",
			input:           &models.UserInput{Username: "casey", Email: "casey@test.com", Password: "secret1"},
			requirePassword: true,
			wantField:       "role",
		},
		{
			name:            "unknown role",
			input:           &models.UserInput{Username: "casey", Email: "casey@test.com", Password: "secret1", Role: "superadmin"},
			requirePassword: true,
			wantField:       "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserInput(tt.input, tt.requirePassword)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid input, got error on %s: %s", err.Field, err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error on field %s, got none", tt.wantField)
			}
			if err.Field != tt.wantField {
				t.Errorf("Expected error on field %s, got %s", tt.wantField, err.Field)
			}
		})
	}
}

func TestValidateProfileInput(t *testing.T) {
	tests := []struct {
		name      string
		input     *models.ProfileInput
		wantField string
	}{
		{
			name:  "email only",
			input: &models.ProfileInput{Email: "casey@test.com"},
		},
		{
			name:      "missing email",
			input:     &models.ProfileInput{},
			wantField: "email",
		},
		{
			name:      "invalid email",
			input:     &models.ProfileInput{Email: "casey"},
			wantField: "email",
		},
		{
			name:  "password change with current password",
			input: &models.ProfileInput{Email: "casey@test.com", CurrentPassword: "old-secret", NewPassword: "new-secret"},
		},
		{
			name:      "password change without current password",
			input:     &models.ProfileInput{Email: "casey@test.com", NewPassword: "new-secret"},
			wantField: "current_password",
		},
		{
			name:      "new password too short",
			input:     &models.ProfileInput{Email: "casey@test.com", CurrentPassword: "old-secret", NewPassword: "abc"},
			wantField: "new_password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileInput(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid input, got error on %s: %s", err.Field, err.Message)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error on field %s, got none", tt.wantField)
			}
			if err.Field != tt.wantField {
				t.Errorf("Expected error on field %s, got %s", tt.wantField, err.Field)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "empty yields nil", value: "", wantNil: true},
		{name: "valid ISO date", value: "2026-02-01", want: "2026-02-01"},
		{name: "leap day", value: "2024-02-29", want: "2024-02-29"},
		{name: "non-leap February 29", value: "2026-02-29", wantErr: true},
		{name: "US format rejected", value: "02/01/2026", wantErr: true},
		{name: "datetime rejected", value: "2026-02-01T10:00:00Z", wantErr: true},
		{name: "month out of range", value: "2026-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected parse error for %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tt.value, err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected nil for empty input, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected a parsed date for %q", tt.value)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseDateUTC(t *testing.T) {
	got, err := ParseDate("2026-06-15")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Location() != time.UTC {
		t.Errorf("Parsed dates should be UTC, got %v", got.Location())
	}
}

func BenchmarkValidateReferralPayload(b *testing.B) {
	payload := validPayload()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ValidateReferralPayload(payload)
	}
}

func BenchmarkValidateParticipantInput(b *testing.B) {
	input := &models.ParticipantInput{
		FirstName:   "Jordan",
		LastName:    "Rivera",
		Email:       "jordan@test.com",
		DateOfBirth: "2010-04-12",
		ImportantPersons: []models.ImportantPersonInput{
			{Name: "Alex Rivera", Role: "parent"},
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ValidateParticipantInput(input)
	}
}
