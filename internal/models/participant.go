package models

import (
	"time"
)

// Participant sources
const (
	SourceManual   = "manual"
	SourceReferral = "referral"
)

// MaxImportantPersons bounds the supportive-contact list carried on a participant
const MaxImportantPersons = 3

// Participant represents an individual enrolled in the program
type Participant struct {
	ID          string     `json:"id" db:"id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`

	Phone string `json:"phone" db:"phone"`
	Email string `json:"email" db:"email"`

	StreetAddress string `json:"street_address" db:"street_address"`
	City          string `json:"city" db:"city"`
	State         string `json:"state" db:"state"`
	ZipCode       string `json:"zip_code" db:"zip_code"`

	EmergencyContactName         string `json:"emergency_contact_name" db:"emergency_contact_name"`
	EmergencyContactPhone        string `json:"emergency_contact_phone" db:"emergency_contact_phone"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship" db:"emergency_contact_relationship"`

	SchoolName string `json:"school_name" db:"school_name"`
	GradeLevel string `json:"grade_level" db:"grade_level"`

	Race            string `json:"race" db:"race"`
	Ethnicity       string `json:"ethnicity" db:"ethnicity"`
	GenderIdentity  string `json:"gender_identity" db:"gender_identity"`
	Sex             string `json:"sex" db:"sex"`
	Pronouns        string `json:"pronouns" db:"pronouns"`
	FamilyStructure string `json:"family_structure" db:"family_structure"`

	Allergies             string `json:"allergies" db:"allergies"`
	IllnessesDisabilities string `json:"illnesses_disabilities" db:"illnesses_disabilities"`
	PrimaryCareDoctor     string `json:"primary_care_doctor" db:"primary_care_doctor"`
	EmergencyInstructions string `json:"emergency_instructions" db:"emergency_instructions"`

	PreferredContactMethod string `json:"preferred_contact_method" db:"preferred_contact_method"`
	PreferredLanguage      string `json:"preferred_language" db:"preferred_language"`

	Notes  string `json:"notes" db:"notes"`
	Source string `json:"source" db:"source"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the participant's display name
func (p *Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ImportantPerson represents a supportive contact attached to a participant
type ImportantPerson struct {
	ID            string    `json:"id" db:"id"`
	ParticipantID string    `json:"participant_id" db:"participant_id"`
	Name          string    `json:"name" db:"name"`
	Role          string    `json:"role" db:"role"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email" db:"email"`
	Notes         string    `json:"notes" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ImportantPersonInput represents one supportive contact in a participant request
type ImportantPersonInput struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// ParticipantInput represents a create/update participant request.
// Dates arrive as ISO strings (2006-01-02) and are parsed during validation.
type ParticipantInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`

	Phone string `json:"phone"`
	Email string `json:"email"`

	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`

	EmergencyContactName         string `json:"emergency_contact_name"`
	EmergencyContactPhone        string `json:"emergency_contact_phone"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship"`

	SchoolName string `json:"school_name"`
	GradeLevel string `json:"grade_level"`

	Race            string `json:"race"`
	Ethnicity       string `json:"ethnicity"`
	GenderIdentity  string `json:"gender_identity"`
	Sex             string `json:"sex"`
	Pronouns        string `json:"pronouns"`
	FamilyStructure string `json:"family_structure"`

	Allergies             string `json:"allergies"`
	IllnessesDisabilities string `json:"illnesses_disabilities"`
	PrimaryCareDoctor     string `json:"primary_care_doctor"`
	EmergencyInstructions string `json:"emergency_instructions"`

	PreferredContactMethod string `json:"preferred_contact_method"`
	PreferredLanguage      string `json:"preferred_language"`

	Notes string `json:"notes"`

	ImportantPersons []ImportantPersonInput `json:"important_persons"`
}

// ParticipantDetail bundles a participant with its related records
type ParticipantDetail struct {
	Participant      *Participant       `json:"participant"`
	Cases            []*Case            `json:"cases"`
	ImportantPersons []*ImportantPerson `json:"important_persons"`
	Referral         *Referral          `json:"referral,omitempty"`
}

// ParticipantSearchResult is the compact payload returned by participant lookups
type ParticipantSearchResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
