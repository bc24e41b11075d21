package models

import (
	"time"
)

// ReferralStatus represents the adjudication state of a referral
type ReferralStatus string

const (
	ReferralStatusPending    ReferralStatus = "pending"
	ReferralStatusAccepted   ReferralStatus = "accepted"
	ReferralStatusRejected   ReferralStatus = "rejected"
	ReferralStatusWaitlisted ReferralStatus = "waitlisted"
)

// ValidReferralStatuses defines allowed referral statuses
var ValidReferralStatuses = map[string]bool{
	"pending":    true,
	"accepted":   true,
	"rejected":   true,
	"waitlisted": true,
}

// ValidUrgencyLevels defines allowed referral urgency levels
var ValidUrgencyLevels = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"urgent": true,
}

// Referral represents an incoming referral submitted through the intake webhook.
// It carries the same demographic fields as Participant so acceptance can copy
// them across without loss.
type Referral struct {
	ID            string  `json:"id" db:"id"`
	ParticipantID *string `json:"participant_id,omitempty" db:"participant_id"`

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

	ReferrerName         string `json:"referrer_name" db:"referrer_name"`
	ReferrerEmail        string `json:"referrer_email" db:"referrer_email"`
	ReferrerPhone        string `json:"referrer_phone" db:"referrer_phone"`
	ReferrerOrganization string `json:"referrer_organization" db:"referrer_organization"`
	ReferrerRelationship string `json:"referrer_relationship" db:"referrer_relationship"`

	IncidentDate          *time.Time `json:"incident_date,omitempty" db:"incident_date"`
	IncidentDescription   string     `json:"incident_description" db:"incident_description"`
	DesiredOutcome        string     `json:"desired_outcome" db:"desired_outcome"`
	PreviousInterventions string     `json:"previous_interventions" db:"previous_interventions"`
	UrgencyLevel          string     `json:"urgency_level" db:"urgency_level"`

	Status          ReferralStatus `json:"status" db:"status"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty" db:"processed_at"`
	ProcessedBy     *string        `json:"processed_by,omitempty" db:"processed_by"`
	RejectionReason string         `json:"rejection_reason" db:"rejection_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the referred individual's display name
func (r *Referral) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Processed reports whether the referral has reached a terminal state.
// Waitlisted referrals are not terminal and may still be accepted or rejected.
func (r *Referral) Processed() bool {
	return r.Status == ReferralStatusAccepted || r.Status == ReferralStatusRejected
}

// ReferralPayload is the JSON body accepted by the intake webhook. Dates
// arrive as ISO strings (2006-01-02) and are parsed during validation.
type ReferralPayload struct {
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

	ReferrerName         string `json:"referrer_name"`
	ReferrerEmail        string `json:"referrer_email"`
	ReferrerPhone        string `json:"referrer_phone"`
	ReferrerOrganization string `json:"referrer_organization"`
	ReferrerRelationship string `json:"referrer_relationship"`

	IncidentDate          string `json:"incident_date"`
	IncidentDescription   string `json:"incident_description"`
	DesiredOutcome        string `json:"desired_outcome"`
	PreviousInterventions string `json:"previous_interventions"`
	UrgencyLevel          string `json:"urgency_level"`
}

// RejectRequest carries the reason supplied when rejecting a referral
type RejectRequest struct {
	Reason string `json:"rejection_reason"`
}
