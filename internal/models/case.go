package models

import (
	"time"
)

// ValidCaseStatuses defines allowed case statuses. The enumeration is
// unordered: a case may move from any status to any other.
var ValidCaseStatuses = map[string]bool{
	"in-progress":  true,
	"waitlisted":   true,
	"paused":       true,
	"completed":    true,
	"referred-out": true,
	"no-show":      true,
}

// ValidProgramTypes defines allowed restorative-justice program types
var ValidProgramTypes = map[string]bool{
	"victim-offender-mediation": true,
	"family-group-conferencing": true,
	"circle-process":            true,
	"community-service":         true,
	"restitution":               true,
	"peer-mediation":            true,
	"diversion":                 true,
	"other":                     true,
}

// Case statuses referenced by name in aggregations
const (
	CaseStatusInProgress = "in-progress"
	CaseStatusWaitlisted = "waitlisted"
	CaseStatusCompleted  = "completed"
)

// Case represents one program engagement for a participant
type Case struct {
	ID            string `json:"id" db:"id"`
	ParticipantID string `json:"participant_id" db:"participant_id"`
	CaseNumber    string `json:"case_number" db:"case_number"`
	ProgramType   string `json:"program_type" db:"program_type"`
	Status        string `json:"status" db:"status"`
	Description   string `json:"description" db:"description"`
	AssignedStaff string `json:"assigned_staff" db:"assigned_staff"`

	ReferralDate   *time.Time `json:"referral_date,omitempty" db:"referral_date"`
	IntakeDate     *time.Time `json:"intake_date,omitempty" db:"intake_date"`
	CompletionDate *time.Time `json:"completion_date,omitempty" db:"completion_date"`

	ReferringAgency string `json:"referring_agency" db:"referring_agency"`
	OffenseType     string `json:"offense_type" db:"offense_type"`
	VictimInfo      string `json:"victim_info" db:"victim_info"`
	OutcomeNotes    string `json:"outcome_notes" db:"outcome_notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CaseWithParticipant pairs a case with its participant's display name for listings
type CaseWithParticipant struct {
	Case
	ParticipantName string `json:"participant_name" db:"-"`
}

// CaseInput represents a create/update case request. Dates arrive as ISO
// strings (2006-01-02) and are parsed during validation.
type CaseInput struct {
	ProgramType   string `json:"program_type"`
	Status        string `json:"status"`
	Description   string `json:"description"`
	AssignedStaff string `json:"assigned_staff"`

	ReferralDate   string `json:"referral_date"`
	IntakeDate     string `json:"intake_date"`
	CompletionDate string `json:"completion_date"`

	ReferringAgency string `json:"referring_agency"`
	OffenseType     string `json:"offense_type"`
	VictimInfo      string `json:"victim_info"`
	OutcomeNotes    string `json:"outcome_notes"`
}
