package models

import (
	"time"
)

// ValidNoteTypes defines allowed case note categories
var ValidNoteTypes = map[string]bool{
	"general":    true,
	"meeting":    true,
	"phone_call": true,
	"email":      true,
	"visit":      true,
	"court":      true,
	"follow_up":  true,
}

// CaseNote represents a dated narrative entry on a case. Confidential
// notes are visible to coordinators and admins only.
type CaseNote struct {
	ID             string    `json:"id" db:"id"`
	CaseID         string    `json:"case_id" db:"case_id"`
	UserID         string    `json:"user_id" db:"user_id"`
	NoteText       string    `json:"note_text" db:"note_text"`
	NoteType       string    `json:"note_type" db:"note_type"`
	IsConfidential bool      `json:"is_confidential" db:"is_confidential"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Author is the username of the staff member who wrote the note,
	// resolved by join at read time.
	Author string `json:"author" db:"-"`
}

// CaseNoteInput represents a create note request
type CaseNoteInput struct {
	NoteText       string `json:"note_text"`
	NoteType       string `json:"note_type"`
	IsConfidential bool   `json:"is_confidential"`
}
