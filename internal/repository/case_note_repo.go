package repository

import (
	"context"
	"database/sql"

	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
)

// caseNoteRepo is the concrete implementation of CaseNoteRepository
type caseNoteRepo struct {
	db *database.DB
}

// NewCaseNoteRepo creates a new case note repository
func NewCaseNoteRepo(db *database.DB) CaseNoteRepository {
	return &caseNoteRepo{db: db}
}

// Create inserts a new case note
func (r *caseNoteRepo) Create(ctx context.Context, note *models.CaseNote) error {
	query := `
		INSERT INTO case_notes (id, case_id, user_id, note_text, note_type, is_confidential, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		note.ID, note.CaseID, note.UserID, note.NoteText, note.NoteType,
		note.IsConfidential, note.CreatedAt,
	)
	return err
}

// ListByCase retrieves a case's notes newest first, joined with the
// author's username. Confidential notes are filtered out unless the
// caller may see them.
func (r *caseNoteRepo) ListByCase(ctx context.Context, caseID string, includeConfidential bool) ([]*models.CaseNote, error) {
	query := `
		SELECT n.id, n.case_id, n.user_id, n.note_text, n.note_type, n.is_confidential, n.created_at, u.username
		FROM case_notes n
		JOIN users u ON u.id = n.user_id
		WHERE n.case_id = $1
	`
	if !includeConfidential {
		query += " AND n.is_confidential = $2"
	}
	query += " ORDER BY n.created_at DESC"

	var rows *sql.Rows
	var err error
	if includeConfidential {
		rows, err = r.db.QueryContext(ctx, query, caseID)
	} else {
		rows, err = r.db.QueryContext(ctx, query, caseID, false)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.CaseNote
	for rows.Next() {
		var note models.CaseNote
		err := rows.Scan(
			&note.ID, &note.CaseID, &note.UserID, &note.NoteText, &note.NoteType,
			&note.IsConfidential, &note.CreatedAt, &note.Author,
		)
		if err != nil {
			return nil, err
		}
		notes = append(notes, &note)
	}

	return notes, rows.Err()
}
