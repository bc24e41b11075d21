package repository

import (
	"context"

	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
)

// rowScanner abstracts sql.Row and sql.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UsernameExists(ctx context.Context, username, excludeID string) (bool, error)
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ParticipantRepository defines the interface for participant data operations.
// Create and Update manage the important-person set in the same transaction
// as the participant row.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant, persons []*models.ImportantPerson) error
	Update(ctx context.Context, participant *models.Participant, persons []*models.ImportantPerson) error
	GetByID(ctx context.Context, id string) (*models.Participant, error)
	List(ctx context.Context, search string, limit, offset int) ([]*models.Participant, int64, error)
	SearchBrief(ctx context.Context, query string, limit int) ([]*models.ParticipantSearchResult, error)
	GetImportantPersons(ctx context.Context, participantID string) ([]*models.ImportantPerson, error)
	Count(ctx context.Context) (int64, error)
}

// ReferralRepository defines the interface for referral data operations.
// Accept and MarkProcessed return false when the referral was already
// adjudicated, so a concurrent decision loses cleanly.
type ReferralRepository interface {
	Create(ctx context.Context, referral *models.Referral) error
	GetByID(ctx context.Context, id string) (*models.Referral, error)
	GetByParticipantID(ctx context.Context, participantID string) (*models.Referral, error)
	List(ctx context.Context, status, search string, limit, offset int) ([]*models.Referral, int64, error)
	Accept(ctx context.Context, referralID string, participant *models.Participant, processedBy string) (bool, error)
	MarkProcessed(ctx context.Context, referralID string, status models.ReferralStatus, processedBy, rejectionReason string) (bool, error)
	Recent(ctx context.Context, limit int) ([]*models.Referral, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.ReferralStatus) (int64, error)
}

// CaseRepository defines the interface for case data operations
type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) error
	Update(ctx context.Context, c *models.Case) error
	GetByID(ctx context.Context, id string) (*models.Case, error)
	List(ctx context.Context, status, search string, limit, offset int) ([]*models.CaseWithParticipant, int64, error)
	ListByParticipant(ctx context.Context, participantID string) ([]*models.Case, error)
	Recent(ctx context.Context, limit int) ([]*models.CaseWithParticipant, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// CaseNoteRepository defines the interface for case note data operations
type CaseNoteRepository interface {
	Create(ctx context.Context, note *models.CaseNote) error
	ListByCase(ctx context.Context, caseID string, includeConfidential bool) ([]*models.CaseNote, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	Participant ParticipantRepository
	Referral    ReferralRepository
	Case        CaseRepository
	CaseNote    CaseNoteRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepo(db),
		Participant: NewParticipantRepo(db),
		Referral:    NewReferralRepo(db),
		Case:        NewCaseRepo(db),
		CaseNote:    NewCaseNoteRepo(db),
	}
}
