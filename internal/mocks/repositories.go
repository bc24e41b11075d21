package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users          map[string]*models.User
	UsernameToUser map[string]*models.User
	CreateError    error
	UpdateError    error
	CreateCalls    int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:          make(map[string]*models.User),
		UsernameToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Users[user.ID] = user
	m.UsernameToUser[user.Username] = user
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Users[user.ID] = user
	m.UsernameToUser[user.Username] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.UsernameToUser[username], nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	for _, u := range m.Users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	for _, u := range m.Users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Users)), nil
}

// MockParticipantRepository is a mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	Participants map[string]*models.Participant
	Persons      map[string][]*models.ImportantPerson
	CreateError  error
	UpdateError  error
}

func NewMockParticipantRepository() *MockParticipantRepository {
	return &MockParticipantRepository{
		Participants: make(map[string]*models.Participant),
		Persons:      make(map[string][]*models.ImportantPerson),
	}
}

func (m *MockParticipantRepository) Create(ctx context.Context, participant *models.Participant, persons []*models.ImportantPerson) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Participants[participant.ID] = participant
	m.Persons[participant.ID] = persons
	return nil
}

func (m *MockParticipantRepository) Update(ctx context.Context, participant *models.Participant, persons []*models.ImportantPerson) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Participants[participant.ID] = participant
	m.Persons[participant.ID] = persons
	return nil
}

func (m *MockParticipantRepository) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	return m.Participants[id], nil
}

func (m *MockParticipantRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Participant, int64, error) {
	needle := strings.ToLower(search)
	var matched []*models.Participant
	for _, p := range m.Participants {
		if search == "" ||
			strings.Contains(strings.ToLower(p.FirstName), needle) ||
			strings.Contains(strings.ToLower(p.LastName), needle) ||
			strings.Contains(strings.ToLower(p.Email), needle) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LastName != matched[j].LastName {
			return matched[i].LastName < matched[j].LastName
		}
		return matched[i].FirstName < matched[j].FirstName
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*models.Participant{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MockParticipantRepository) SearchBrief(ctx context.Context, query string, limit int) ([]*models.ParticipantSearchResult, error) {
	needle := strings.ToLower(query)
	var results []*models.ParticipantSearchResult
	for _, p := range m.Participants {
		if strings.Contains(strings.ToLower(p.FirstName), needle) ||
			strings.Contains(strings.ToLower(p.LastName), needle) {
			results = append(results, &models.ParticipantSearchResult{
				ID:    p.ID,
				Name:  p.FullName(),
				Email: p.Email,
			})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MockParticipantRepository) GetImportantPersons(ctx context.Context, participantID string) ([]*models.ImportantPerson, error) {
	return m.Persons[participantID], nil
}

func (m *MockParticipantRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Participants)), nil
}

// MockReferralRepository is a mock implementation of ReferralRepository.
// Accept and MarkProcessed enforce the same already-adjudicated guard as
// the real repository. Participants holds the rows Accept inserted.
type MockReferralRepository struct {
	Referrals         map[string]*models.Referral
	Participants      map[string]*models.Participant
	CreateError       error
	AcceptFunc        func(ctx context.Context, referralID string, participant *models.Participant, processedBy string) (bool, error)
	MarkProcessedFunc func(ctx context.Context, referralID string, status models.ReferralStatus, processedBy, rejectionReason string) (bool, error)
}

func NewMockReferralRepository() *MockReferralRepository {
	return &MockReferralRepository{
		Referrals:    make(map[string]*models.Referral),
		Participants: make(map[string]*models.Participant),
	}
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Referrals[referral.ID] = referral
	return nil
}

func (m *MockReferralRepository) GetByID(ctx context.Context, id string) (*models.Referral, error) {
	return m.Referrals[id], nil
}

func (m *MockReferralRepository) GetByParticipantID(ctx context.Context, participantID string) (*models.Referral, error) {
	for _, r := range m.Referrals {
		if r.ParticipantID != nil && *r.ParticipantID == participantID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *MockReferralRepository) List(ctx context.Context, status, search string, limit, offset int) ([]*models.Referral, int64, error) {
	needle := strings.ToLower(search)
	var matched []*models.Referral
	for _, r := range m.Referrals {
		if status != "" && string(r.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.FirstName), needle) &&
			!strings.Contains(strings.ToLower(r.LastName), needle) &&
			!strings.Contains(strings.ToLower(r.ReferrerName), needle) {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*models.Referral{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MockReferralRepository) Accept(ctx context.Context, referralID string, participant *models.Participant, processedBy string) (bool, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, referralID, participant, processedBy)
	}
	ref, exists := m.Referrals[referralID]
	if !exists || ref.ParticipantID != nil || ref.Processed() {
		return false, nil
	}
	now := time.Now().UTC()
	m.Participants[participant.ID] = participant
	ref.ParticipantID = &participant.ID
	ref.Status = models.ReferralStatusAccepted
	ref.ProcessedAt = &now
	ref.ProcessedBy = &processedBy
	ref.UpdatedAt = now
	return true, nil
}

func (m *MockReferralRepository) MarkProcessed(ctx context.Context, referralID string, status models.ReferralStatus, processedBy, rejectionReason string) (bool, error) {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, referralID, status, processedBy, rejectionReason)
	}
	ref, exists := m.Referrals[referralID]
	if !exists || ref.ParticipantID != nil || ref.Processed() {
		return false, nil
	}
	now := time.Now().UTC()
	ref.Status = status
	ref.RejectionReason = rejectionReason
	ref.ProcessedAt = &now
	ref.ProcessedBy = &processedBy
	ref.UpdatedAt = now
	return true, nil
}

func (m *MockReferralRepository) Recent(ctx context.Context, limit int) ([]*models.Referral, error) {
	referrals := make([]*models.Referral, 0, len(m.Referrals))
	for _, r := range m.Referrals {
		referrals = append(referrals, r)
	}
	sort.Slice(referrals, func(i, j int) bool { return referrals[i].CreatedAt.After(referrals[j].CreatedAt) })
	if limit > 0 && len(referrals) > limit {
		referrals = referrals[:limit]
	}
	return referrals, nil
}

func (m *MockReferralRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Referrals)), nil
}

func (m *MockReferralRepository) CountByStatus(ctx context.Context, status models.ReferralStatus) (int64, error) {
	var count int64
	for _, r := range m.Referrals {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

// MockCaseRepository is a mock implementation of CaseRepository.
// Create rejects duplicate case numbers with the shared unique-violation
// sentinel. ParticipantNames backs the participant join for listings.
type MockCaseRepository struct {
	Cases            map[string]*models.Case
	CaseNumbers      map[string]string
	ParticipantNames map[string]string
	CreateError      error
	UpdateError      error
	CreateCalls      int
	CreateFunc       func(ctx context.Context, c *models.Case) error
}

func NewMockCaseRepository() *MockCaseRepository {
	return &MockCaseRepository{
		Cases:            make(map[string]*models.Case),
		CaseNumbers:      make(map[string]string),
		ParticipantNames: make(map[string]string),
	}
}

func (m *MockCaseRepository) Create(ctx context.Context, c *models.Case) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, taken := m.CaseNumbers[c.CaseNumber]; taken {
		return database.ErrUniqueViolation
	}
	m.Cases[c.ID] = c
	m.CaseNumbers[c.CaseNumber] = c.ID
	return nil
}

func (m *MockCaseRepository) Update(ctx context.Context, c *models.Case) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Cases[c.ID] = c
	return nil
}

func (m *MockCaseRepository) GetByID(ctx context.Context, id string) (*models.Case, error) {
	return m.Cases[id], nil
}

func (m *MockCaseRepository) withParticipant(c *models.Case) *models.CaseWithParticipant {
	return &models.CaseWithParticipant{
		Case:            *c,
		ParticipantName: m.ParticipantNames[c.ParticipantID],
	}
}

func (m *MockCaseRepository) List(ctx context.Context, status, search string, limit, offset int) ([]*models.CaseWithParticipant, int64, error) {
	needle := strings.ToLower(search)
	var matched []*models.CaseWithParticipant
	for _, c := range m.Cases {
		if status != "" && c.Status != status {
			continue
		}
		cp := m.withParticipant(c)
		if search != "" &&
			!strings.Contains(strings.ToLower(cp.ParticipantName), needle) &&
			!strings.Contains(strings.ToLower(c.CaseNumber), needle) {
			continue
		}
		matched = append(matched, cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*models.CaseWithParticipant{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MockCaseRepository) ListByParticipant(ctx context.Context, participantID string) ([]*models.Case, error) {
	var cases []*models.Case
	for _, c := range m.Cases {
		if c.ParticipantID == participantID {
			cases = append(cases, c)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].CreatedAt.After(cases[j].CreatedAt) })
	return cases, nil
}

func (m *MockCaseRepository) Recent(ctx context.Context, limit int) ([]*models.CaseWithParticipant, error) {
	cases := make([]*models.CaseWithParticipant, 0, len(m.Cases))
	for _, c := range m.Cases {
		cases = append(cases, m.withParticipant(c))
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].CreatedAt.After(cases[j].CreatedAt) })
	if limit > 0 && len(cases) > limit {
		cases = cases[:limit]
	}
	return cases, nil
}

func (m *MockCaseRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Cases)), nil
}

func (m *MockCaseRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	for _, c := range m.Cases {
		if c.Status == status {
			count++
		}
	}
	return count, nil
}

// MockCaseNoteRepository is a mock implementation of CaseNoteRepository
type MockCaseNoteRepository struct {
	Notes       map[string][]*models.CaseNote
	CreateError error
}

func NewMockCaseNoteRepository() *MockCaseNoteRepository {
	return &MockCaseNoteRepository{
		Notes: make(map[string][]*models.CaseNote),
	}
}

func (m *MockCaseNoteRepository) Create(ctx context.Context, note *models.CaseNote) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Notes[note.CaseID] = append(m.Notes[note.CaseID], note)
	return nil
}

func (m *MockCaseNoteRepository) ListByCase(ctx context.Context, caseID string, includeConfidential bool) ([]*models.CaseNote, error) {
	var notes []*models.CaseNote
	for _, n := range m.Notes[caseID] {
		if n.IsConfidential && !includeConfidential {
			continue
		}
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}
