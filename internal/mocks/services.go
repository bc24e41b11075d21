package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/service"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	Users             map[string]*models.User
	LoginFunc         func(ctx context.Context, username, password string) (*models.User, error)
	CreateFunc        func(ctx context.Context, input *models.UserInput) (*models.User, error)
	UpdateFunc        func(ctx context.Context, id string, input *models.UserInput) (*models.User, error)
	ToggleActiveFunc  func(ctx context.Context, id string, actor *auth.Actor) (*models.User, error)
	UpdateProfileFunc func(ctx context.Context, userID string, input *models.ProfileInput) (*models.User, error)
}

// Verify interface compliance
var _ service.UserService = (*MockUserService)(nil)

func NewMockUserService() *MockUserService {
	return &MockUserService{
		Users: make(map[string]*models.User),
	}
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	for _, u := range m.Users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserService) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	return users, nil
}

func (m *MockUserService) Create(ctx context.Context, input *models.UserInput) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input)
	}
	user := &models.User{
		ID:        fmt.Sprintf("test-user-%d", len(m.Users)+1),
		Username:  input.Username,
		Email:     input.Email,
		Role:      input.Role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	m.Users[user.ID] = user
	return user, nil
}

func (m *MockUserService) Update(ctx context.Context, id string, input *models.UserInput) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, input)
	}
	user, exists := m.Users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	user.Username = input.Username
	user.Email = input.Email
	user.Role = input.Role
	return user, nil
}

func (m *MockUserService) ToggleActive(ctx context.Context, id string, actor *auth.Actor) (*models.User, error) {
	if m.ToggleActiveFunc != nil {
		return m.ToggleActiveFunc(ctx, id, actor)
	}
	if actor != nil && actor.ID == id {
		return nil, models.ErrSelfDeactivation
	}
	user, exists := m.Users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	user.Active = !user.Active
	return user, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, input *models.ProfileInput) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, input)
	}
	user, exists := m.Users[userID]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	user.Email = input.Email
	return user, nil
}

func (m *MockUserService) EnsureAdmin(ctx context.Context) error {
	return nil
}

// MockParticipantService is a mock implementation of ParticipantService
type MockParticipantService struct {
	Participants  map[string]*models.Participant
	Details       map[string]*models.ParticipantDetail
	SearchResults []*models.ParticipantSearchResult
	CreateFunc    func(ctx context.Context, input *models.ParticipantInput) (*models.Participant, error)
	UpdateFunc    func(ctx context.Context, id string, input *models.ParticipantInput) (*models.Participant, error)
	SearchFunc    func(ctx context.Context, query string) ([]*models.ParticipantSearchResult, error)
}

// Verify interface compliance
var _ service.ParticipantService = (*MockParticipantService)(nil)

func NewMockParticipantService() *MockParticipantService {
	return &MockParticipantService{
		Participants:  make(map[string]*models.Participant),
		Details:       make(map[string]*models.ParticipantDetail),
		SearchResults: make([]*models.ParticipantSearchResult, 0),
	}
}

func (m *MockParticipantService) Create(ctx context.Context, input *models.ParticipantInput) (*models.Participant, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input)
	}
	participant := &models.Participant{
		ID:        fmt.Sprintf("test-participant-%d", len(m.Participants)+1),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Source:    models.SourceManual,
		CreatedAt: time.Now().UTC(),
	}
	m.Participants[participant.ID] = participant
	return participant, nil
}

func (m *MockParticipantService) Update(ctx context.Context, id string, input *models.ParticipantInput) (*models.Participant, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, input)
	}
	participant, exists := m.Participants[id]
	if !exists {
		return nil, models.ErrParticipantNotFound
	}
	participant.FirstName = input.FirstName
	participant.LastName = input.LastName
	participant.Email = input.Email
	return participant, nil
}

func (m *MockParticipantService) Get(ctx context.Context, id string) (*models.ParticipantDetail, error) {
	if detail, exists := m.Details[id]; exists {
		return detail, nil
	}
	participant, exists := m.Participants[id]
	if !exists {
		return nil, models.ErrParticipantNotFound
	}
	return &models.ParticipantDetail{
		Participant:      participant,
		Cases:            []*models.Case{},
		ImportantPersons: []*models.ImportantPerson{},
	}, nil
}

func (m *MockParticipantService) List(ctx context.Context, search string, page int) ([]*models.Participant, models.PageMeta, error) {
	participants := make([]*models.Participant, 0, len(m.Participants))
	for _, p := range m.Participants {
		participants = append(participants, p)
	}
	return participants, models.NewPageMeta(page, 20, int64(len(participants))), nil
}

func (m *MockParticipantService) Search(ctx context.Context, query string) ([]*models.ParticipantSearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return m.SearchResults, nil
}

// MockReferralService is a mock implementation of ReferralService
type MockReferralService struct {
	Referrals    map[string]*models.Referral
	SubmitFunc   func(ctx context.Context, payload *models.ReferralPayload) (*models.Referral, error)
	AcceptFunc   func(ctx context.Context, id string, actor *auth.Actor) (*models.Participant, error)
	RejectFunc   func(ctx context.Context, id string, actor *auth.Actor, reason string) (*models.Referral, error)
	WaitlistFunc func(ctx context.Context, id string, actor *auth.Actor) (*models.Referral, error)
}

// Verify interface compliance
var _ service.ReferralService = (*MockReferralService)(nil)

func NewMockReferralService() *MockReferralService {
	return &MockReferralService{
		Referrals: make(map[string]*models.Referral),
	}
}

func (m *MockReferralService) Submit(ctx context.Context, payload *models.ReferralPayload) (*models.Referral, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, payload)
	}
	referral := &models.Referral{
		ID:            fmt.Sprintf("test-referral-%d", len(m.Referrals)+1),
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		ReferrerName:  payload.ReferrerName,
		ReferrerEmail: payload.ReferrerEmail,
		Status:        models.ReferralStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	m.Referrals[referral.ID] = referral
	return referral, nil
}

func (m *MockReferralService) List(ctx context.Context, status, search string, page int) ([]*models.Referral, models.PageMeta, error) {
	referrals := make([]*models.Referral, 0, len(m.Referrals))
	for _, r := range m.Referrals {
		if status != "" && string(r.Status) != status {
			continue
		}
		referrals = append(referrals, r)
	}
	return referrals, models.NewPageMeta(page, 20, int64(len(referrals))), nil
}

func (m *MockReferralService) Get(ctx context.Context, id string) (*models.Referral, error) {
	referral, exists := m.Referrals[id]
	if !exists {
		return nil, models.ErrReferralNotFound
	}
	return referral, nil
}

func (m *MockReferralService) Accept(ctx context.Context, id string, actor *auth.Actor) (*models.Participant, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, id, actor)
	}
	referral, exists := m.Referrals[id]
	if !exists {
		return nil, models.ErrReferralNotFound
	}
	if referral.Processed() {
		return nil, models.ErrReferralProcessed
	}
	participant := &models.Participant{
		ID:        "test-participant-from-" + id,
		FirstName: referral.FirstName,
		LastName:  referral.LastName,
		Source:    models.SourceReferral,
	}
	referral.Status = models.ReferralStatusAccepted
	referral.ParticipantID = &participant.ID
	return participant, nil
}

func (m *MockReferralService) Reject(ctx context.Context, id string, actor *auth.Actor, reason string) (*models.Referral, error) {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, id, actor, reason)
	}
	referral, exists := m.Referrals[id]
	if !exists {
		return nil, models.ErrReferralNotFound
	}
	if referral.Processed() {
		return nil, models.ErrReferralProcessed
	}
	referral.Status = models.ReferralStatusRejected
	referral.RejectionReason = reason
	return referral, nil
}

func (m *MockReferralService) Waitlist(ctx context.Context, id string, actor *auth.Actor) (*models.Referral, error) {
	if m.WaitlistFunc != nil {
		return m.WaitlistFunc(ctx, id, actor)
	}
	referral, exists := m.Referrals[id]
	if !exists {
		return nil, models.ErrReferralNotFound
	}
	if referral.Processed() {
		return nil, models.ErrReferralProcessed
	}
	referral.Status = models.ReferralStatusWaitlisted
	return referral, nil
}

// MockCaseService is a mock implementation of CaseService
type MockCaseService struct {
	Cases         map[string]*models.Case
	Notes         map[string][]*models.CaseNote
	CreateFunc    func(ctx context.Context, participantID string, input *models.CaseInput) (*models.Case, error)
	UpdateFunc    func(ctx context.Context, id string, input *models.CaseInput) (*models.Case, error)
	AddNoteFunc   func(ctx context.Context, caseID string, actor *auth.Actor, input *models.CaseNoteInput) (*models.CaseNote, error)
	ListNotesFunc func(ctx context.Context, caseID string, actor *auth.Actor) ([]*models.CaseNote, error)
}

// Verify interface compliance
var _ service.CaseService = (*MockCaseService)(nil)

func NewMockCaseService() *MockCaseService {
	return &MockCaseService{
		Cases: make(map[string]*models.Case),
		Notes: make(map[string][]*models.CaseNote),
	}
}

func (m *MockCaseService) Create(ctx context.Context, participantID string, input *models.CaseInput) (*models.Case, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, participantID, input)
	}
	now := time.Now().UTC()
	c := &models.Case{
		ID:            fmt.Sprintf("test-case-%d", len(m.Cases)+1),
		ParticipantID: participantID,
		CaseNumber:    fmt.Sprintf("RJ-%d-%04d", now.Year(), len(m.Cases)+1),
		ProgramType:   input.ProgramType,
		Status:        models.CaseStatusInProgress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Status != "" {
		c.Status = input.Status
	}
	m.Cases[c.ID] = c
	return c, nil
}

func (m *MockCaseService) Update(ctx context.Context, id string, input *models.CaseInput) (*models.Case, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, input)
	}
	c, exists := m.Cases[id]
	if !exists {
		return nil, models.ErrCaseNotFound
	}
	c.ProgramType = input.ProgramType
	if input.Status != "" {
		c.Status = input.Status
	}
	return c, nil
}

func (m *MockCaseService) Get(ctx context.Context, id string) (*models.Case, error) {
	c, exists := m.Cases[id]
	if !exists {
		return nil, models.ErrCaseNotFound
	}
	return c, nil
}

func (m *MockCaseService) List(ctx context.Context, status, search string, page int) ([]*models.CaseWithParticipant, models.PageMeta, error) {
	cases := make([]*models.CaseWithParticipant, 0, len(m.Cases))
	for _, c := range m.Cases {
		if status != "" && c.Status != status {
			continue
		}
		cases = append(cases, &models.CaseWithParticipant{Case: *c})
	}
	return cases, models.NewPageMeta(page, 20, int64(len(cases))), nil
}

func (m *MockCaseService) AddNote(ctx context.Context, caseID string, actor *auth.Actor, input *models.CaseNoteInput) (*models.CaseNote, error) {
	if m.AddNoteFunc != nil {
		return m.AddNoteFunc(ctx, caseID, actor, input)
	}
	if _, exists := m.Cases[caseID]; !exists {
		return nil, models.ErrCaseNotFound
	}
	note := &models.CaseNote{
		ID:             fmt.Sprintf("test-note-%d", len(m.Notes[caseID])+1),
		CaseID:         caseID,
		UserID:         actor.ID,
		NoteText:       input.NoteText,
		NoteType:       input.NoteType,
		IsConfidential: input.IsConfidential,
		CreatedAt:      time.Now().UTC(),
		Author:         actor.Username,
	}
	m.Notes[caseID] = append(m.Notes[caseID], note)
	return note, nil
}

func (m *MockCaseService) ListNotes(ctx context.Context, caseID string, actor *auth.Actor) ([]*models.CaseNote, error) {
	if m.ListNotesFunc != nil {
		return m.ListNotesFunc(ctx, caseID, actor)
	}
	if _, exists := m.Cases[caseID]; !exists {
		return nil, models.ErrCaseNotFound
	}
	notes := make([]*models.CaseNote, 0)
	for _, n := range m.Notes[caseID] {
		if n.IsConfidential && !actor.IsAtLeast(auth.RoleCoordinator) {
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	Dashboard *models.Dashboard
	Counts    map[string]int64
	GetFunc   func(ctx context.Context, actor *auth.Actor) (*models.Dashboard, error)
}

// Verify interface compliance
var _ service.DashboardService = (*MockDashboardService)(nil)

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{
		Counts: make(map[string]int64),
	}
}

func (m *MockDashboardService) Get(ctx context.Context, actor *auth.Actor) (*models.Dashboard, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, actor)
	}
	if m.Dashboard != nil {
		return m.Dashboard, nil
	}
	return &models.Dashboard{
		RecentCases:     []*models.CaseWithParticipant{},
		RecentReferrals: []*models.Referral{},
	}, nil
}

func (m *MockDashboardService) EntityCounts(ctx context.Context) (map[string]int64, error) {
	return m.Counts, nil
}
