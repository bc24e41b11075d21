package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/config"
	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/mocks"
	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/repository"
	"github.com/case-management-api/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// testEnv bundles the mock repositories behind a real service layer
type testEnv struct {
	users        *mocks.MockUserRepository
	participants *mocks.MockParticipantRepository
	referrals    *mocks.MockReferralRepository
	cases        *mocks.MockCaseRepository
	notes        *mocks.MockCaseNoteRepository
	services     *service.Services
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:        mocks.NewMockUserRepository(),
		participants: mocks.NewMockParticipantRepository(),
		referrals:    mocks.NewMockReferralRepository(),
		cases:        mocks.NewMockCaseRepository(),
		notes:        mocks.NewMockCaseNoteRepository(),
	}
	repos := &repository.Repositories{
		User:        env.users,
		Participant: env.participants,
		Referral:    env.referrals,
		Case:        env.cases,
		CaseNote:    env.notes,
	}
	cfg := &config.Config{}
	cfg.App.PageSize = 20
	cfg.App.AdminUsername = "admin"
	cfg.App.AdminEmail = "admin@example.com"
	cfg.App.AdminPassword = "admin123"
	env.services = service.NewServices(repos, cfg, zerolog.Nop())
	return env
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return string(hash)
}

func coordinatorActor() *auth.Actor {
	return &auth.Actor{ID: "coord-1", Username: "casey", Role: auth.RoleCoordinator, Active: true}
}

func volunteerActor() *auth.Actor {
	return &auth.Actor{ID: "vol-1", Username: "val", Role: auth.RoleVolunteer, Active: true}
}

func pendingReferral(id string) *models.Referral {
	return &models.Referral{
		ID:                  id,
		FirstName:           "Jordan",
		LastName:            "Rivera",
		Email:               "jordan@example.com",
		Phone:               "555-0101",
		SchoolName:          "Lincoln High",
		ReferrerName:        "Dana Smith",
		ReferrerEmail:       "dana@school.org",
		IncidentDescription: "Altercation in the cafeteria",
		UrgencyLevel:        "high",
		Status:              models.ReferralStatusPending,
		CreatedAt:           time.Now().UTC(),
		UpdatedAt:           time.Now().UTC(),
	}
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.users.Create(ctx, &models.User{
		ID:           "u1",
		Username:     "casey",
		Email:        "casey@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		Role:         auth.RoleCoordinator,
		Active:       true,
	})
	env.users.Create(ctx, &models.User{
		ID:           "u2",
		Username:     "retired",
		Email:        "retired@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		Role:         auth.RoleVolunteer,
		Active:       false,
	})

	user, err := env.services.User.Login(ctx, "casey", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("Expected user u1, got %s", user.ID)
	}

	if _, err := env.services.User.Login(ctx, "casey", "wrong"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := env.services.User.Login(ctx, "retired", "secret123"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for disabled account, got %v", err)
	}
	if _, err := env.services.User.Login(ctx, "nobody", "secret123"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserService_CreateDuplicates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.users.Create(ctx, &models.User{
		ID:       "u1",
		Username: "casey",
		Email:    "casey@example.com",
		Role:     auth.RoleCoordinator,
		Active:   true,
	})

	_, err := env.services.User.Create(ctx, &models.UserInput{
		Username: "casey",
		Email:    "other@example.com",
		Password: "secret123",
		Role:     auth.RoleVolunteer,
	})
	if !errors.Is(err, models.ErrDuplicateUsername) {
		t.Errorf("Expected ErrDuplicateUsername, got %v", err)
	}

	_, err = env.services.User.Create(ctx, &models.UserInput{
		Username: "other",
		Email:    "casey@example.com",
		Password: "secret123",
		Role:     auth.RoleVolunteer,
	})
	if !errors.Is(err, models.ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}

	user, err := env.services.User.Create(ctx, &models.UserInput{
		Username: "fresh",
		Email:    "fresh@example.com",
		Password: "secret123",
		Role:     auth.RoleVolunteer,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !user.Active {
		t.Error("New users should be active by default")
	}
	if user.PasswordHash == "secret123" {
		t.Error("Password should be stored hashed")
	}
}

func TestUserService_ToggleActive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.users.Create(ctx, &models.User{ID: "u1", Username: "casey", Email: "casey@example.com", Role: auth.RoleAdmin, Active: true})
	env.users.Create(ctx, &models.User{ID: "u2", Username: "val", Email: "val@example.com", Role: auth.RoleVolunteer, Active: true})

	admin := &auth.Actor{ID: "u1", Username: "casey", Role: auth.RoleAdmin, Active: true}

	// Admins cannot lock themselves out
	if _, err := env.services.User.ToggleActive(ctx, "u1", admin); !errors.Is(err, models.ErrSelfDeactivation) {
		t.Errorf("Expected ErrSelfDeactivation, got %v", err)
	}

	user, err := env.services.User.ToggleActive(ctx, "u2", admin)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if user.Active {
		t.Error("Expected account to be disabled")
	}

	user, err = env.services.User.ToggleActive(ctx, "u2", admin)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if !user.Active {
		t.Error("Expected account to be re-enabled")
	}

	if _, err := env.services.User.ToggleActive(ctx, "missing", admin); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.users.Create(ctx, &models.User{
		ID:           "u1",
		Username:     "casey",
		Email:        "casey@example.com",
		PasswordHash: hashPassword(t, "oldpass1"),
		Role:         auth.RoleCoordinator,
		Active:       true,
	})

	// Wrong current password blocks the change
	_, err := env.services.User.UpdateProfile(ctx, "u1", &models.ProfileInput{
		Email:           "casey@example.com",
		CurrentPassword: "wrong",
		NewPassword:     "newpass1",
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "current_password" {
		t.Errorf("Expected current_password field, got %s", verr.Field)
	}

	user, err := env.services.User.UpdateProfile(ctx, "u1", &models.ProfileInput{
		Email:           "new@example.com",
		CurrentPassword: "oldpass1",
		NewPassword:     "newpass1",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Errorf("Expected updated email, got %s", user.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass1")) != nil {
		t.Error("New password should verify after update")
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if err := env.services.User.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	admin, _ := env.users.GetByUsername(ctx, "admin")
	if admin == nil {
		t.Fatal("Bootstrap admin should exist")
	}
	if admin.Role != auth.RoleAdmin {
		t.Errorf("Expected admin role, got %s", admin.Role)
	}
	if !admin.Active {
		t.Error("Bootstrap admin should be active")
	}

	// Second run is a no-op
	if err := env.services.User.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin failed on second run: %v", err)
	}
	if env.users.CreateCalls != 1 {
		t.Errorf("Expected 1 create call, got %d", env.users.CreateCalls)
	}
}

func TestReferralService_Submit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	referral, err := env.services.Referral.Submit(ctx, &models.ReferralPayload{
		FirstName:     "Jordan",
		LastName:      "Rivera",
		ReferrerName:  "Dana Smith",
		ReferrerEmail: "dana@school.org",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if referral.ID == "" {
		t.Error("Submitted referral should have an ID")
	}
	if referral.Status != models.ReferralStatusPending {
		t.Errorf("Expected pending status, got %s", referral.Status)
	}
	if referral.UrgencyLevel != "medium" {
		t.Errorf("Expected medium urgency by default, got %s", referral.UrgencyLevel)
	}
	if env.referrals.Referrals[referral.ID] == nil {
		t.Error("Referral should be stored")
	}
}

func TestReferralService_SubmitValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.services.Referral.Submit(ctx, &models.ReferralPayload{
		LastName:      "Rivera",
		ReferrerName:  "Dana Smith",
		ReferrerEmail: "dana@school.org",
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "first_name" {
		t.Errorf("Expected first_name field, got %s", verr.Field)
	}
	if verr.Message != "Missing required field: first_name" {
		t.Errorf("Unexpected message: %s", verr.Message)
	}

	_, err = env.services.Referral.Submit(ctx, &models.ReferralPayload{
		FirstName:     "Jordan",
		LastName:      "Rivera",
		ReferrerName:  "Dana Smith",
		ReferrerEmail: "dana@school.org",
		DateOfBirth:   "31-12-2010",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError for bad date, got %v", err)
	}
	if verr.Field != "date_of_birth" {
		t.Errorf("Expected date_of_birth field, got %s", verr.Field)
	}
}

func TestReferralService_AcceptCopiesFields(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.referrals.Create(ctx, pendingReferral("r1"))

	participant, err := env.services.Referral.Accept(ctx, "r1", coordinatorActor())
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if participant.FirstName != "Jordan" || participant.LastName != "Rivera" {
		t.Errorf("Participant name not copied, got %s %s", participant.FirstName, participant.LastName)
	}
	if participant.Email != "jordan@example.com" {
		t.Errorf("Email not copied, got %s", participant.Email)
	}
	if participant.SchoolName != "Lincoln High" {
		t.Errorf("School not copied, got %s", participant.SchoolName)
	}
	if participant.Notes != "Altercation in the cafeteria" {
		t.Errorf("Incident description should seed notes, got %q", participant.Notes)
	}
	if participant.Source != models.SourceReferral {
		t.Errorf("Expected referral source, got %s", participant.Source)
	}

	if env.referrals.Participants[participant.ID] == nil {
		t.Error("Participant row should be inserted")
	}

	referral, _ := env.referrals.GetByID(ctx, "r1")
	if referral.Status != models.ReferralStatusAccepted {
		t.Errorf("Expected accepted status, got %s", referral.Status)
	}
	if referral.ParticipantID == nil || *referral.ParticipantID != participant.ID {
		t.Error("Referral should link the new participant")
	}
	if referral.ProcessedBy == nil || *referral.ProcessedBy != "coord-1" {
		t.Error("Referral should record the deciding user")
	}
}

func TestReferralService_TerminalStates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.referrals.Create(ctx, pendingReferral("r1"))

	if _, err := env.services.Referral.Accept(ctx, "r1", coordinatorActor()); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	// Accepted referrals cannot be decided again
	if _, err := env.services.Referral.Accept(ctx, "r1", coordinatorActor()); !errors.Is(err, models.ErrReferralProcessed) {
		t.Errorf("Expected ErrReferralProcessed on second accept, got %v", err)
	}
	if _, err := env.services.Referral.Reject(ctx, "r1", coordinatorActor(), "late"); !errors.Is(err, models.ErrReferralProcessed) {
		t.Errorf("Expected ErrReferralProcessed on reject after accept, got %v", err)
	}
	if _, err := env.services.Referral.Waitlist(ctx, "r1", coordinatorActor()); !errors.Is(err, models.ErrReferralProcessed) {
		t.Errorf("Expected ErrReferralProcessed on waitlist after accept, got %v", err)
	}

	if _, err := env.services.Referral.Accept(ctx, "missing", coordinatorActor()); !errors.Is(err, models.ErrReferralNotFound) {
		t.Errorf("Expected ErrReferralNotFound, got %v", err)
	}
}

func TestReferralService_RejectKeepsReason(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.referrals.Create(ctx, pendingReferral("r1"))

	referral, err := env.services.Referral.Reject(ctx, "r1", coordinatorActor(), "outside service area")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if referral.Status != models.ReferralStatusRejected {
		t.Errorf("Expected rejected status, got %s", referral.Status)
	}
	if referral.RejectionReason != "outside service area" {
		t.Errorf("Rejection reason not preserved, got %q", referral.RejectionReason)
	}
	if referral.ProcessedAt == nil {
		t.Error("Rejected referral should record processing time")
	}
}

func TestReferralService_WaitlistRemainsOpen(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.referrals.Create(ctx, pendingReferral("r1"))

	referral, err := env.services.Referral.Waitlist(ctx, "r1", coordinatorActor())
	if err != nil {
		t.Fatalf("Waitlist failed: %v", err)
	}
	if referral.Status != models.ReferralStatusWaitlisted {
		t.Errorf("Expected waitlisted status, got %s", referral.Status)
	}

	// A waitlisted referral can still be accepted
	if _, err := env.services.Referral.Accept(ctx, "r1", coordinatorActor()); err != nil {
		t.Fatalf("Accept after waitlist failed: %v", err)
	}
	referral, _ = env.referrals.GetByID(ctx, "r1")
	if referral.Status != models.ReferralStatusAccepted {
		t.Errorf("Expected accepted status, got %s", referral.Status)
	}
}

func TestReferralService_AcceptLosesRace(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.referrals.Create(ctx, pendingReferral("r1"))

	// The row-level guard reports the referral as already decided
	env.referrals.AcceptFunc = func(ctx context.Context, referralID string, participant *models.Participant, processedBy string) (bool, error) {
		return false, nil
	}

	if _, err := env.services.Referral.Accept(ctx, "r1", coordinatorActor()); !errors.Is(err, models.ErrReferralProcessed) {
		t.Errorf("Expected ErrReferralProcessed when guard loses, got %v", err)
	}
}

func TestCaseService_CreateGeneratesNumber(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.participants.Create(ctx, &models.Participant{ID: "p1", FirstName: "Jordan", LastName: "Rivera"}, nil)

	c, err := env.services.Case.Create(ctx, "p1", &models.CaseInput{
		ProgramType: "victim-offender-mediation",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := fmt.Sprintf("RJ-%d-0001", time.Now().UTC().Year())
	if c.CaseNumber != want {
		t.Errorf("Expected case number %s, got %s", want, c.CaseNumber)
	}
	if c.Status != models.CaseStatusInProgress {
		t.Errorf("Expected in-progress status by default, got %s", c.Status)
	}

	if _, err := env.services.Case.Create(ctx, "missing", &models.CaseInput{ProgramType: "circle-process"}); !errors.Is(err, models.ErrParticipantNotFound) {
		t.Errorf("Expected ErrParticipantNotFound, got %v", err)
	}
}

func TestCaseService_CreateRetriesOnCollision(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.participants.Create(ctx, &models.Participant{ID: "p1", FirstName: "Jordan", LastName: "Rivera"}, nil)

	// First attempt collides, second succeeds
	env.cases.CreateFunc = func(ctx context.Context, c *models.Case) error {
		if env.cases.CreateCalls == 1 {
			return database.ErrUniqueViolation
		}
		env.cases.Cases[c.ID] = c
		return nil
	}

	c, err := env.services.Case.Create(ctx, "p1", &models.CaseInput{ProgramType: "circle-process"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c == nil {
		t.Fatal("Case should be created after retry")
	}
	if env.cases.CreateCalls != 2 {
		t.Errorf("Expected 2 create attempts, got %d", env.cases.CreateCalls)
	}
}

func TestCaseService_CreateNumberExhausted(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.participants.Create(ctx, &models.Participant{ID: "p1", FirstName: "Jordan", LastName: "Rivera"}, nil)

	env.cases.CreateFunc = func(ctx context.Context, c *models.Case) error {
		return database.ErrUniqueViolation
	}

	_, err := env.services.Case.Create(ctx, "p1", &models.CaseInput{ProgramType: "circle-process"})
	if !errors.Is(err, models.ErrCaseNumberExhausted) {
		t.Errorf("Expected ErrCaseNumberExhausted, got %v", err)
	}
	if env.cases.CreateCalls != 3 {
		t.Errorf("Expected 3 create attempts, got %d", env.cases.CreateCalls)
	}
}

func TestCaseService_NoteConfidentiality(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.cases.Cases["c1"] = &models.Case{ID: "c1", ParticipantID: "p1", CaseNumber: "RJ-2026-0001", Status: models.CaseStatusInProgress}

	note, err := env.services.Case.AddNote(ctx, "c1", coordinatorActor(), &models.CaseNoteInput{
		NoteText:       "Victim requested no direct contact",
		IsConfidential: true,
	})
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if note.NoteType != "general" {
		t.Errorf("Expected general note type by default, got %s", note.NoteType)
	}
	if note.Author != "casey" {
		t.Errorf("Expected author casey, got %s", note.Author)
	}

	if _, err := env.services.Case.AddNote(ctx, "c1", volunteerActor(), &models.CaseNoteInput{
		NoteText: "Session scheduled for Tuesday",
		NoteType: "meeting",
	}); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	visible, err := env.services.Case.ListNotes(ctx, "c1", volunteerActor())
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("Volunteer should see 1 note, got %d", len(visible))
	}
	if visible[0].IsConfidential {
		t.Error("Volunteer should not see confidential notes")
	}

	all, err := env.services.Case.ListNotes(ctx, "c1", coordinatorActor())
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Coordinator should see 2 notes, got %d", len(all))
	}

	if _, err := env.services.Case.AddNote(ctx, "missing", coordinatorActor(), &models.CaseNoteInput{NoteText: "x"}); !errors.Is(err, models.ErrCaseNotFound) {
		t.Errorf("Expected ErrCaseNotFound, got %v", err)
	}
}

func TestParticipantService_ImportantPersonLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	persons := make([]models.ImportantPersonInput, 4)
	for i := range persons {
		persons[i] = models.ImportantPersonInput{Name: fmt.Sprintf("Person %d", i), Role: "mentor"}
	}

	_, err := env.services.Participant.Create(ctx, &models.ParticipantInput{
		FirstName:        "Jordan",
		LastName:         "Rivera",
		ImportantPersons: persons,
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError for too many persons, got %v", err)
	}

	participant, err := env.services.Participant.Create(ctx, &models.ParticipantInput{
		FirstName: "Jordan",
		LastName:  "Rivera",
		ImportantPersons: []models.ImportantPersonInput{
			{Name: "Maria Rivera", Role: "parent", Phone: "555-0102"},
			{Name: "Coach Lee", Role: "mentor"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stored, _ := env.participants.GetImportantPersons(ctx, participant.ID)
	if len(stored) != 2 {
		t.Fatalf("Expected 2 important persons, got %d", len(stored))
	}
	for _, p := range stored {
		if p.ParticipantID != participant.ID {
			t.Errorf("Person should belong to participant, got %s", p.ParticipantID)
		}
		if p.ID == "" {
			t.Error("Person should have an ID")
		}
	}
}

func TestParticipantService_Search(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		env.participants.Create(ctx, &models.Participant{
			ID:        fmt.Sprintf("p%d", i),
			FirstName: "Jordan",
			LastName:  fmt.Sprintf("Rivera%02d", i),
		}, nil)
	}

	// Queries below the minimum length return nothing
	results, err := env.services.Participant.Search(ctx, "j")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results == nil {
		t.Fatal("Short query should return an empty slice, not nil")
	}
	if len(results) != 0 {
		t.Errorf("Short query should return no results, got %d", len(results))
	}

	results, err = env.services.Participant.Search(ctx, "jordan")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 10 {
		t.Errorf("Expected results capped at 10, got %d", len(results))
	}
	if results[0].Name == "" {
		t.Error("Search results should carry display names")
	}
}

func TestParticipantService_ListPagination(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		env.participants.Create(ctx, &models.Participant{
			ID:        fmt.Sprintf("p%d", i),
			FirstName: "Jordan",
			LastName:  fmt.Sprintf("Rivera%02d", i),
		}, nil)
	}

	participants, meta, err := env.services.Participant.List(ctx, "", 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(participants) != 5 {
		t.Errorf("Expected 5 participants on page 2, got %d", len(participants))
	}
	if meta.Total != 25 {
		t.Errorf("Expected total 25, got %d", meta.Total)
	}
	if meta.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", meta.TotalPages)
	}
	if meta.Page != 2 {
		t.Errorf("Expected page 2, got %d", meta.Page)
	}

	// Page zero clamps to the first page
	participants, meta, err = env.services.Participant.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(participants) != 20 {
		t.Errorf("Expected a full first page, got %d", len(participants))
	}
	if meta.Page != 1 {
		t.Errorf("Expected page 1, got %d", meta.Page)
	}
}

func TestParticipantService_GetDetail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	participantID := "p1"
	env.participants.Create(ctx, &models.Participant{
		ID:        participantID,
		FirstName: "Jordan",
		LastName:  "Rivera",
		Source:    models.SourceReferral,
	}, []*models.ImportantPerson{
		{ID: "ip1", ParticipantID: participantID, Name: "Maria Rivera", Role: "parent"},
	})

	referral := pendingReferral("r1")
	referral.Status = models.ReferralStatusAccepted
	referral.ParticipantID = &participantID
	env.referrals.Create(ctx, referral)

	env.cases.Cases["c1"] = &models.Case{ID: "c1", ParticipantID: participantID, CaseNumber: "RJ-2026-0001", Status: models.CaseStatusInProgress}

	detail, err := env.services.Participant.Get(ctx, participantID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.Participant.ID != participantID {
		t.Errorf("Expected participant %s, got %s", participantID, detail.Participant.ID)
	}
	if len(detail.Cases) != 1 {
		t.Errorf("Expected 1 case, got %d", len(detail.Cases))
	}
	if len(detail.ImportantPersons) != 1 {
		t.Errorf("Expected 1 important person, got %d", len(detail.ImportantPersons))
	}
	if detail.Referral == nil || detail.Referral.ID != "r1" {
		t.Error("Referral-sourced participant should include its referral")
	}

	if _, err := env.services.Participant.Get(ctx, "missing"); !errors.Is(err, models.ErrParticipantNotFound) {
		t.Errorf("Expected ErrParticipantNotFound, got %v", err)
	}
}

func TestDashboardService_RoleVisibility(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.referrals.Create(ctx, pendingReferral("r1"))
	rejected := pendingReferral("r2")
	rejected.Status = models.ReferralStatusRejected
	env.referrals.Create(ctx, rejected)

	env.cases.Cases["c1"] = &models.Case{ID: "c1", ParticipantID: "p1", CaseNumber: "RJ-2026-0001", Status: models.CaseStatusInProgress}
	env.cases.Cases["c2"] = &models.Case{ID: "c2", ParticipantID: "p1", CaseNumber: "RJ-2026-0002", Status: models.CaseStatusCompleted}
	env.cases.Cases["c3"] = &models.Case{ID: "c3", ParticipantID: "p1", CaseNumber: "RJ-2026-0003", Status: models.CaseStatusWaitlisted}

	dashboard, err := env.services.Dashboard.Get(ctx, coordinatorActor())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if dashboard.Stats.TotalReferrals != 2 {
		t.Errorf("Expected 2 total referrals, got %d", dashboard.Stats.TotalReferrals)
	}
	if dashboard.Stats.PendingReferrals != 1 {
		t.Errorf("Expected 1 pending referral, got %d", dashboard.Stats.PendingReferrals)
	}
	if dashboard.Stats.ActiveCases != 1 {
		t.Errorf("Expected 1 active case, got %d", dashboard.Stats.ActiveCases)
	}
	if dashboard.Stats.CompletedCases != 1 {
		t.Errorf("Expected 1 completed case, got %d", dashboard.Stats.CompletedCases)
	}
	if dashboard.Stats.WaitlistedCases != 1 {
		t.Errorf("Expected 1 waitlisted case, got %d", dashboard.Stats.WaitlistedCases)
	}
	if len(dashboard.RecentReferrals) != 2 {
		t.Errorf("Coordinator should see recent referrals, got %d", len(dashboard.RecentReferrals))
	}
	if len(dashboard.RecentCases) != 3 {
		t.Errorf("Expected 3 recent cases, got %d", len(dashboard.RecentCases))
	}

	dashboard, err = env.services.Dashboard.Get(ctx, volunteerActor())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if dashboard.RecentReferrals == nil {
		t.Fatal("Recent referrals should be an empty slice for volunteers, not nil")
	}
	if len(dashboard.RecentReferrals) != 0 {
		t.Errorf("Volunteer should not see recent referrals, got %d", len(dashboard.RecentReferrals))
	}
}

func TestDashboardService_EntityCounts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.users.Create(ctx, &models.User{ID: "u1", Username: "casey", Email: "casey@example.com", Role: auth.RoleAdmin, Active: true})
	env.participants.Create(ctx, &models.Participant{ID: "p1", FirstName: "Jordan", LastName: "Rivera"}, nil)
	env.referrals.Create(ctx, pendingReferral("r1"))

	counts, err := env.services.Dashboard.EntityCounts(ctx)
	if err != nil {
		t.Fatalf("EntityCounts failed: %v", err)
	}
	if counts["users"] != 1 {
		t.Errorf("Expected 1 user, got %d", counts["users"])
	}
	if counts["participants"] != 1 {
		t.Errorf("Expected 1 participant, got %d", counts["participants"])
	}
	if counts["referrals"] != 1 {
		t.Errorf("Expected 1 referral, got %d", counts["referrals"])
	}
	if counts["cases"] != 0 {
		t.Errorf("Expected 0 cases, got %d", counts["cases"])
	}
}
