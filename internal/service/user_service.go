package service

import (
	"context"
	"fmt"
	"time"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/config"
	"github.com/case-management-api/internal/database"
	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/repository"
	"github.com/case-management-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// userService is the concrete implementation of UserService
type userService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	log      zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(userRepo repository.UserRepository, cfg *config.Config, log zerolog.Logger) *userService {
	return &userService{
		userRepo: userRepo,
		cfg:      cfg,
		log:      log.With().Str("service", "user").Logger(),
	}
}

// Login verifies credentials. Unknown users, wrong passwords and disabled
// accounts all fail with the same indistinct error.
func (s *userService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, models.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	s.log.Info().Str("username", user.Username).Msg("User logged in")
	return user, nil
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List retrieves all users ordered by username
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

// Create adds a new staff account
func (s *userService) Create(ctx context.Context, input *models.UserInput) (*models.User, error) {
	if verr := validation.ValidateUserInput(input, true); verr != nil {
		return nil, verr
	}

	if taken, err := s.userRepo.UsernameExists(ctx, input.Username, ""); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, models.ErrDuplicateUsername
	}
	if taken, err := s.userRepo.EmailExists(ctx, input.Email, ""); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, models.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.duplicateError(ctx, user)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("User created")
	return user, nil
}

// Update rewrites a user's account fields. A blank password keeps the
// current one.
func (s *userService) Update(ctx context.Context, id string, input *models.UserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	if verr := validation.ValidateUserInput(input, false); verr != nil {
		return nil, verr
	}

	if taken, err := s.userRepo.UsernameExists(ctx, input.Username, id); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, models.ErrDuplicateUsername
	}
	if taken, err := s.userRepo.EmailExists(ctx, input.Email, id); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, models.ErrDuplicateEmail
	}

	user.Username = input.Username
	user.Email = input.Email
	user.Role = input.Role
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.duplicateError(ctx, user)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info().Str("username", user.Username).Msg("User updated")
	return user, nil
}

// ToggleActive flips a user's active flag. Users cannot disable their
// own account.
func (s *userService) ToggleActive(ctx context.Context, id string, actor *auth.Actor) (*models.User, error) {
	if actor.ID == id {
		return nil, models.ErrSelfDeactivation
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	user.Active = !user.Active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info().
		Str("username", user.Username).
		Bool("is_active", user.Active).
		Str("toggled_by", actor.Username).
		Msg("User active flag toggled")
	return user, nil
}

// UpdateProfile lets a user change their own email and password. A
// password change requires the current password to verify.
func (s *userService) UpdateProfile(ctx context.Context, userID string, input *models.ProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	if verr := validation.ValidateProfileInput(input); verr != nil {
		return nil, verr
	}

	if taken, err := s.userRepo.EmailExists(ctx, input.Email, userID); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, models.ErrDuplicateEmail
	}

	if input.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
			return nil, models.NewValidationError("current_password", "current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.Email = input.Email

	if err := s.userRepo.Update(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.log.Info().Str("username", user.Username).Msg("Profile updated")
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist
func (s *userService) EnsureAdmin(ctx context.Context) error {
	existing, err := s.userRepo.GetByUsername(ctx, s.cfg.App.AdminUsername)
	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.App.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		ID:           uuid.New().String(),
		Username:     s.cfg.App.AdminUsername,
		Email:        s.cfg.App.AdminEmail,
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		// another instance may have won the race
		if database.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	s.log.Info().Str("username", admin.Username).Msg("Bootstrap admin user created")
	return nil
}

// duplicateError resolves which unique constraint a write hit
func (s *userService) duplicateError(ctx context.Context, user *models.User) error {
	if taken, err := s.userRepo.UsernameExists(ctx, user.Username, user.ID); err == nil && taken {
		return models.ErrDuplicateUsername
	}
	return models.ErrDuplicateEmail
}
