package user

import (
	"context"
	"errors"
	"strings"

	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"
	"storefront/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateRole(ctx context.Context, id uint, role domain.Role) error
}

var ErrInvalidCredentials = apperror.Auth("Invalid email or password", nil)

type userService struct {
	userRepo UserRepository
	validate *validator.Validate
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *userService {
	return &userService{
		userRepo: userRepo,
		validate: validate,
	}
}

type RegisterInput struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validate.Struct(in); err != nil {
		logger.Debug("Invalid register input", "error", err)
		return domain.User{}, apperror.Validation("Invalid registration details", err)
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing.ID > 0 {
		return domain.User{}, apperror.Validation("User with this email exists!", nil)
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		logger.Error("Failed to look up user by email", "error", err)
		return domain.User{}, err
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return domain.User{}, err
	}

	newUser := domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(passwordHash),
		Role:     domain.RoleUser,
	}

	// The unique index still guards against two concurrent registrations.
	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.User{}, apperror.Validation("User with this email exists!", err)
		}
		logger.Error("Failed to create new user", "error", err)
		return domain.User{}, err
	}

	newUser.Password = ""
	return newUser, nil
}

// Login checks the credentials and returns the stored user. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		logger.Error("Failed to look up user by email", "error", err)
		return domain.User{}, err
	}

	if !utils.CheckPassword(password, user.Password) {
		return domain.User{}, ErrInvalidCredentials
	}

	user.Password = ""
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// SeedAdmin creates a SUPER_ADMIN account, or promotes the existing account
// with that email.
func (s *userService) SeedAdmin(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = normalizeEmail(in.Email)

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil {
		if existing.Role == domain.RoleSuperAdmin {
			existing.Password = ""
			return existing, nil
		}
		if err := s.userRepo.UpdateRole(ctx, existing.ID, domain.RoleSuperAdmin); err != nil {
			return domain.User{}, err
		}
		existing.Role = domain.RoleSuperAdmin
		existing.Password = ""
		logger.Info("Promoted user to super admin", "user_id", existing.ID)
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	created, err := s.Register(ctx, in)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.userRepo.UpdateRole(ctx, created.ID, domain.RoleSuperAdmin); err != nil {
		return domain.User{}, err
	}
	created.Role = domain.RoleSuperAdmin
	logger.Info("Created super admin", "user_id", created.ID)
	return created, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
