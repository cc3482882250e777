package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grocermart/internal/domain"
	userrepo "grocermart/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSuspended is returned when the account has been deactivated.
	ErrSuspended = errors.New("account suspended")
)

// Service handles registration, login and account management.
type Service struct {
	repo        userRepo
	passwordMin int
}

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, f userrepo.ListFilter) ([]domain.User, int, error)
	UpdateProfile(ctx context.Context, id, fullName, phoneNumber string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}

func New(repo userRepo) *Service {
	return &Service{repo: repo, passwordMin: 4}
}

// RegisterInput captures the signup payload.
type RegisterInput struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
}

// Register creates a new non-admin account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, fmt.Errorf("password must be at least %d characters long", s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Email:        email,
		PasswordHash: string(hashed),
		IsAdmin:      false,
		Active:       true,
	})
}

// Login validates credentials. Suspended accounts cannot log in.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrSuspended
	}
	return u, nil
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile overwrites the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id, fullName, phoneNumber string) (*domain.User, error) {
	return s.repo.UpdateProfile(ctx, id, strings.TrimSpace(fullName), strings.TrimSpace(phoneNumber))
}

// UpdatePassword re-hashes and stores a new password.
func (s *Service) UpdatePassword(ctx context.Context, id, newPassword string) error {
	password := strings.TrimSpace(newPassword)
	if len(password) < s.passwordMin {
		return fmt.Errorf("password must be at least %d characters long", s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hashed))
}

// AdminListInput filters the admin user listing.
type AdminListInput struct {
	Role       string
	DateFilter string // today | week | month | year
	Page       int
	Limit      int
}

// List pages through accounts for the admin dashboard.
func (s *Service) List(ctx context.Context, in AdminListInput) ([]domain.User, int, int, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	users, total, err := s.repo.List(ctx, userrepo.ListFilter{
		Role:        in.Role,
		CreatedFrom: createdLowerBound(in.DateFilter, time.Now()),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	pages := (total + limit - 1) / limit
	return users, total, pages, nil
}

// ToggleActive flips the suspended/active state and returns the updated user.
func (s *Service) ToggleActive(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.SetActive(ctx, id, !u.Active)
}

// ResetPassword is a stub: it verifies the account exists. Generating and
// delivering a new password is not implemented.
func (s *Service) ResetPassword(ctx context.Context, id string) error {
	_, err := s.repo.GetByID(ctx, id)
	return err
}

func createdLowerBound(filter string, now time.Time) time.Time {
	switch filter {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	}
	return time.Time{}
}
