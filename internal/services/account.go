package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/internal/notify"
	"github.com/diewo77/seeker/internal/store"
	"github.com/diewo77/seeker/validation"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no account matches, so unknown and
// known emails cost the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("seeker-timing-pad"), bcrypt.DefaultCost)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Role     string
	Password string
}

// RegisterResult is returned for every created account. CodeSent is false
// when the verification email could not be delivered.
type RegisterResult struct {
	User     *models.User
	CodeSent bool
}

// AccountService handles signup and sign-in.
type AccountService struct {
	users    *store.UserStore
	verifier *VerificationService
	log      logging.Logger
	cost     int
}

func NewAccountService(users *store.UserStore, verifier *VerificationService, log logging.Logger) *AccountService {
	return &AccountService{
		users:    users,
		verifier: verifier,
		log:      log.With("component", "accounts"),
		cost:     bcrypt.DefaultCost,
	}
}

// Register creates an unverified account carrying a fresh code and mails it.
// An unknown role falls back to individual.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Required("password", in.Password, v)
	validation.Email("email", in.Email, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         models.ParseRole(in.Role),
		PasswordHash: string(hash),
	}
	if err := s.verifier.assign(u); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.log.Info(ctx, "account created", "user_id", u.ID, "role", u.Role)
	sent := s.verifier.deliver(ctx, u, notify.SubjectVerify)
	return &RegisterResult{User: u, CodeSent: sent}, nil
}

// Login checks credentials. For an unverified account it returns the user
// together with ErrEmailNotVerified so the caller can continue verification.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("password", password, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return u, ErrEmailNotVerified
	}
	return u, nil
}

// User loads an account by id.
func (s *AccountService) User(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.ByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}
