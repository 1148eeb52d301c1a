package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/internal/notify"
	"github.com/diewo77/seeker/internal/store"
)

// DefaultCodeTTL is how long a one-time code stays valid.
const DefaultCodeTTL = 10 * time.Minute

// VerificationService issues, delivers and checks one-time email codes.
type VerificationService struct {
	users   *store.UserStore
	mailer  notify.Gateway
	log     logging.Logger
	baseURL string
	ttl     time.Duration
	now     func() time.Time
	newCode CodeGenerator
}

// VerificationOption customises a VerificationService.
type VerificationOption func(*VerificationService)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) VerificationOption {
	return func(s *VerificationService) { s.now = now }
}

// WithCodeGenerator overrides the code source.
func WithCodeGenerator(g CodeGenerator) VerificationOption {
	return func(s *VerificationService) { s.newCode = g }
}

// WithCodeTTL overrides DefaultCodeTTL.
func WithCodeTTL(ttl time.Duration) VerificationOption {
	return func(s *VerificationService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewVerificationService(users *store.UserStore, mailer notify.Gateway, log logging.Logger, baseURL string, opts ...VerificationOption) *VerificationService {
	s := &VerificationService{
		users:   users,
		mailer:  mailer,
		log:     log.With("component", "verification"),
		baseURL: baseURL,
		ttl:     DefaultCodeTTL,
		now:     func() time.Time { return time.Now().UTC() },
		newCode: RandomCode,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// assign sets a fresh code and expiry on u without persisting them.
func (s *VerificationService) assign(u *models.User) error {
	code, err := s.newCode()
	if err != nil {
		return err
	}
	exp := s.now().Add(s.ttl)
	u.OTPCode = &code
	u.OTPExpiresAt = &exp
	return nil
}

// deliver mails u's pending code. A false result is a warning only.
func (s *VerificationService) deliver(ctx context.Context, u *models.User, subject string) bool {
	if u.OTPCode == nil {
		return false
	}
	body, err := notify.VerificationEmail(s.baseURL, *u.OTPCode, s.ttl)
	if err != nil {
		s.log.Error(ctx, "render verification email", "user_id", u.ID, "error", err)
		return false
	}
	if !s.mailer.Send(ctx, u.Email, subject, body) {
		s.log.Warn(ctx, "verification email not delivered", "user_id", u.ID, "to", u.Email)
		return false
	}
	return true
}

// GenerateCode replaces u's pending code, persists it and mails it. The
// returned bool reports delivery; the code is stored either way.
func (s *VerificationService) GenerateCode(ctx context.Context, u *models.User, subject string) (bool, error) {
	if err := s.assign(u); err != nil {
		return false, err
	}
	if err := s.users.SetOTP(ctx, u.ID, *u.OTPCode, *u.OTPExpiresAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return s.deliver(ctx, u, subject), nil
}

// Validate checks code against the pending code of the account registered
// under email. On success the account is verified, the code is cleared and
// the updated user is returned.
func (s *VerificationService) Validate(ctx context.Context, email, code string) (*models.User, error) {
	if models.NormalizeEmail(email) == "" {
		return nil, ErrNotFound
	}
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if code == "" || u.OTPCode == nil || *u.OTPCode != code {
		return nil, ErrInvalidCode
	}
	if u.OTPExpiresAt != nil && s.now().After(*u.OTPExpiresAt) {
		return nil, ErrExpired
	}
	ok, err := s.users.ConsumeOTP(ctx, u.ID, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent validate or resend got there first.
		return nil, ErrInvalidCode
	}
	u.IsVerified = true
	u.OTPCode = nil
	u.OTPExpiresAt = nil
	s.log.Info(ctx, "email verified", "user_id", u.ID)
	return u, nil
}

// Resend issues a new code for the pending account under email, invalidating
// the previous one.
func (s *VerificationService) Resend(ctx context.Context, email string) (bool, error) {
	if models.NormalizeEmail(email) == "" {
		return false, ErrNotFound
	}
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if u.IsVerified {
		return false, ErrAlreadyVerified
	}
	return s.GenerateCode(ctx, u, notify.SubjectResend)
}
