package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesPendingAccount(t *testing.T) {
	f := newFixture(t)
	res, err := f.accounts.Register(context.Background(), RegisterInput{
		Name: " Alice ", Email: " A@X.com ", Phone: "", Role: "individual", Password: "pw123",
	})
	require.NoError(t, err)
	u := res.User
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, models.RoleIndividual, u.Role)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "pw123", u.PasswordHash)
	require.NotNil(t, u.OTPCode)
	require.NotNil(t, u.OTPExpiresAt)
	assert.Equal(t, f.clock.Now().Add(DefaultCodeTTL), *u.OTPExpiresAt)

	assert.True(t, res.CodeSent)
	mail := f.mailer.last()
	assert.Equal(t, notify.SubjectVerify, mail.Subject)
	assert.Contains(t, mail.Body, *u.OTPCode)
	assert.Contains(t, mail.Body, "http://seeker.test/verify")
}

func TestRegister_UnknownRoleDefaultsToIndividual(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "r@x.com", "superuser")
	assert.Equal(t, models.RoleIndividual, res.User.Role)

	res = register(t, f, "co@x.com", "company")
	assert.Equal(t, models.RoleCompany, res.User.Role)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.Register(context.Background(), RegisterInput{Email: "a@x.com"})
	require.ErrorIs(t, err, ErrValidation)
	v := Violations(err)
	assert.True(t, v.Has("name"))
	assert.True(t, v.Has("password"))
	assert.False(t, v.Has("email"))

	_, err = f.accounts.Register(context.Background(), RegisterInput{Name: "A", Email: "nope", Password: "x"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "invalid_email", Violations(err)["email"])
}

func TestRegister_DuplicateEmailAnyCase(t *testing.T) {
	f := newFixture(t)
	register(t, f, "dup@x.com", "individual")

	_, err := f.accounts.Register(context.Background(), RegisterInput{
		Name: "Other", Email: "DUP@X.COM", Role: "company", Password: "pw",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.accounts.Register(context.Background(), RegisterInput{
				Name: "Racer", Email: "race@x.com", Password: "pw",
			})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateEmail):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 3, dup)
}

func TestRegister_MailFailureStillCreatesAccount(t *testing.T) {
	f := newFixture(t)
	f.mailer.ok = false
	res, err := f.accounts.Register(context.Background(), RegisterInput{Name: "A", Email: "m@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, res.CodeSent)

	_, err = f.users.ByEmail(context.Background(), "m@x.com")
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := register(t, f, "l@x.com", "individual")

	_, err := f.accounts.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.accounts.Login(ctx, "ghost@x.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.accounts.Login(ctx, "l@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := f.accounts.Login(ctx, "L@x.com", "pw123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	require.NotNil(t, u)
	assert.Equal(t, "l@x.com", u.Email)

	_, err = f.verify.Validate(ctx, "l@x.com", *res.User.OTPCode)
	require.NoError(t, err)

	u, err = f.accounts.Login(ctx, "l@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)
}
