package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/seeker/internal/db/dbtest"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	To, Subject, Body string
}

// fakeMailer records messages and reports the configured outcome.
type fakeMailer struct {
	mu   sync.Mutex
	ok   bool
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return m.ok
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// sequenceCodes hands out 100001, 100002, ...
func sequenceCodes() CodeGenerator {
	var mu sync.Mutex
	n := 100000
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%06d", n), nil
	}
}

type fixture struct {
	users    *store.UserStore
	mailer   *fakeMailer
	clock    *clock
	verify   *VerificationService
	accounts *AccountService
	catalog  *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	log := logging.Discard()
	f := &fixture{
		users:  store.NewUserStore(gdb),
		mailer: &fakeMailer{ok: true},
		clock:  &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.verify = NewVerificationService(f.users, f.mailer, log, "http://seeker.test",
		WithClock(f.clock.Now), WithCodeGenerator(sequenceCodes()))
	f.accounts = NewAccountService(f.users, f.verify, log)
	f.accounts.cost = bcrypt.MinCost
	f.catalog = NewCatalogService(store.NewJobStore(gdb), store.NewApplicationStore(gdb), NewCatalogGate(), log)
	f.catalog.now = f.clock.Now
	return f
}
