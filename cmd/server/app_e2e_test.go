package main

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/seeker/internal/config"
	"github.com/diewo77/seeker/internal/db"
	"github.com/diewo77/seeker/internal/db/dbtest"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/internal/services"
)

const testCode = "424242"

// outbox records verification emails instead of sending them.
type outbox struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (o *outbox) Send(_ context.Context, to, _, _ string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return false
	}
	o.sent = append(o.sent, to)
	return true
}

func (o *outbox) recipients() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.sent...)
}

func (o *outbox) setFailing(fail bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fail = fail
}

type testEnv struct {
	t    *testing.T
	db   *gorm.DB
	mail *outbox
	srv  *httptest.Server
}

func newTestEnv(t *testing.T, perMinute int) *testEnv {
	t.Helper()
	gdb := dbtest.Open(t)
	if _, err := db.Seed(context.Background(), gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg := &config.Config{
		Session:   config.SessionConfig{Secret: "test-secret", TTL: time.Hour},
		Mail:      config.MailConfig{Driver: "log", BaseURL: "http://seeker.test"},
		App:       config.AppConfig{OTPTTL: 10 * time.Minute},
		RateLimit: config.RateLimitConfig{PerMinute: perMinute},
	}
	mail := &outbox{}
	pinned := services.WithCodeGenerator(func() (string, error) { return testCode, nil })
	rc := NewRouterConfig(Deps{
		DB:            gdb,
		Config:        cfg,
		Log:           logging.Discard(),
		Mailer:        mail,
		VerifyOptions: []services.VerificationOption{pinned},
	})
	srv := httptest.NewServer(NewApp(rc, logging.Discard()))
	t.Cleanup(srv.Close)
	return &testEnv{t: t, db: gdb, mail: mail, srv: srv}
}

// browser keeps cookies between requests and never follows redirects.
type browser struct {
	env    *testEnv
	client *http.Client
}

func (e *testEnv) browser() *browser {
	jar, err := cookiejar.New(nil)
	if err != nil {
		e.t.Fatalf("cookie jar: %v", err)
	}
	return &browser{env: e, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

type page struct {
	status   int
	location string
	body     string
}

func (b *browser) do(req *http.Request) page {
	b.env.t.Helper()
	resp, err := b.client.Do(req)
	if err != nil {
		b.env.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return page{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (b *browser) get(path string) page {
	b.env.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, b.env.srv.URL+path, nil)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.env.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, b.env.srv.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// expectRedirect asserts a 303 to target and returns the rendered target page.
func (b *browser) expectRedirect(p page, target string) page {
	b.env.t.Helper()
	if p.status != http.StatusSeeOther || p.location != target {
		b.env.t.Fatalf("expected 303 to %s got %d to %q body=%s", target, p.status, p.location, p.body)
	}
	return b.get(target)
}

func mustContain(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Fatalf("expected body to contain %q:\n%s", want, body)
	}
}

func (b *browser) signupAndVerify(name, email, role string) {
	b.env.t.Helper()
	p := b.post("/signup", url.Values{"name": {name}, "email": {email}, "role": {role}, "password": {"pw123"}})
	b.expectRedirect(p, "/verify")
	p = b.post("/verify", url.Values{"code": {testCode}})
	b.expectRedirect(p, models.ParseRole(role).Landing())
}

func firstJobID(t *testing.T, gdb *gorm.DB) string {
	t.Helper()
	var j models.Job
	if err := gdb.Order("id").First(&j).Error; err != nil {
		t.Fatalf("first job: %v", err)
	}
	return strconv.FormatUint(uint64(j.ID), 10)
}

func TestSignupVerifyApplyE2E(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()

	p := b.post("/signup", url.Values{"name": {"Alice"}, "email": {"A@X.com"}, "role": {"individual"}, "password": {"pw123"}})
	p = b.expectRedirect(p, "/verify")
	mustContain(t, p.body, "We have sent a 6-digit verification code to your email.")
	mustContain(t, p.body, "a@x.com")
	if sent := env.mail.recipients(); len(sent) != 1 || sent[0] != "a@x.com" {
		t.Fatalf("expected one email to a@x.com, got %v", sent)
	}

	// The pending account cannot reach signed-in pages yet.
	b.expectRedirect(b.get("/profile"), "/login")

	p = b.expectRedirect(b.post("/verify", url.Values{"code": {"000000"}}), "/verify")
	mustContain(t, p.body, "Incorrect code.")

	p = b.expectRedirect(b.post("/verify", url.Values{"code": {testCode}}), "/")
	mustContain(t, p.body, "Email verified successfully.")
	mustContain(t, p.body, "Alice")

	id := firstJobID(t, env.db)
	p = b.get("/jobs/" + id)
	if p.status != http.StatusOK {
		t.Fatalf("job detail: expected 200 got %d", p.status)
	}
	mustContain(t, p.body, "/jobs/"+id+"/apply")

	p = b.get("/jobs/" + id + "/apply")
	if p.status != http.StatusOK {
		t.Fatalf("apply page: expected 200 got %d", p.status)
	}
	mustContain(t, p.body, "/payment/"+id+"/confirm")

	for i := 0; i < 2; i++ {
		p = b.expectRedirect(b.post("/payment/"+id+"/confirm", nil), "/profile")
		mustContain(t, p.body, "Payment recorded. Application added to your profile.")
	}
	mustContain(t, p.body, "Frontend Developer")

	var n int64
	env.db.Model(&models.Application{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected a single application after two confirmations, got %d", n)
	}

	p = b.get("/jobs/" + id)
	mustContain(t, p.body, "You have applied to this job.")
}

func TestCompanyDashboardE2E(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()
	b.signupAndVerify("Acme Corp", "hr@acme.test", "company")

	p := b.get("/company")
	if p.status != http.StatusOK {
		t.Fatalf("dashboard: expected 200 got %d", p.status)
	}
	mustContain(t, p.body, "No listings yet.")

	p = b.expectRedirect(b.post("/company/jobs/new", url.Values{"title": {"Go Engineer"}, "location": {" "}, "description": {"x"}}), "/company")
	mustContain(t, p.body, "All fields are required.")

	form := url.Values{"title": {"Go Engineer"}, "location": {"Remote"}, "description": {"Build services."}}
	p = b.expectRedirect(b.post("/company/jobs/new", form), "/company")
	mustContain(t, p.body, "Job posted successfully.")
	mustContain(t, p.body, "Go Engineer")

	var j models.Job
	if err := env.db.Where("title = ?", "Go Engineer").First(&j).Error; err != nil {
		t.Fatalf("load posted job: %v", err)
	}
	if j.Company != "Acme Corp" || j.PosterUserID == nil {
		t.Fatalf("unexpected job %+v", j)
	}

	// Company accounts are steered away from the individual profile.
	b.expectRedirect(b.get("/profile"), "/company")

	mustContain(t, b.get("/").body, "Go Engineer")
}

func TestIndividualCannotPostJobs(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()
	b.signupAndVerify("Bob", "bob@x.test", "individual")

	b.expectRedirect(b.get("/company"), "/")
	form := url.Values{"title": {"T"}, "location": {"L"}, "description": {"D"}}
	b.expectRedirect(b.post("/company/jobs/new", form), "/")

	var n int64
	env.db.Model(&models.Job{}).Where("title = ?", "T").Count(&n)
	if n != 0 {
		t.Fatalf("individual should not create jobs")
	}
}

func TestAnonymousGuards(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()

	p := b.expectRedirect(b.get("/profile"), "/login")
	mustContain(t, p.body, "Please sign in to continue.")
	b.expectRedirect(b.get("/company"), "/login")
	b.expectRedirect(b.post("/payment/1/confirm", nil), "/login")
	b.expectRedirect(b.get("/verify"), "/")
	b.expectRedirect(b.post("/resend-otp", nil), "/signup")

	p = b.post("/verify", url.Values{"code": {"123456"}})
	if p.status != http.StatusSeeOther || p.location != "/verify" {
		t.Fatalf("expected soft redirect to /verify got %d %q", p.status, p.location)
	}

	if p := b.get("/jobs/99999"); p.status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing job got %d", p.status)
	}
	if p := b.get("/jobs/abc"); p.status != http.StatusNotFound {
		t.Fatalf("expected 404 for bad id got %d", p.status)
	}
	if p := b.get("/nope"); p.status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route got %d", p.status)
	}
}

func TestPaymentForMissingJobIs404(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()
	b.signupAndVerify("Cara", "cara@x.test", "individual")

	if p := b.post("/payment/99999/confirm", nil); p.status != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", p.status)
	}
	if p := b.get("/jobs/99999/apply"); p.status != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", p.status)
	}
}

func TestLoginLogoutE2E(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()

	p := b.post("/signup", url.Values{"name": {"Dan"}, "email": {"dan@x.test"}, "password": {"pw123"}})
	b.expectRedirect(p, "/verify")

	// A second browser signing in before verification is sent to the code form.
	other := env.browser()
	p = other.expectRedirect(other.post("/login", url.Values{"email": {"dan@x.test"}, "password": {"pw123"}}), "/verify")
	mustContain(t, p.body, "Please verify your email to continue.")
	mustContain(t, p.body, "dan@x.test")

	p = other.expectRedirect(other.post("/login", url.Values{"email": {"dan@x.test"}, "password": {"nope"}}), "/login")
	mustContain(t, p.body, "Invalid email or password.")
	p = other.expectRedirect(other.post("/login", url.Values{"email": {"dan@x.test"}}), "/login")
	mustContain(t, p.body, "Email and password are required.")

	other.expectRedirect(other.post("/verify", url.Values{"code": {testCode}}), "/")
	p = other.expectRedirect(other.get("/logout"), "/")
	mustContain(t, p.body, "You have been signed out.")
	other.expectRedirect(other.get("/profile"), "/login")

	p = other.expectRedirect(other.post("/login", url.Values{"email": {"DAN@x.test"}, "password": {"pw123"}}), "/profile")
	mustContain(t, p.body, "Signed in successfully.")
	other.expectRedirect(other.get("/login"), "/profile")
}

func TestSignupErrorsE2E(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()

	p := b.expectRedirect(b.post("/signup", url.Values{"name": {"Eve"}, "password": {"pw"}}), "/signup")
	mustContain(t, p.body, "Name, email, and password are required.")

	p = b.expectRedirect(b.post("/signup", url.Values{"name": {"Eve"}, "email": {"not-an-email"}, "password": {"pw"}}), "/signup")
	mustContain(t, p.body, "Please enter a valid email address.")

	b.expectRedirect(b.post("/signup", url.Values{"name": {"Eve"}, "email": {"eve@x.test"}, "password": {"pw"}}), "/verify")
	p = b.expectRedirect(b.post("/signup", url.Values{"name": {"Eve2"}, "email": {"EVE@x.test"}, "password": {"pw"}}), "/signup")
	mustContain(t, p.body, "Email is already registered.")
}

func TestResendE2E(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()
	b.expectRedirect(b.post("/signup", url.Values{"name": {"Fay"}, "email": {"fay@x.test"}, "password": {"pw"}}), "/verify")

	p := b.expectRedirect(b.post("/resend-otp", nil), "/verify")
	mustContain(t, p.body, "A new code has been sent to your email.")
	if n := len(env.mail.recipients()); n != 2 {
		t.Fatalf("expected 2 emails got %d", n)
	}

	env.mail.setFailing(true)
	p = b.expectRedirect(b.post("/resend-otp", nil), "/verify")
	mustContain(t, p.body, "Could not send email. Please check configuration.")

	// Verifying in another browser leaves this one with a stale pending email.
	other := env.browser()
	other.expectRedirect(other.post("/login", url.Values{"email": {"fay@x.test"}, "password": {"pw"}}), "/verify")
	other.expectRedirect(other.post("/verify", url.Values{"code": {testCode}}), "/")

	p = b.expectRedirect(b.post("/resend-otp", nil), "/login")
	mustContain(t, p.body, "Your email is already verified. Please sign in.")
}

func TestAuthRateLimitE2E(t *testing.T) {
	env := newTestEnv(t, 2)
	b := env.browser()
	form := url.Values{"email": {"x@x.test"}, "password": {"bad"}}

	for i := 0; i < 2; i++ {
		b.expectRedirect(b.post("/login", form), "/login")
	}
	p := b.post("/login", form)
	if p.status != http.StatusSeeOther {
		t.Fatalf("expected soft redirect got %d", p.status)
	}
	p = b.get("/login")
	mustContain(t, p.body, "Too many attempts.")
}

func TestHealthzE2E(t *testing.T) {
	env := newTestEnv(t, 100)
	p := env.browser().get("/healthz")
	if p.status != http.StatusOK {
		t.Fatalf("expected 200 got %d", p.status)
	}
	mustContain(t, p.body, `"status":"ok"`)
}

func TestFrenchFlashE2E(t *testing.T) {
	env := newTestEnv(t, 100)
	b := env.browser()
	b.get("/?lang=fr")
	p := b.expectRedirect(b.post("/login", url.Values{}), "/login")
	mustContain(t, p.body, "L&#39;e-mail et le mot de passe sont requis.")
}
