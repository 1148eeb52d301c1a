package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"company", RoleCompany},
		{" Company ", RoleCompany},
		{"individual", RoleIndividual},
		{"", RoleIndividual},
		{"admin", RoleIndividual},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRole(tt.in); got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRole_Landing(t *testing.T) {
	if got := RoleCompany.Landing(); got != "/company" {
		t.Errorf("company landing = %q", got)
	}
	if got := RoleIndividual.Landing(); got != "/" {
		t.Errorf("individual landing = %q", got)
	}
}

func TestUser_PendingVerification(t *testing.T) {
	code := "123456"
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"nil", nil, false},
		{"pending", &User{OTPCode: &code}, true},
		{"verified", &User{IsVerified: true}, false},
		{"no code", &User{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.PendingVerification(); got != tt.want {
				t.Errorf("PendingVerification() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_PostedBy(t *testing.T) {
	id := uint(7)
	j := &Job{PosterUserID: &id}
	if !j.PostedBy(7) {
		t.Error("expected job to be posted by 7")
	}
	if j.PostedBy(8) {
		t.Error("expected job not to be posted by 8")
	}
	if (&Job{}).PostedBy(7) {
		t.Error("seeded job has no poster")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@X.Com "); got != "a@x.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
