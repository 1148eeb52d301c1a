package services

import (
	"context"

	"github.com/diewo77/seeker/gate"
	"github.com/diewo77/seeker/internal/models"
)

// Resource types registered on the catalog gate.
const (
	ResourceJob         = "job"
	ResourceApplication = "application"
)

// NewCatalogGate returns a gate with the job board policies registered.
func NewCatalogGate() *gate.Gate[*models.User] {
	g := gate.NewGate[*models.User]()
	g.Register(ResourceJob, gate.PolicyFunc[*models.User](jobPolicy))
	g.Register(ResourceApplication, gate.PolicyFunc[*models.User](applicationPolicy))
	return g
}

// jobPolicy: anyone may browse; only company accounts create.
func jobPolicy(_ context.Context, u *models.User, action gate.Action, _ any) bool {
	switch action {
	case gate.ActionView, gate.ActionList:
		return true
	case gate.ActionCreate:
		return u.IsCompany()
	default:
		return false
	}
}

// applicationPolicy: any signed-in account may apply; a user only sees
// their own applications.
func applicationPolicy(_ context.Context, u *models.User, action gate.Action, resource any) bool {
	switch action {
	case gate.ActionApply:
		return u.ID != 0
	case gate.ActionView, gate.ActionList:
		if a, ok := resource.(*models.Application); ok {
			return a.UserID == u.ID
		}
		return u.ID != 0
	default:
		return false
	}
}
