// Package authz is the single capability check for the service. Handlers and
// services ask Can(actor, action, resource) instead of re-implementing
// owner-or-admin rules per endpoint.
package authz

import "mall/internal/models"

// Action names something an actor wants to do to a resource.
type Action string

const (
	ActionManage Action = "manage" // create/update/delete the resource
	ActionAudit  Action = "audit"  // moderate a shop application
	ActionAdmin  Action = "admin"  // platform administration
)

// Actor is the authenticated caller.
type Actor struct {
	UserID   models.ID
	UserType int
}

// Resource is whatever the action targets. Shops and products resolve to the
// owning shop; platform-level actions carry no resource.
type Resource struct {
	OwnerID models.ID
}

// IsAdmin reports whether the actor holds the platform admin role.
func (a Actor) IsAdmin() bool {
	return a.UserType == models.UserTypeAdmin
}

// Can reports whether the actor may perform the action on the resource.
func Can(actor Actor, action Action, resource Resource) bool {
	if actor.UserType == models.UserTypeAdmin {
		return true
	}
	switch action {
	case ActionManage:
		return resource.OwnerID != 0 && resource.OwnerID == actor.UserID
	case ActionAudit, ActionAdmin:
		return false
	}
	return false
}
