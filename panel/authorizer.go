package panel

import (
	"strings"

	"github.com/mohitkumar/wfnotify/model"
)

type Authorizer interface {
	// CanWrite reports whether viewer may write the item language version.
	CanWrite(viewer model.UserProfile, item model.Item) bool
	// CanExecute reports whether viewer may run commands of state. declared is
	// false when the state carries no execute rights of its own.
	CanExecute(viewer model.UserProfile, state *model.WorkflowState) (allowed bool, declared bool)
}

var _ Authorizer = RoleAuthorizer{}

// RoleAuthorizer grants rights from role membership. Administrators are
// allowed everything.
type RoleAuthorizer struct{}

func (RoleAuthorizer) CanWrite(viewer model.UserProfile, item model.Item) bool {
	if viewer.Administrator {
		return true
	}
	return viewer.InRole(item.WriteRoles...)
}

func (RoleAuthorizer) CanExecute(viewer model.UserProfile, state *model.WorkflowState) (bool, bool) {
	if state == nil || len(state.ExecuteRoles) == 0 {
		return false, false
	}
	return viewer.Administrator || viewer.InRole(state.ExecuteRoles...), true
}

func hasLock(viewer model.UserProfile, item model.Item) bool {
	return item.LockedBy != "" && strings.EqualFold(item.LockedBy, viewer.Name)
}

func isLocked(item model.Item) bool {
	return item.LockedBy != ""
}

// ownerWithoutDomain strips a `domain\` prefix from the lock owner.
func ownerWithoutDomain(owner string) string {
	if i := strings.LastIndex(owner, `\`); i >= 0 {
		owner = owner[i+1:]
	}
	if owner == "" {
		return "?"
	}
	return owner
}
