package blog

// Well-known guard actions. The table maps operation names to access rules
// instead of scattering role checks across handlers.
const (
	ActionUserList      = "user.list"
	ActionUserMe        = "user.me"
	ActionUserUpdate    = "user.update"
	ActionUserDelete    = "user.delete"
	ActionProfileCreate = "profile.create"
	ActionProfileUpdate = "profile.update"
	ActionPostCreate    = "post.create"
	ActionPostUpdate    = "post.update"
	ActionPostDelete    = "post.delete"
)

// AccessRule describes who may perform a guarded action. When Roles is
// non-empty the identity's role must be in the set. When OwnerOnly is set the
// identity must own the target resource, admins excepted. A rule with neither
// admits any authenticated identity.
type AccessRule struct {
	Roles     []UserRole
	OwnerOnly bool
}

// DefaultAccessRules is the blog platform's operation table.
func DefaultAccessRules() map[string]AccessRule {
	return map[string]AccessRule{
		ActionUserList:      {Roles: []UserRole{RoleAdmin, RoleModerator}},
		ActionUserMe:        {},
		ActionUserUpdate:    {OwnerOnly: true},
		ActionUserDelete:    {OwnerOnly: true},
		ActionProfileCreate: {},
		ActionProfileUpdate: {OwnerOnly: true},
		ActionPostCreate:    {},
		ActionPostUpdate:    {OwnerOnly: true},
		ActionPostDelete:    {OwnerOnly: true},
	}
}

// Guard is a pure decision function over identity, action and, for
// ownership-gated actions, the owning identity of the target resource. It
// performs no I/O: the caller fetches the resource and supplies its owner id.
// Identical inputs always yield identical decisions.
type Guard struct {
	rules map[string]AccessRule
}

// NewGuard builds a guard from an access-rule table. A nil table gets the
// platform defaults.
func NewGuard(rules map[string]AccessRule) *Guard {
	if rules == nil {
		rules = DefaultAccessRules()
	}
	return &Guard{rules: rules}
}

// Authorize decides whether identity may perform action. For ownership-gated
// actions the caller passes the resource's owner id as the third argument.
// Unauthenticated identities are rejected with ErrUnauthenticated, valid
// identities with insufficient rights with ErrForbidden. Actions absent from
// the table are denied.
func (g *Guard) Authorize(identity Identity, action string, resourceOwnerID ...string) error {
	if IsAnonymous(identity) {
		return ErrUnauthenticated
	}

	rule, found := g.rules[action]
	if !found {
		return forbidden(action, "action not declared")
	}

	if len(rule.Roles) > 0 {
		for _, role := range rule.Roles {
			if identity.Role() == role {
				return nil
			}
		}
		if !rule.OwnerOnly {
			return forbidden(action, "role not allowed")
		}
	}

	if rule.OwnerOnly {
		if identity.Role() == RoleAdmin {
			return nil
		}
		if len(resourceOwnerID) > 0 && resourceOwnerID[0] != "" && identity.ID() == resourceOwnerID[0] {
			return nil
		}
		return forbidden(action, "not resource owner")
	}

	return nil
}

// Can is a convenience wrapper that collapses the decision to a boolean.
func (g *Guard) Can(identity Identity, action string, resourceOwnerID ...string) bool {
	return g.Authorize(identity, action, resourceOwnerID...) == nil
}

func forbidden(action, reason string) error {
	clone := ErrForbidden.Clone()
	if clone == nil {
		return ErrForbidden
	}
	return clone.WithMetadata(map[string]any{
		"action": action,
		"reason": reason,
	})
}
