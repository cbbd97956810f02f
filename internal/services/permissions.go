package services

import (
	"github.com/rs/zerolog"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

// roleLiterals are accepted as a required "capability" for backward
// compatibility with coarse role-level checks.
var roleLiterals = map[string]struct{}{
	"superadmin": {},
	"admin":      {},
}

// PermissionGate authorizes an operation given a resolved actor and a
// required capability.
type PermissionGate struct {
	Log zerolog.Logger
}

func NewPermissionGate(log zerolog.Logger) *PermissionGate {
	return &PermissionGate{Log: log}
}

// Allow applies the precedence rules: a SuperAdmin always passes; a required
// token that is itself a role literal passes on role alone; otherwise the
// capability must be in the actor's permission set. Unknown capability
// strings are tolerated (warned, then matched literally) so older permission
// sets keep working.
func (g *PermissionGate) Allow(actor *models.AuthActor, capability string) bool {
	if actor == nil {
		return false
	}
	if actor.Kind == models.KindSuperAdmin {
		return true
	}
	if _, ok := roleLiterals[capability]; ok {
		return actor.Kind.Role() == capability
	}
	if !models.KnownCapability(capability) {
		g.Log.Warn().Str("capability", capability).Msg("capability not in registered catalogue")
	}
	return actor.Permissions.Has(capability)
}

// Require is Allow as an error, with the uniform denial message.
func (g *PermissionGate) Require(actor *models.AuthActor, capability string) error {
	if g.Allow(actor, capability) {
		return nil
	}
	return apperr.Authorization("Permission denied")
}

// RequireAny models per-operation "privileged role OR explicit capability"
// rules: the actor passes when its kind is in kinds, or when the capability
// check passes.
func (g *PermissionGate) RequireAny(actor *models.AuthActor, kinds []models.ActorKind, capability string) error {
	if actor != nil {
		for _, k := range kinds {
			if actor.Kind == k {
				return nil
			}
		}
	}
	return g.Require(actor, capability)
}
