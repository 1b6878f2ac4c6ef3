package scopes

import "strings"

const (
	ScopeRead   = "mcp:read"
	ScopeWrite  = "mcp:write"
	ScopeDelete = "mcp:delete"
	ScopeAdmin  = "mcp:admin"
)

// Registry holds the known scopes and the role to scope mapping. It is built
// once at startup and treated as read-only afterwards.
type Registry struct {
	descriptions map[string]string
	roleScopes   map[string][]string
	defaults     []string
}

func DefaultRegistry() *Registry {
	return &Registry{
		descriptions: map[string]string{
			ScopeRead:   "Read posts, terms and site data",
			ScopeWrite:  "Create and update content",
			ScopeDelete: "Delete content",
			ScopeAdmin:  "Manage plugins, themes and settings",
		},
		roleScopes: map[string][]string{
			"administrator": {ScopeAdmin, ScopeDelete, ScopeWrite, ScopeRead},
			"editor":        {ScopeDelete, ScopeWrite, ScopeRead},
			"author":        {ScopeWrite, ScopeRead},
			"contributor":   {ScopeRead},
			"subscriber":    {ScopeRead},
		},
		defaults: []string{ScopeRead},
	}
}

// Available returns the scope descriptions keyed by scope name.
func (r *Registry) Available() map[string]string {
	available := make(map[string]string, len(r.descriptions))
	for scope, description := range r.descriptions {
		available[scope] = description
	}
	return available
}

// Names returns every known scope, most privileged last.
func (r *Registry) Names() []string {
	return []string{ScopeRead, ScopeWrite, ScopeDelete, ScopeAdmin}
}

// ForRoles returns the union of the scopes granted to the given roles. When no
// role resolves to anything, the default scope set applies.
func (r *Registry) ForRoles(roles []string) []string {
	granted := []string{}
	seen := map[string]bool{}

	for _, role := range roles {
		for _, scope := range r.roleScopes[role] {
			if !seen[scope] {
				seen[scope] = true
				granted = append(granted, scope)
			}
		}
	}

	if len(granted) == 0 {
		return append([]string{}, r.defaults...)
	}

	return granted
}

// Filter intersects the requested scopes with the granted set, preserving the
// request order.
func (r *Registry) Filter(requested []string, granted []string) []string {
	grantedSet := map[string]bool{}
	for _, scope := range granted {
		grantedSet[scope] = true
	}

	filtered := []string{}
	for _, scope := range requested {
		if grantedSet[scope] {
			filtered = append(filtered, scope)
		}
	}

	return filtered
}

// Validate reports whether every scope is known to the registry.
func (r *Registry) Validate(requested []string) bool {
	for _, scope := range requested {
		if _, ok := r.descriptions[scope]; !ok {
			return false
		}
	}
	return true
}

// Includes reports whether the granted set satisfies the required scope. The
// admin scope satisfies any requirement.
func (r *Registry) Includes(granted []string, required string) bool {
	for _, scope := range granted {
		if scope == required || scope == ScopeAdmin {
			return true
		}
	}
	return false
}

// Split parses the space-joined wire form into a scope list.
func Split(scope string) []string {
	return strings.Fields(scope)
}

// Join renders a scope list into the space-joined wire form.
func Join(scopes []string) string {
	return strings.Join(scopes, " ")
}
