package models

// DecisionKind is the terminal outcome of one navigation attempt.
type DecisionKind string

const (
	// DecisionAllow commits the navigation to the requested route.
	DecisionAllow DecisionKind = "allow"
	// DecisionRedirect sends the navigation to Decision.Target instead.
	DecisionRedirect DecisionKind = "redirect"
	// DecisionSuperseded marks a stale in-flight decision: a newer
	// navigation started before this one finished, so this outcome is
	// discarded (last navigation wins).
	DecisionSuperseded DecisionKind = "superseded"
)

// Decision is the short-lived value produced fresh per navigation attempt.
// It is never persisted.
type Decision struct {
	Kind   DecisionKind `json:"decision"`
	Target string       `json:"target,omitempty"` // route name for redirects
	Reason string       `json:"reason,omitempty"`
}

// Allow returns an allow decision for the requested route.
func Allow() Decision {
	return Decision{Kind: DecisionAllow}
}

// RedirectTo returns a redirect decision toward the named route.
func RedirectTo(route, reason string) Decision {
	return Decision{Kind: DecisionRedirect, Target: route, Reason: reason}
}

// Superseded returns the discarded-decision marker.
func Superseded() Decision {
	return Decision{Kind: DecisionSuperseded}
}

// Redirect reasons, mirroring the navigation error taxonomy.
const (
	ReasonMissingSession  = "missing_session"
	ReasonRoleMismatch    = "role_mismatch"
	ReasonTenantSelection = "tenant_selection_required"
	ReasonAutoSelected    = "tenant_auto_selected"
)

// ResolutionKind is the outcome of resolving the active tenant for a user.
type ResolutionKind string

const (
	// ResolutionUseExisting means a tenant selection was already persisted.
	ResolutionUseExisting ResolutionKind = "use_existing"
	// ResolutionAutoSelected means exactly one candidate tenant was found
	// and has just been persisted as the active selection.
	ResolutionAutoSelected ResolutionKind = "auto_selected"
	// ResolutionNeedsSelection means the user must pick a tenant explicitly
	// (zero or multiple candidates, lookup failure, or SUPER_ADMIN scoping).
	ResolutionNeedsSelection ResolutionKind = "needs_selection"
)

// Resolution carries the tenant resolution outcome and, when applicable,
// the resolved tenant identifier.
type Resolution struct {
	Kind     ResolutionKind
	TenantID string
}
