package domain

// Requirement is the access requirement a page declares.
type Requirement string

const (
	RequirePublic        Requirement = "public"
	RequireAuthenticated Requirement = "any-authenticated"
	RequireAdmin         Requirement = "admin-only"
)

// Decision is the outcome of the route guard for one request.
type Decision string

const (
	DecisionAdmit                      Decision = "admit"
	DecisionWait                       Decision = "wait"
	DecisionRedirectToLogin            Decision = "redirect_login"
	DecisionRedirectToDefaultDashboard Decision = "redirect_dashboard"
)

const (
	LoginPath            = "/login"
	DefaultDashboardPath = "/dashboard"
)

// Decide maps the current auth snapshot and a page requirement to a guard
// decision. While loading, protected pages wait instead of redirecting.
func Decide(s Snapshot, req Requirement) Decision {
	if req == RequirePublic {
		return DecisionAdmit
	}

	switch s.State {
	case StateLoading:
		return DecisionWait
	case StateAuthenticated:
		if s.Profile == nil {
			return DecisionRedirectToLogin
		}
		if req == RequireAdmin && s.Profile.Role != RoleAdmin {
			return DecisionRedirectToDefaultDashboard
		}
		return DecisionAdmit
	default:
		return DecisionRedirectToLogin
	}
}
