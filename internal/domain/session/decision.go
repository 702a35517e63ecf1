package session

// Outcome is what a guard does for a given snapshot.
type Outcome int

const (
	// OutcomeLoading shows the loading indicator.
	OutcomeLoading Outcome = iota
	// OutcomeRender lets the guarded page render.
	OutcomeRender
	// OutcomeSoftRedirect changes route inside the current origin.
	OutcomeSoftRedirect
	// OutcomeHardRedirect performs a full navigation, possibly cross-origin.
	OutcomeHardRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRender:
		return "render"
	case OutcomeSoftRedirect:
		return "soft_redirect"
	case OutcomeHardRedirect:
		return "hard_redirect"
	default:
		return "unknown"
	}
}

// Target names where a redirect goes.
type Target int

const (
	TargetNone Target = iota
	// TargetLogin is the local login path on the current tenant.
	TargetLogin
	// TargetHome is the local home path.
	TargetHome
	// TargetTenantLogin is the login page on the user's own store subdomain.
	TargetTenantLogin
	// TargetRegistration is the global store registration site.
	TargetRegistration
)

func (t Target) String() string {
	switch t {
	case TargetLogin:
		return "login"
	case TargetHome:
		return "home"
	case TargetTenantLogin:
		return "tenant_login"
	case TargetRegistration:
		return "registration"
	default:
		return "none"
	}
}

// Decision is a guard's verdict for one snapshot. Slug is set for
// TargetTenantLogin.
type Decision struct {
	Outcome Outcome
	Target  Target
	Slug    string
}

var (
	loading      = Decision{Outcome: OutcomeLoading}
	render       = Decision{Outcome: OutcomeRender}
	toLogin      = Decision{Outcome: OutcomeSoftRedirect, Target: TargetLogin}
	toHome       = Decision{Outcome: OutcomeSoftRedirect, Target: TargetHome}
	registration = Decision{Outcome: OutcomeHardRedirect, Target: TargetRegistration}
)

func tenantLogin(u *User) Decision {
	return Decision{Outcome: OutcomeHardRedirect, Target: TargetTenantLogin, Slug: u.DomainStore}
}

// DecideAuthArea guards the authenticated dashboard. Only a user on an
// existing store is let through.
func DecideAuthArea(s Snapshot) Decision {
	switch {
	case s.Loading:
		return loading
	case s.User != nil && s.StoreExists:
		return render
	case s.User != nil:
		return tenantLogin(s.User)
	case s.StoreExists:
		return toLogin
	default:
		return registration
	}
}

// DecideLoginPage guards the login form. It renders only for an anonymous
// visitor on an existing store and sends signed-in users away.
func DecideLoginPage(s Snapshot) Decision {
	switch {
	case s.Loading:
		return loading
	case s.User == nil && s.StoreExists:
		return render
	case s.User == nil:
		return registration
	case s.StoreExists:
		return toHome
	default:
		return tenantLogin(s.User)
	}
}
