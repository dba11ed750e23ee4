// Package routes decides which page a navigation request actually renders,
// given the current session state. The decision function is pure so it can
// be re-evaluated on every navigation and on every session change.
package routes

import "github.com/blastline/console/internal/api"

// Page identifies a navigable screen.
type Page string

const (
	PageLogin      Page = "login"
	PageRegister   Page = "register"
	PageOnboarding Page = "onboarding"
	PageDashboard  Page = "dashboard"
	PageCampaigns  Page = "campaigns"
	PageContacts   Page = "contacts"
	PageTemplates  Page = "templates"
	PageSettings   Page = "settings"
)

// IsPublic reports whether a page is reachable without a session.
func IsPublic(p Page) bool {
	return p == PageLogin || p == PageRegister
}

// Verdict classifies a gate decision.
type Verdict int

const (
	// VerdictWait means the initial credential resolution is still pending;
	// render a neutral waiting state and decide nothing yet.
	VerdictWait Verdict = iota
	// VerdictAllow admits the requested page.
	VerdictAllow
	// VerdictRedirect sends the user to Target instead.
	VerdictRedirect
)

// Decision is the outcome of a gate evaluation. When redirecting to the
// login page, ReturnTo remembers the originally requested page so a
// post-login navigation can restore it.
type Decision struct {
	Verdict  Verdict
	Target   Page
	ReturnTo Page
}

// Decide maps (loading, user, requested) to a decision:
//
//  1. loading → wait, no redirect.
//  2. unauthenticated → login/register admitted; anything else redirects to
//     login, remembering the requested page.
//  3. onboarding incomplete → everything protected funnels to onboarding.
//  4. onboarding complete → the onboarding page itself redirects to the
//     dashboard.
//  5. otherwise → admit.
func Decide(loading bool, user *api.User, requested Page) Decision {
	if loading {
		return Decision{Verdict: VerdictWait}
	}

	if user == nil {
		if IsPublic(requested) {
			return Decision{Verdict: VerdictAllow}
		}
		return Decision{Verdict: VerdictRedirect, Target: PageLogin, ReturnTo: requested}
	}

	if IsPublic(requested) {
		// A signed-in user has no business on the auth screens.
		if !user.OnboardingCompleted {
			return Decision{Verdict: VerdictRedirect, Target: PageOnboarding}
		}
		return Decision{Verdict: VerdictRedirect, Target: PageDashboard}
	}

	if !user.OnboardingCompleted && requested != PageOnboarding {
		return Decision{Verdict: VerdictRedirect, Target: PageOnboarding}
	}

	if user.OnboardingCompleted && requested == PageOnboarding {
		return Decision{Verdict: VerdictRedirect, Target: PageDashboard}
	}

	return Decision{Verdict: VerdictAllow}
}
