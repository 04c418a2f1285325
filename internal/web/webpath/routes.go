package webpath

import "strings"

const (
	Home     = "/"
	Login    = "/login"
	Logout   = "/logout"
	Join     = "/join"
	JoinClub = Join + "/:clubId"
	Static   = "/static"
	Metrics  = "/metrics"

	Api         = "/api"
	ApiClubs    = Api + "/clubs"
	ApiGetClub  = ApiClubs + "/:clubId"
	HomeClubs   = Home + "#clubs"
	HomeEvents  = Home + "#events"
	HomeAbout   = Home + "#about"
	HomeContact = Home + "#contact"
)

// JoinClubPath is the join page of one club.
func JoinClubPath(slug string) string {
	return Join + "/" + slug
}

// LocalRedirect reports whether target is a same-site path safe to redirect to.
func LocalRedirect(target string) bool {
	return strings.HasPrefix(target, "/") &&
		!strings.HasPrefix(target, "//") &&
		!strings.HasPrefix(target, "/\\")
}

func Path() map[string]string {
	return map[string]string{
		"Home":     Home,
		"Clubs":    HomeClubs,
		"Events":   HomeEvents,
		"About":    HomeAbout,
		"Contact":  HomeContact,
		"Login":    Login,
		"Logout":   Logout,
		"Join":     Join,
		"ApiClubs": ApiClubs,
		"Static":   Static,
	}
}
