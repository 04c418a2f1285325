package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goserg/clubshub/auth/service"
	"github.com/goserg/clubshub/auth/storage/mem"
	"github.com/goserg/clubshub/internal/catalog"
	"github.com/goserg/clubshub/internal/config"
	"github.com/goserg/clubshub/internal/domain"
	clubservice "github.com/goserg/clubshub/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	apps []domain.Application
}

func (n *recordingNotifier) NotifyApplication(app domain.Application) {
	n.apps = append(n.apps, app)
}

func testRules() []service.Rule {
	return []service.Rule{
		{Name: "static", Path: `^/static/`, Method: []string{"GET", "HEAD"}, Allow: []string{"*"}, Order: 0},
		{Name: "join club", Path: `^/join/[^/]+/?$`, Method: []string{"*"}, Allow: []string{"student", "faculty", "admin"}, Order: 10},
		{Name: "metrics", Path: `^/metrics$`, Method: []string{"GET", "HEAD"}, Allow: []string{"admin"}, Order: 20},
		{Name: "public", Path: `.*`, Method: []string{"*"}, Allow: []string{"*"}, Order: 100},
	}
}

type testEnv struct {
	server   *Server
	sessions *mem.Storage
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	sessions := mem.New()
	auth, err := service.New(service.Config{
		Token:      "test-secret",
		Expiration: "1h",
		Rules:      testRules(),
	}, sessions, log)
	require.NoError(t, err)

	c, err := catalog.Default()
	require.NoError(t, err)
	clubs := clubservice.New(c, log)
	n := &recordingNotifier{}
	clubs.SetNotifier(n)

	s, err := New(clubs, config.Server{Metrics: true}, auth, log)
	require.NoError(t, err)
	return &testEnv{server: s, sessions: sessions, notifier: n}
}

// browser keeps cookies between requests like a browser tab does.
type browser struct {
	t       *testing.T
	env     *testEnv
	cookies map[string]string
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, env: e, cookies: make(map[string]string)}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := b.env.server.app.Test(req, -1)
	require.NoError(b.t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	require.NoError(b.t, resp.Body.Close())
	for _, c := range resp.Cookies() {
		if c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c.Value
	}
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(rollNo string, userType string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{
		"rollNo":   {rollNo},
		"password": {"secret"},
		"userType": {userType},
	})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.NotEmpty(b.t, b.cookies[service.CookieName])
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp, body := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome to")
	assert.Contains(t, body, `id="login"`)
	assert.NotContains(t, body, `id="logout"`)

	var last int
	for _, slug := range []string{"mudra", "traces-of-lenses", "aalap", "abhinaya"} {
		i := strings.Index(body, `data-club="`+slug+`"`)
		require.NotEqual(t, -1, i, slug)
		assert.Greater(t, i, last, "clubs must keep catalog order")
		last = i
	}
	assert.Equal(t, 2, strings.Count(body, `class="badge badge-accent"`))
	assert.Contains(t, body, "298 members across 4 clubs")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp, body := b.get("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome Back!")

	resp, _ = b.post("/login", url.Values{
		"rollNo":   {"21k61a0501"},
		"password": {"anything"},
		"userType": {"student"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	require.NotEmpty(t, b.cookies[service.CookieName])
	assert.Equal(t, 1, env.sessions.Len())

	resp, body = b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Student 21K61A0501")
	assert.Contains(t, body, "Signed in as Student 21K61A0501")
	assert.Contains(t, body, `id="logout"`)

	_, body = b.get("/")
	assert.NotContains(t, body, "Signed in as", "toast is shown once")
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{
			name: "empty roll number",
			form: url.Values{"rollNo": {" "}, "password": {"x"}, "userType": {"student"}},
			want: "Please fill in all fields",
		},
		{
			name: "empty password",
			form: url.Values{"rollNo": {"21K61A0501"}, "userType": {"faculty"}},
			want: "Please fill in all fields",
		},
		{
			name: "unknown user type",
			form: url.Values{"rollNo": {"21K61A0501"}, "password": {"x"}, "userType": {"dean"}},
			want: "unknown user type",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			b := env.browser(t)
			resp, body := b.post("/login", tt.form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, tt.want)
			assert.Empty(t, b.cookies[service.CookieName])
			assert.Equal(t, 0, env.sessions.Len())
		})
	}
}

func TestLogin_KeepsSessionOnFailure(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.login("21K61A0501", "student")

	resp, _ := b.post("/login", url.Values{"rollNo": {""}, "password": {"x"}, "userType": {"admin"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body := b.get("/")
	assert.Contains(t, body, "Student 21K61A0501")
}

func TestLogin_ReplacesUser(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.login("21K61A0501", "student")
	b.login("emp7", "faculty")

	_, body := b.get("/")
	assert.Contains(t, body, "Faculty EMP7")
	assert.NotContains(t, body, "Student 21K61A0501")
	assert.Equal(t, 1, env.sessions.Len())
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	before := counterValue(t, "clubshub_logouts_total")
	resp, _ := b.get("/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "logout of a guest is fine")
	assert.Equal(t, before, counterValue(t, "clubshub_logouts_total"), "guest logout is not counted")

	b.login("21K61A0501", "student")
	resp, _ = b.get("/logout")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, before+1, counterValue(t, "clubshub_logouts_total"))
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Empty(t, b.cookies[service.CookieName])
	assert.Equal(t, 0, env.sessions.Len())

	_, body := b.get("/")
	assert.Contains(t, body, `id="login"`)
	assert.NotContains(t, body, "Student 21K61A0501")
}

func TestStaleSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.login("21K61A0501", "student")
	stale := b.cookies[service.CookieName]
	b.get("/logout")

	b.cookies[service.CookieName] = stale
	resp, body := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="login"`)
	assert.Empty(t, b.cookies[service.CookieName], "stale cookie is cleared")

	b.cookies[service.CookieName] = "not-a-jwt"
	resp, _ = b.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJoinClub_GuestRedirected(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp, _ := b.get("/join/mudra")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=/join/mudra", resp.Header.Get("Location"))

	_, body := b.get("/login?next=/join/mudra")
	assert.Contains(t, body, "Login Required")
	assert.Contains(t, body, "Please login to join a club")
	assert.Contains(t, body, `name="next" value="/join/mudra"`)

	resp, _ = b.post("/login", url.Values{
		"rollNo":   {"21K61A0501"},
		"password": {"x"},
		"userType": {"student"},
		"next":     {"/join/mudra"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/join/mudra", resp.Header.Get("Location"))

	resp, _ = b.post("/join/mudra", url.Values{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_IgnoresForeignNext(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	resp, _ := b.post("/login", url.Values{
		"rollNo":   {"21K61A0501"},
		"password": {"x"},
		"userType": {"student"},
		"next":     {"//evil.example"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestJoinClub(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.login("21K61A0501", "student")

	resp, body := b.get("/join/mudra")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Join Mudra")
	assert.Contains(t, body, "Priya Sharma")
	assert.Contains(t, body, `value="Student 21K61A0501"`)
	assert.Contains(t, body, `value="21K61A0501"`)
	assert.Contains(t, body, `value="21k61a0501@kmit.edu.in"`)

	resp, body = b.get("/join/3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Join Aalap")

	resp, body = b.get("/join/chess")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Club Not Found")
}

func TestJoinClub_Submit(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.login("21K61A0501", "student")

	resp, body := b.post("/join/traces-of-lenses", url.Values{
		"email":      {"someone@kmit.edu.in"},
		"motivation": {""},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "phone number is required")
	assert.Contains(t, body, "tell us why you want to join")
	assert.Contains(t, body, `value="someone@kmit.edu.in"`)
	assert.Empty(t, env.notifier.apps)

	resp, _ = b.post("/join/traces-of-lenses", url.Values{
		"email":      {"someone@kmit.edu.in"},
		"phone":      {"+91 98765 43210"},
		"experience": {"weddings"},
		"motivation": {"light"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/join/traces-of-lenses", resp.Header.Get("Location"))
	require.Len(t, env.notifier.apps, 1)
	app := env.notifier.apps[0]
	assert.Equal(t, "Traces of Lenses", app.Club.Name)
	assert.Equal(t, "Student 21K61A0501", app.Name)
	assert.Equal(t, "21K61A0501", app.RollNumber)
	assert.Equal(t, "light", app.Motivation)

	_, body = b.get("/join/traces-of-lenses")
	assert.Contains(t, body, "Application Submitted")
	assert.Contains(t, body, "Your application to join Traces of Lenses has been submitted successfully!")

	resp, _ = b.post("/join/chess", url.Values{"email": {"a@b.c"}, "phone": {"9876543210"}, "motivation": {"x"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJoin(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp, body := b.get("/join")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Register Now")
	assert.Contains(t, body, "Computer Science Engineering")

	resp, body = b.post("/join", url.Values{"name": {"Asha"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "roll number is required")
	assert.Contains(t, body, "select your branch")
	assert.Contains(t, body, `value="Asha"`)

	resp, _ = b.post("/join", url.Values{
		"name":       {"Asha"},
		"rollNumber": {"21K61A0501"},
		"email":      {"asha@kmit.edu.in"},
		"phone":      {"9876543210"},
		"branch":     {"cse"},
		"year":       {"2"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = b.get("/join")
	assert.Contains(t, body, "Thank you for registering, Asha!")
}

func TestJoin_PrefilledForUser(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.login("21K61A0501", "student")

	_, body := b.get("/join")
	assert.Contains(t, body, `value="Student 21K61A0501"`)
	assert.Contains(t, body, `value="21k61a0501@kmit.edu.in"`)
}

func TestApiClubs(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp, body := b.get("/api/clubs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var clubs []domain.Club
	require.NoError(t, json.Unmarshal([]byte(body), &clubs))
	c, err := catalog.Default()
	require.NoError(t, err)
	assert.Equal(t, c.List(), clubs)

	resp, body = b.get("/api/clubs/abhinaya")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var club domain.Club
	require.NoError(t, json.Unmarshal([]byte(body), &club))
	assert.Equal(t, "Sneha Reddy", club.Leader)

	resp, _ = b.get("/api/clubs/chess")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsAccess(t *testing.T) {
	env := newTestEnv(t)

	guest := env.browser(t)
	resp, _ := guest.get("/metrics")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body := guest.get("/login")
	assert.Contains(t, body, "Please login to continue")

	student := env.browser(t)
	student.login("21K61A0501", "student")
	resp, _ = student.get("/metrics")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := env.browser(t)
	admin.login("root", "admin")
	resp, body = admin.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "clubshub_logins_total")
}

func TestMetricsAccess_PathSpellings(t *testing.T) {
	env := newTestEnv(t)
	guest := env.browser(t)
	student := env.browser(t)
	student.login("21K61A0501", "student")

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/metrics/"},
		{method: http.MethodGet, path: "/METRICS"},
		{method: http.MethodGet, path: "/Metrics"},
		{method: http.MethodHead, path: "/metrics"},
	}
	for _, tt := range tests {
		resp, body := guest.do(httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "guest %s %s", tt.method, tt.path)
		assert.NotContains(t, body, "clubshub_logins_total")

		resp, body = student.do(httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "student %s %s", tt.method, tt.path)
		assert.NotContains(t, body, "clubshub_logins_total")
	}

	admin := env.browser(t)
	admin.login("root", "admin")
	resp, _ := admin.get("/METRICS")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "routes are case sensitive")
	resp, _ = admin.do(httptest.NewRequest(http.MethodHead, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStaticAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp, _ := b.get("/static/css/main.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := b.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Not Found")
}

// counterValue reads an unlabelled counter from the default registry.
func counterValue(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		require.Len(t, f.GetMetric(), 1)
		return f.GetMetric()[0].GetCounter().GetValue()
	}
	return 0
}
