package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	embedded "github.com/goserg/clubshub"
	authservice "github.com/goserg/clubshub/auth/service"
	"github.com/goserg/clubshub/auth/users"
	"github.com/goserg/clubshub/internal/catalog"
	"github.com/goserg/clubshub/internal/config"
	"github.com/goserg/clubshub/internal/domain"
	"github.com/goserg/clubshub/internal/metrics"
	"github.com/goserg/clubshub/internal/service"
	"github.com/goserg/clubshub/internal/web/webpath"
)

type Server struct {
	auth  *authservice.Service
	clubs *service.ClubService
	app   *fiber.App
	cfg   config.Server
	log   *logrus.Entry
}

const (
	userKey    = "user"
	sessionKey = "session"
	toastKey   = "toast"
)

type highlight struct {
	Value string
	Label string
}

var highlights = []highlight{
	{Value: "500+", Label: "Active Members"},
	{Value: "50+", Label: "Events This Year"},
	{Value: "25+", Label: "Awards Won"},
}

func New(clubs *service.ClubService, cfg config.Server, authService *authservice.Service, log *logrus.Logger) (*Server, error) {
	server := Server{
		clubs: clubs,
		auth:  authService,
		cfg:   cfg,
		log:   log.WithField("name", "web"),
	}

	viewsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(viewsFS), ".html")
	engine.Reload(cfg.Debug)
	engine.Debug(cfg.Debug)
	engine.AddFunc("Markdown", renderMarkdown)
	engine.AddFunc("Count", formatCount)
	engine.AddFunc("Rating", formatRating)
	engine.AddFunc("Lower", lower)
	engine.AddFunc("JoinClubPath", webpath.JoinClubPath)

	publicFS, err := fs.Sub(embedded.Public, "public")
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		Views:                 engine,
		ErrorHandler:          server.handleError,
		DisableStartupMessage: !cfg.Debug,
		CaseSensitive:         true,
		StrictRouting:         true,
	})
	app.Use(server.sessionMiddleware)
	app.Use(webpath.Static, filesystem.New(filesystem.Config{
		Root: http.FS(publicFS),
	}))

	app.Get(webpath.Home, server.handleMain)
	app.Get(webpath.Login, server.HandleGetLogin)
	app.Post(webpath.Login, server.HandlePostLogin)
	app.Get(webpath.Logout, server.HandleLogout)
	app.Get(webpath.Join, server.handleJoinGet)
	app.Post(webpath.Join, server.handleJoinPost)
	app.Get(webpath.JoinClub, server.handleJoinClubGet)
	app.Post(webpath.JoinClub, server.handleJoinClubPost)

	app.Get(webpath.ApiClubs, server.handleApiClubs)
	app.Get(webpath.ApiGetClub, server.handleApiClub)
	if cfg.Metrics {
		app.Get(webpath.Metrics, adaptor.HTTPHandler(promhttp.Handler()))
	}
	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// sessionMiddleware resolves the session user and pending toast of the request
// and applies the access rules.
func (s *Server) sessionMiddleware(ctx *fiber.Ctx) error {
	id, user, err := s.auth.Session(ctx.Context(), ctx.Cookies(authservice.CookieName))
	if err != nil {
		s.log.WithError(err).Debug("dropping session cookie")
		ctx.ClearCookie(authservice.CookieName)
		id, user = uuid.Nil, users.User{}
	}
	ctx.Locals(sessionKey, id)
	ctx.Locals(userKey, user)
	if t := popToast(ctx); t != nil {
		ctx.Locals(toastKey, t)
	}

	err = s.auth.Authorize(user, ctx.Method(), ctx.Path())
	switch {
	case err == nil:
		return ctx.Next()
	case errors.Is(err, authservice.ErrNotAuthorized):
		return s.redirectToLogin(ctx)
	case errors.Is(err, authservice.ErrForbidden):
		return fiber.ErrForbidden
	default:
		return err
	}
}

func (s *Server) redirectToLogin(ctx *fiber.Ctx) error {
	description := "Please login to continue"
	if strings.HasPrefix(ctx.Path(), webpath.Join+"/") {
		description = "Please login to join a club"
	}
	setToast(ctx, toast{
		Title:       "Login Required",
		Description: description,
		Variant:     variantDestructive,
	})
	return ctx.Redirect(webpath.Login+"?next="+ctx.Path(), fiber.StatusSeeOther)
}

func currentUser(ctx *fiber.Ctx) users.User {
	user, _ := ctx.Locals(userKey).(users.User)
	return user
}

func currentSession(ctx *fiber.Ctx) uuid.UUID {
	id, _ := ctx.Locals(sessionKey).(uuid.UUID)
	return id
}

// page starts the template data of a request.
func page(ctx *fiber.Ctx, title string) data {
	t, _ := ctx.Locals(toastKey).(*toast)
	return newData(title).WithUser(currentUser(ctx)).WithToast(t)
}

func (s *Server) render(ctx *fiber.Ctx, status int, name string, d data) error {
	return ctx.Status(status).Render(name, d, "layouts/main")
}

func (s *Server) handleMain(ctx *fiber.Ctx) error {
	return s.render(ctx, fiber.StatusOK, "index", page(ctx, "KMIT Clubs Hub").
		With("Clubs", s.clubs.List()).
		With("Highlights", highlights).
		With("Stats", s.clubs.Stats()))
}

func (s *Server) loginPage(ctx *fiber.Ctx, creds authservice.Credentials, next string) data {
	userType, err := users.ParseUserType(creds.UserType)
	if err != nil {
		userType = users.Student
	}
	return page(ctx, "Login").
		With("UserTypes", users.Types()).
		With("UserType", userType).
		With("RollNo", creds.RollNumber).
		With("Next", next)
}

func (s *Server) HandleGetLogin(ctx *fiber.Ctx) error {
	next := ctx.Query("next")
	if !webpath.LocalRedirect(next) {
		next = ""
	}
	return s.render(ctx, fiber.StatusOK, "login", s.loginPage(ctx, authservice.Credentials{}, next))
}

func (s *Server) HandlePostLogin(ctx *fiber.Ctx) error {
	creds := parseSignInRequest(ctx)
	next := ctx.FormValue("next")
	if !webpath.LocalRedirect(next) {
		next = webpath.Home
	}
	id, user, err := s.auth.Login(ctx.Context(), currentSession(ctx), creds)
	if err != nil {
		if !errors.Is(err, authservice.ErrEmptyFields) && !errors.Is(err, users.ErrUnknownUserType) {
			return err
		}
		metrics.LoginFailed()
		return s.render(ctx, fiber.StatusBadRequest, "login",
			s.loginPage(ctx, creds, next).WithErrors(err))
	}
	cookie, err := s.auth.GenerateJWTCookie(id, "")
	if err != nil {
		return err
	}
	ctx.Cookie(cookie)
	metrics.Login(user.Type.String())
	setToast(ctx, toast{
		Title:       "Welcome!",
		Description: "Signed in as " + user.Name,
		Variant:     variantDefault,
	})
	return ctx.Redirect(next, fiber.StatusSeeOther)
}

func (s *Server) HandleLogout(ctx *fiber.Ctx) error {
	wasLoggedIn := !currentUser(ctx).IsZero()
	if err := s.auth.Logout(ctx.Context(), currentSession(ctx)); err != nil {
		return err
	}
	ctx.ClearCookie(authservice.CookieName)
	if wasLoggedIn {
		metrics.Logout()
	}
	return ctx.Redirect(webpath.Home, fiber.StatusSeeOther)
}

func (s *Server) joinPage(ctx *fiber.Ctx, form registrationForm) data {
	return page(ctx, "Join KMIT Clubs Hub").
		With("Form", form).
		With("Branches", domain.Branches).
		With("Years", domain.Years)
}

func (s *Server) handleJoinGet(ctx *fiber.Ctx) error {
	var form registrationForm
	if user := currentUser(ctx); !user.IsZero() {
		form.Name = user.Name
		form.RollNumber = user.RollNumber
		form.Email = user.Email
	}
	return s.render(ctx, fiber.StatusOK, "join", s.joinPage(ctx, form))
}

func (s *Server) handleJoinPost(ctx *fiber.Ctx) error {
	form := parseRegistrationForm(ctx)
	if err := form.Validate(); err != nil {
		metrics.Registration(metrics.StatusInvalid)
		return s.render(ctx, fiber.StatusBadRequest, "join", s.joinPage(ctx, form).WithErrors(err))
	}
	r := s.clubs.Register(ctx.Context(), form.convertToDomain())
	setToast(ctx, toast{
		Title:       "Registration Submitted",
		Description: "Thank you for registering, " + r.Name + "!",
		Variant:     variantDefault,
	})
	return ctx.Redirect(webpath.Join, fiber.StatusSeeOther)
}

func (s *Server) joinClubPage(ctx *fiber.Ctx, club domain.Club, form applicationForm) data {
	return page(ctx, "Join "+club.Name).
		With("Club", club).
		With("Form", form)
}

func (s *Server) clubNotFound(ctx *fiber.Ctx) error {
	return s.render(ctx, fiber.StatusNotFound, "clubNotFound", page(ctx, "Club Not Found"))
}

func (s *Server) handleJoinClubGet(ctx *fiber.Ctx) error {
	user := currentUser(ctx)
	if user.IsZero() {
		return s.redirectToLogin(ctx)
	}
	club, err := s.clubs.Get(ctx.Params("clubId"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return s.clubNotFound(ctx)
		}
		return err
	}
	return s.render(ctx, fiber.StatusOK, "joinClub", s.joinClubPage(ctx, club, applicationForm{
		Email: user.Email,
	}))
}

func (s *Server) handleJoinClubPost(ctx *fiber.Ctx) error {
	user := currentUser(ctx)
	if user.IsZero() {
		return s.redirectToLogin(ctx)
	}
	club, err := s.clubs.Get(ctx.Params("clubId"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return s.clubNotFound(ctx)
		}
		return err
	}
	form := parseApplicationForm(ctx)
	if err := form.Validate(); err != nil {
		metrics.Application(club.Slug, metrics.StatusInvalid)
		return s.render(ctx, fiber.StatusBadRequest, "joinClub", s.joinClubPage(ctx, club, form).WithErrors(err))
	}
	app, err := s.clubs.Apply(ctx.Context(), user, form.convertToDomain(club))
	if err != nil {
		return err
	}
	setToast(ctx, toast{
		Title:       "Application Submitted",
		Description: "Your application to join " + app.Club.Name + " has been submitted successfully!",
		Variant:     variantDefault,
	})
	return ctx.Redirect(webpath.JoinClubPath(club.Slug), fiber.StatusSeeOther)
}

func (s *Server) handleApiClubs(ctx *fiber.Ctx) error {
	return ctx.JSON(s.clubs.List())
}

func (s *Server) handleApiClub(ctx *fiber.Ctx) error {
	club, err := s.clubs.Get(ctx.Params("clubId"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}
	return ctx.JSON(club)
}

func (s *Server) handleError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	log := s.log.WithFields(logrus.Fields{
		"method": ctx.Method(),
		"path":   ctx.Path(),
		"status": code,
	})
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	} else {
		log.WithError(err).Debug("request rejected")
	}
	renderErr := s.render(ctx, code, "error", page(ctx, http.StatusText(code)).
		With("Code", code).
		With("Message", http.StatusText(code)))
	if renderErr != nil {
		return ctx.Status(code).SendString(http.StatusText(code))
	}
	return nil
}
