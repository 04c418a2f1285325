package service

import (
	"context"
	"time"

	"github.com/goserg/clubshub/auth/users"
	"github.com/goserg/clubshub/internal/catalog"
	"github.com/goserg/clubshub/internal/domain"
	"github.com/goserg/clubshub/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Notifier is told about every accepted join application.
type Notifier interface {
	NotifyApplication(app domain.Application)
}

type ClubService struct {
	catalog  *catalog.Catalog
	notifier Notifier
	log      *logrus.Entry
	now      func() time.Time
}

func New(c *catalog.Catalog, log *logrus.Logger) *ClubService {
	return &ClubService{
		catalog: c,
		log:     log.WithField("name", "clubs"),
		now:     time.Now,
	}
}

// SetNotifier must be called before the service is shared between goroutines.
func (s *ClubService) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *ClubService) List() []domain.Club {
	return s.catalog.List()
}

func (s *ClubService) Featured() []domain.Club {
	return s.catalog.Featured()
}

func (s *ClubService) Get(key string) (domain.Club, error) {
	return s.catalog.Get(key)
}

func (s *ClubService) Top(n int) []domain.Club {
	return s.catalog.Top(n)
}

type Stats struct {
	Clubs   int
	Members int
	Events  int
}

func (s *ClubService) Stats() Stats {
	members, events := s.catalog.Stats()
	return Stats{
		Clubs:   s.catalog.Len(),
		Members: members,
		Events:  events,
	}
}

// Register accepts a membership registration. Registrations are only logged.
func (s *ClubService) Register(_ context.Context, r domain.Registration) domain.Registration {
	r.SubmittedAt = s.now()
	s.log.WithFields(logrus.Fields{
		"name":        r.Name,
		"roll_number": r.RollNumber,
		"email":       r.Email,
		"phone":       r.Phone,
		"branch":      r.Branch,
		"year":        r.Year,
		"interests":   r.Interests,
	}).Info("join form submitted")
	metrics.Registration(metrics.StatusOK)
	return r
}

// Apply accepts an application of user to the club app.Club.Slug.
// Name and roll number always come from the session user.
func (s *ClubService) Apply(_ context.Context, user users.User, app domain.Application) (domain.Application, error) {
	club, err := s.catalog.Get(app.Club.Slug)
	if err != nil {
		return domain.Application{}, err
	}
	app.Club = club
	app.Name = user.Name
	app.RollNumber = user.RollNumber
	app.SubmittedAt = s.now()
	s.log.WithFields(logrus.Fields{
		"club":        club.Slug,
		"name":        app.Name,
		"roll_number": app.RollNumber,
		"email":       app.Email,
		"phone":       app.Phone,
		"experience":  app.Experience,
		"motivation":  app.Motivation,
	}).Infof("join %s form submitted", club.Name)
	metrics.Application(club.Slug, metrics.StatusOK)
	if s.notifier != nil {
		s.notifier.NotifyApplication(app)
	}
	return app, nil
}
