package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/goserg/clubshub/auth/users"
	"github.com/goserg/clubshub/internal/catalog"
	"github.com/goserg/clubshub/internal/domain"
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

func newTestService(t *testing.T) *ClubService {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := New(c, log)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestClubService_Apply(t *testing.T) {
	s := newTestService(t)
	n := &recordingNotifier{}
	s.SetNotifier(n)
	user := users.New("21k61a0501", users.Student)

	app, err := s.Apply(context.Background(), user, domain.Application{
		Club:       domain.Club{Slug: "aalap"},
		Name:       "Someone Else",
		RollNumber: "XXX",
		Email:      "me@kmit.edu.in",
		Phone:      "+91 98765 43210",
		Motivation: "music",
	})
	require.NoError(t, err)
	assert.Equal(t, "Aalap", app.Club.Name)
	assert.Equal(t, user.Name, app.Name)
	assert.Equal(t, user.RollNumber, app.RollNumber)
	assert.Equal(t, "me@kmit.edu.in", app.Email)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), app.SubmittedAt)
	require.Len(t, n.apps, 1)
	assert.Equal(t, app, n.apps[0])
}

func TestClubService_ApplyUnknownClub(t *testing.T) {
	s := newTestService(t)
	n := &recordingNotifier{}
	s.SetNotifier(n)

	_, err := s.Apply(context.Background(), users.New("a", users.Student), domain.Application{
		Club: domain.Club{Slug: "chess"},
	})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Empty(t, n.apps)
}

func TestClubService_ApplyWithoutNotifier(t *testing.T) {
	s := newTestService(t)
	_, err := s.Apply(context.Background(), users.New("a", users.Student), domain.Application{
		Club: domain.Club{Slug: "mudra"},
	})
	assert.NoError(t, err)
}

func TestClubService_Register(t *testing.T) {
	s := newTestService(t)
	r := s.Register(context.Background(), domain.Registration{Name: "A", RollNumber: "1"})
	assert.Equal(t, "A", r.Name)
	assert.False(t, r.SubmittedAt.IsZero())
}

func TestClubService_Stats(t *testing.T) {
	s := newTestService(t)
	assert.Equal(t, Stats{Clubs: 4, Members: 298, Events: 14}, s.Stats())
}
