package tgbot

import (
	"errors"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/clubshub/bot/model"
	"github.com/goserg/clubshub/internal/catalog"
	"github.com/goserg/clubshub/internal/domain"
)

var ErrNoClub = errors.New("club not found, see /clubs")

type ClubsCommand struct {
	clubs ClubCatalog
}

func (c *ClubsCommand) Run(_ model.User, _ string, resp *tgbotapi.MessageConfig) error {
	var b strings.Builder
	for _, club := range c.clubs.List() {
		b.WriteString(club.Name)
		b.WriteString(" (")
		b.WriteString(club.Category)
		b.WriteString(") /club ")
		b.WriteString(club.Slug)
		b.WriteString("\n")
	}
	resp.Text = b.String()
	return nil
}

func (c *ClubsCommand) Help() string {
	return "Lists all clubs"
}

func (c *ClubsCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *ClubsCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}

type ClubCommand struct {
	clubs ClubCatalog
}

func (c *ClubCommand) Run(_ model.User, args string, resp *tgbotapi.MessageConfig) error {
	club, err := findClub(c.clubs, args)
	if err != nil {
		return err
	}
	resp.Text = describeClub(club)
	return nil
}

func (c *ClubCommand) Help() string {
	return "Shows a club: /club mudra"
}

func (c *ClubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *ClubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}

func findClub(clubs ClubCatalog, args string) (domain.Club, error) {
	club, err := clubs.Get(strings.TrimSpace(args))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return domain.Club{}, ErrNoClub
		}
		return domain.Club{}, err
	}
	return club, nil
}

func describeClub(club domain.Club) string {
	var b strings.Builder
	b.WriteString(club.Name)
	b.WriteString(" - ")
	b.WriteString(club.Category)
	b.WriteString("\n")
	b.WriteString(club.Description)
	b.WriteString("\n\nLeader: ")
	b.WriteString(club.Leader)
	b.WriteString("\nMembers: ")
	b.WriteString(strconv.Itoa(club.MemberCount))
	b.WriteString(", upcoming events: ")
	b.WriteString(strconv.Itoa(club.UpcomingEvents))
	b.WriteString(", rating: ")
	b.WriteString(strconv.FormatFloat(club.Rating, 'f', 1, 64))
	b.WriteString("\nNotifications about new members: /sub ")
	b.WriteString(club.Slug)
	return b.String()
}
