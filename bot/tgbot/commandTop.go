package tgbot

import (
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/clubshub/bot/model"
)

const topSize = 10

type TopCommand struct {
	clubs ClubCatalog
}

func (c *TopCommand) Run(_ model.User, _ string, resp *tgbotapi.MessageConfig) error {
	var buffer strings.Builder
	for i, club := range c.clubs.Top(topSize) {
		buffer.WriteString(strconv.Itoa(i + 1))
		buffer.WriteString(". ")
		buffer.WriteString(club.Name)
		buffer.WriteString(" (")
		buffer.WriteString(strconv.FormatFloat(club.Rating, 'f', 1, 64))
		buffer.WriteString(")\n")
	}
	resp.Text = buffer.String()
	return nil
}

func (c *TopCommand) Help() string {
	return "Best rated clubs"
}

func (c *TopCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *TopCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
