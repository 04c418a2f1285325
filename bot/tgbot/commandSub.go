package tgbot

import (
	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/clubshub/bot/model"
)

type SubCommand struct {
	clubs ClubCatalog
	subs  *subscriptions
}

func (c *SubCommand) Run(user model.User, args string, resp *tgbotapi.MessageConfig) error {
	club, err := findClub(c.clubs, args)
	if err != nil {
		return err
	}
	c.subs.Add(club.Slug, user.ID)
	resp.Text = "Subscribed to " + club.Name + ", to unsubscribe: /unsub " + club.Slug
	return nil
}

func (c *SubCommand) Help() string {
	return "Notify me about new applications to a club: /sub mudra"
}

func (c *SubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *SubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}

type UnsubCommand struct {
	clubs ClubCatalog
	subs  *subscriptions
}

func (c *UnsubCommand) Run(user model.User, args string, resp *tgbotapi.MessageConfig) error {
	club, err := findClub(c.clubs, args)
	if err != nil {
		return err
	}
	c.subs.Remove(club.Slug, user.ID)
	resp.Text = "Unsubscribed from " + club.Name
	return nil
}

func (c *UnsubCommand) Help() string {
	return "Stop notifications of a club: /unsub mudra"
}

func (c *UnsubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *UnsubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
