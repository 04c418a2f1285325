package tgbot

import (
	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/clubshub/bot/model"
	"github.com/goserg/clubshub/internal/domain"
)

// ClubCatalog is the read side of the clubs the bot talks about.
type ClubCatalog interface {
	List() []domain.Club
	Get(key string) (domain.Club, error)
	Top(n int) []domain.Club
}

type Command interface {
	Run(user model.User, args string, resp *tgbotapi.MessageConfig) error
	Help() string
	Permission() mapset.Set[model.UserRole]
	Visibility() mapset.Set[model.UserRole]
}

type Commands struct {
	list map[string]Command
}

func NewCommands(clubs ClubCatalog, subs *subscriptions, stats *applicationStats) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"clubs": &ClubsCommand{
				clubs: clubs,
			},
			"club": &ClubCommand{
				clubs: clubs,
			},
			"top": &TopCommand{
				clubs: clubs,
			},
			"sub": &SubCommand{
				clubs: clubs,
				subs:  subs,
			},
			"unsub": &UnsubCommand{
				clubs: clubs,
				subs:  subs,
			},
			"stats": &StatsCommand{
				stats: stats,
			},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(user model.User, cmd string, args string, resp *tgbotapi.MessageConfig) error {
	command, ok := uc.list[cmd]
	if !ok || !command.Permission().Contains(user.Role) {
		return ErrBadRequest
	}
	return command.Run(user, args, resp)
}

func everyone() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleUser)
}

func adminsOnly() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin)
}
