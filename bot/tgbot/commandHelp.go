package tgbot

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/clubshub/bot/model"
)

type HelpCommand struct {
	commands map[string]Command
}

func (c *HelpCommand) Run(user model.User, args string, resp *tgbotapi.MessageConfig) error {
	if command, ok := c.commands[strings.TrimPrefix(args, "/")]; ok && command.Visibility().Contains(user.Role) {
		resp.Text = command.Help()
		return nil
	}
	names := make([]string, 0, len(c.commands))
	for name, command := range c.commands {
		if command.Visibility().Contains(user.Role) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, name := range names {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("Send /help and a command name for details")
	resp.Text = b.String()
	return nil
}

func (c *HelpCommand) Help() string {
	return "Lists available commands"
}

func (c *HelpCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *HelpCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
