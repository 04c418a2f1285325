package tgbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/goserg/clubshub/bot/model"
	"github.com/goserg/clubshub/internal/config"
	"github.com/goserg/clubshub/internal/domain"
)

const notificationsBuffer = 64

var ErrBadRequest = errors.New("unknown command, see /help")

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	sender  sender
	log     *logrus.Entry
	admins  mapset.Set[int64]
	subs    *subscriptions
	stats   *applicationStats
	pending chan domain.Application

	commands *Commands
}

func New(clubs ClubCatalog, cfg config.Config, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TgBot.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}
	api.Debug = cfg.Server.Debug
	if _, err := api.GetMe(); err != nil {
		return nil, err
	}
	b := newBot(api, clubs, cfg.TgBot.AdminChatIDs, log)
	b.api = api
	return b, nil
}

func newBot(s sender, clubs ClubCatalog, admins []int64, log *logrus.Logger) *Bot {
	b := Bot{
		sender:  s,
		log:     log.WithField("name", "tg_bot"),
		admins:  mapset.NewSet[int64](admins...),
		subs:    newSubs(),
		stats:   newApplicationStats(),
		pending: make(chan domain.Application, notificationsBuffer),
	}
	b.commands = NewCommands(clubs, b.subs, b.stats)
	return &b
}

// Run polls telegram for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleMessage(update)
		case app := <-b.pending:
			b.sendApplicationNotification(app)
		}
	}
}

// NotifyApplication queues a message for the chats subscribed to the club.
// It never blocks; notifications are dropped when the queue is full.
func (b *Bot) NotifyApplication(app domain.Application) {
	select {
	case b.pending <- app:
	default:
		b.log.WithField("club", app.Club.Slug).Warn("notification queue is full, dropping")
	}
}

func (b *Bot) user(tgUser *tgbotapi.User) model.User {
	u := model.User{
		ID:        tgUser.ID,
		FirstName: tgUser.FirstName,
		Username:  tgUser.UserName,
		Role:      model.RoleUser,
	}
	if b.admins.Contains(tgUser.ID) {
		u.Role = model.RoleAdmin
	}
	return u
}

func (b *Bot) handleMessage(update tgbotapi.Update) {
	if update.Message == nil { // ignore any non-Message updates
		return
	}
	tgUser := update.SentFrom()
	if tgUser == nil {
		return
	}
	log := b.log.WithFields(map[string]interface{}{
		"user_id": tgUser.ID,
		"text":    update.Message.Text,
	})
	user := b.user(tgUser)

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")

	var err error
	if update.Message.IsCommand() {
		err = b.commands.RunCommand(user, update.Message.Command(), strings.TrimSpace(update.Message.CommandArguments()), &msg)
	} else {
		err = ErrBadRequest
	}
	if err != nil {
		msg.Text = err.Error()
	}
	if _, err := b.sender.Send(msg); err != nil {
		log.WithError(err).Error("send error")
		return
	}
}

func (b *Bot) sendApplicationNotification(app domain.Application) {
	b.stats.Inc(app.Club.Slug)
	text := fmt.Sprintf("New application to %s from %s (%s)", app.Club.Name, app.Name, app.RollNumber)
	for _, chatID := range b.subs.GetChatIDs(app.Club.Slug) {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := b.sender.Send(msg); err != nil {
			b.log.WithError(err).WithField("chat_id", chatID).Error("notification send error")
		}
	}
}
