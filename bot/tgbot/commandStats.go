package tgbot

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/clubshub/bot/model"
)

// applicationStats counts applications per club since start.
type applicationStats struct {
	mu     sync.Mutex
	counts map[string]int
}

func newApplicationStats() *applicationStats {
	return &applicationStats{counts: make(map[string]int)}
}

func (s *applicationStats) Inc(club string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[club]++
}

func (s *applicationStats) snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		m[k] = v
	}
	return m
}

type StatsCommand struct {
	stats *applicationStats
}

func (c *StatsCommand) Run(_ model.User, _ string, resp *tgbotapi.MessageConfig) error {
	counts := c.stats.snapshot()
	if len(counts) == 0 {
		resp.Text = "No applications yet"
		return nil
	}
	clubs := make([]string, 0, len(counts))
	for club := range counts {
		clubs = append(clubs, club)
	}
	sort.Strings(clubs)
	var b strings.Builder
	for _, club := range clubs {
		b.WriteString(club)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(counts[club]))
		b.WriteString("\n")
	}
	resp.Text = b.String()
	return nil
}

func (c *StatsCommand) Help() string {
	return "Applications per club since the last restart"
}

func (c *StatsCommand) Permission() mapset.Set[model.UserRole] {
	return adminsOnly()
}

func (c *StatsCommand) Visibility() mapset.Set[model.UserRole] {
	return adminsOnly()
}
