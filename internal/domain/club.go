package domain

type Club struct {
	ID             string   `toml:"id" json:"id"`
	Slug           string   `toml:"slug" json:"slug"`
	Name           string   `toml:"name" json:"name"`
	Category       string   `toml:"category" json:"category"`
	Description    string   `toml:"description" json:"description"`
	Image          string   `toml:"image" json:"image"`
	MemberCount    int      `toml:"member_count" json:"memberCount"`
	UpcomingEvents int      `toml:"upcoming_events" json:"upcomingEvents"`
	Rating         float64  `toml:"rating" json:"rating"`
	Featured       bool     `toml:"featured" json:"featured,omitempty"`
	Leader         string   `toml:"leader" json:"leader"`
	Requirements   string   `toml:"requirements" json:"requirements"`
	Benefits       []string `toml:"benefits" json:"benefits"`
}
