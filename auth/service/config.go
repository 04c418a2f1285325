package service

type Config struct {
	Token      string `toml:"token"`
	Expiration string `toml:"expiration"`
	// JanitorInterval is how often idle sessions are pruned.
	JanitorInterval string `toml:"janitor_interval"`
	Rules           []Rule `toml:"rules"`
}

// Rule grants the Allow roles access to paths matching the Path regexp.
// Method "*" matches any method, role "*" matches anyone including guests.
type Rule struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Method []string `toml:"method"`
	Allow  []string `toml:"allow"`
	Order  int      `toml:"order"`
}
