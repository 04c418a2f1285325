package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	embedded "github.com/goserg/clubshub"
	"github.com/goserg/clubshub/internal/domain"
)

var ErrNotFound = errors.New("club not found")

// Catalog is the read-only list of clubs. It is safe for concurrent use
// because it is never modified after Load.
type Catalog struct {
	clubs []domain.Club
	index map[string]int
}

type file struct {
	Clubs []domain.Club `toml:"clubs"`
}

// Default loads the catalog embedded into the binary.
func Default() (*Catalog, error) {
	return Load(embedded.Catalog)
}

func Load(data []byte) (*Catalog, error) {
	var f file
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := Catalog{
		clubs: f.Clubs,
		index: make(map[string]int, 2*len(f.Clubs)),
	}
	for i, club := range f.Clubs {
		if club.ID == "" || club.Slug == "" || club.Name == "" {
			return nil, fmt.Errorf("club #%d: id, slug and name are required", i+1)
		}
		for _, key := range []string{club.ID, strings.ToLower(club.Slug)} {
			if _, ok := c.index[key]; ok {
				return nil, fmt.Errorf("club %q: duplicate key %q", club.Name, key)
			}
			c.index[key] = i
		}
	}
	return &c, nil
}

// List returns all clubs in source order.
func (c *Catalog) List() []domain.Club {
	clubs := make([]domain.Club, 0, len(c.clubs))
	for i := range c.clubs {
		clubs = append(clubs, clone(c.clubs[i]))
	}
	return clubs
}

func (c *Catalog) Featured() []domain.Club {
	var clubs []domain.Club
	for i := range c.clubs {
		if c.clubs[i].Featured {
			clubs = append(clubs, clone(c.clubs[i]))
		}
	}
	return clubs
}

// Get finds a club by slug (case insensitive) or by id.
func (c *Catalog) Get(key string) (domain.Club, error) {
	i, ok := c.index[key]
	if !ok {
		i, ok = c.index[strings.ToLower(key)]
	}
	if !ok {
		return domain.Club{}, ErrNotFound
	}
	return clone(c.clubs[i]), nil
}

// Top returns up to n clubs with the best rating.
func (c *Catalog) Top(n int) []domain.Club {
	clubs := c.List()
	sort.SliceStable(clubs, func(i, j int) bool {
		return clubs[i].Rating > clubs[j].Rating
	})
	if n >= 0 && n < len(clubs) {
		clubs = clubs[:n]
	}
	return clubs
}

func (c *Catalog) Len() int {
	return len(c.clubs)
}

// Stats sums the numbers shown on the landing page.
func (c *Catalog) Stats() (members int, events int) {
	for i := range c.clubs {
		members += c.clubs[i].MemberCount
		events += c.clubs[i].UpcomingEvents
	}
	return members, events
}

func clone(club domain.Club) domain.Club {
	club.Benefits = append([]string(nil), club.Benefits...)
	return club
}
