package lobby

import (
	"sort"

	"github.com/thoas/go-funk"
)

// Summary describes a table for listings.
type Summary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CurrentPlayers int    `json:"current_players"`
	MaxPlayers     int    `json:"max_players"`
	MinimalBid     int    `json:"minimal_bid"`
	StartingChips  int    `json:"starting_chips"`
	Running        bool   `json:"running"`
	HandNumber     int    `json:"hand_number"`
}

// Criteria filters tables. Zero values match anything.
type Criteria struct {
	Name           string `json:"name"`
	MaxPlayers     int    `json:"max_players"`
	CurrentPlayers int    `json:"current_players"`
	MinimalBid     int    `json:"minimal_bid"`
	StartingChips  int    `json:"starting_chips"`
}

// Matches reports whether a table summary satisfies the criteria.
func (c Criteria) Matches(s Summary) bool {
	return (c.Name == "" || c.Name == s.Name) &&
		(c.MaxPlayers == 0 || c.MaxPlayers == s.MaxPlayers) &&
		(c.CurrentPlayers == 0 || c.CurrentPlayers == s.CurrentPlayers) &&
		(c.MinimalBid == 0 || c.MinimalBid == s.MinimalBid) &&
		(c.StartingChips == 0 || c.StartingChips == s.StartingChips)
}

// Tables lists every open table ordered by name.
func (l *Lobby) Tables() []Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summaries := make([]Summary, 0, len(l.tables))
	for _, e := range l.tables {
		e.mu.Lock()
		settings := e.table.Settings()
		summaries = append(summaries, Summary{
			ID:             e.id,
			Name:           settings.Name,
			CurrentPlayers: e.table.OccupiedCount(),
			MaxPlayers:     settings.SeatCap,
			MinimalBid:     settings.MinimumBid,
			StartingChips:  settings.StartingChips,
			Running:        e.table.Running(),
			HandNumber:     e.table.HandNumber(),
		})
		e.mu.Unlock()
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

// Search lists the tables matching c.
func (l *Lobby) Search(c Criteria) []Summary {
	return funk.Filter(l.Tables(), c.Matches).([]Summary)
}
