package sanitize

import (
	"strings"

	"courtside/internal/core"
)

// Games coerces a parsed schedule into games. Anything but an array yields an
// empty slice. Entries that are not objects or that name neither team are
// dropped; ids are not generated here.
func Games(v any) []core.Game {
	items, _ := v.([]any)

	games := make([]core.Game, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		game := core.Game{
			ID:       strings.TrimSpace(String(m["id"])),
			HomeTeam: strings.TrimSpace(String(m["homeTeam"])),
			AwayTeam: strings.TrimSpace(String(m["awayTeam"])),
			Time:     strings.TrimSpace(String(m["time"])),
			Date:     strings.TrimSpace(String(m["date"])),
			UTCTime:  strings.TrimSpace(String(m["utcTime"])),
		}
		if game.HomeTeam == "" && game.AwayTeam == "" {
			continue
		}
		games = append(games, game)
	}
	return games
}
