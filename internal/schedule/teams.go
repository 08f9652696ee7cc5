package schedule

import (
	"strings"
	"unicode"

	"courtside/internal/core"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTeam folds case, accents and spacing so "LA Clippers" and
// "la  clippers" compare equal.
func NormalizeTeam(name string) string {
	name = strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	name = strings.ReplaceAll(name, ".", "")
	return strings.Join(strings.Fields(name), " ")
}

// teamMatches reports whether query names the team. A query matches on the
// full name or on any whole word of it, so "Lakers" finds "Los Angeles Lakers".
func teamMatches(team, query string) bool {
	team, query = NormalizeTeam(team), NormalizeTeam(query)
	if team == "" || query == "" {
		return false
	}
	if team == query {
		return true
	}
	return strings.HasSuffix(team, " "+query) || strings.HasPrefix(team, query+" ") || strings.Contains(team, " "+query+" ")
}

// FindGame returns the first game whose id equals ref, or whose teams match the
// "Away @ Home" / "Away vs Home" form of ref, or which involves the single team ref names.
func FindGame(games []core.Game, ref string) (core.Game, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return core.Game{}, false
	}

	for _, g := range games {
		if strings.EqualFold(g.ID, ref) {
			return g, true
		}
	}

	if away, home, ok := splitMatchup(ref); ok {
		for _, g := range games {
			if teamMatches(g.AwayTeam, away) && teamMatches(g.HomeTeam, home) {
				return g, true
			}
		}
		return core.Game{}, false
	}

	for _, g := range games {
		if teamMatches(g.HomeTeam, ref) || teamMatches(g.AwayTeam, ref) {
			return g, true
		}
	}
	return core.Game{}, false
}

func splitMatchup(ref string) (string, string, bool) {
	lower := strings.ToLower(ref)
	for _, sep := range []string{" @ ", " at ", " vs ", " vs. ", " v "} {
		if i := strings.Index(lower, sep); i >= 0 {
			return lower[:i], lower[i+len(sep):], true
		}
	}
	if away, home, ok := strings.Cut(ref, "@"); ok {
		return away, home, true
	}
	return "", "", false
}
