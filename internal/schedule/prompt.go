package schedule

import (
	"fmt"
	"time"
)

// dayLayout renders dates as "Monday, January 2".
const dayLayout = "Monday, January 2"

// BuildPrompt asks for the complete schedule of the day containing now and
// the day after. now should already be in the league's local zone.
func BuildPrompt(now time.Time) string {
	today := now.Format(dayLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(dayLayout)

	return fmt.Sprintf(`Find the OFFICIAL and COMPLETE NBA schedule for Today (%[1]s) and Tomorrow (%[2]s).

TASK:
1. Search for "NBA Schedule %[1]s" and "NBA Schedule %[2]s".
2. List EVERY game scheduled.
3. If there are no games today, clearly list the games for the next available game day.

Return a strictly formatted JSON array of objects.
Each object must have:
- id: a unique string (e.g., "LAL-GSW-20240520")
- homeTeam: full team name
- awayTeam: full team name
- time: string (e.g., "7:30 PM ET")
- date: string (e.g., "Oct 24")

Output ONLY the JSON array. No markdown, no explanation.`, today, tomorrow)
}
