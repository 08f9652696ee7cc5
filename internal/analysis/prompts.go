package analysis

import (
	"fmt"

	"courtside/internal/core"
)

// SystemPrompt sets the analyst persona and the research protocol.
const SystemPrompt = `Act as a relentless NBA sharpshooter and data scientist.

YOUR GOAL: Provide high-confidence player prop bets with PRECISE, FACTUAL supporting data.

CRITICAL DATA PROTOCOL:
1. SEARCH ACTUAL GAME LOGS. Do not hallucinate stats. You must find the last 5 specific values for the stat in question.
2. SEARCH REFEREE ASSIGNMENTS. Look for "NBA Official Assignments [Date]". If not out, say "Pending" or "Assignments not released".
3. CHECK INJURY REPORTS. Look for "NBA Injury Report [Date]".
4. ANALYZE MATCHUPS. Look for "[Team] defense vs [Position] stats".`

const responseFormat = `RETURN FORMAT:
Return a STRICT JSON Object.
Structure:
{
  "marketContext": {
    "spread": "Team -X.X",
    "total": "O/U XXX.X",
    "summary": "One sentence summary of sharp money."
  },
  "props": [
    {
      "player": "Player Name",
      "team": "Team Name",
      "stat": "Stat Name (e.g. Points)",
      "line": 24.5,
      "prediction": "OVER" or "UNDER",
      "confidence": 8,
      "rationale": "Short summary.",
      "xFactor": "Specific detail.",
      "last5History": "4/5",
      "averageLast5": 28.2,
      "last5Values": [22, 28, 19, 31, 25],
      "opponentRank": "28th (Soft)",
      "protocolAnalysis": {
        "refereeFactor": "Ref data or Pending",
        "injuryIntel": "Injury news",
        "schemeMismatch": "Tactical finding",
        "sharpMoney": "Line movement"
      }
    }
  ]
}

IMPORTANT RULES:
1. Output ONLY valid JSON. No markdown blocks. No comments.
2. Ensure all keys and string values are quoted.
3. "last5Values" MUST be an array of numbers. If data is absolutely unfound, return []. DO NOT leave it null.
4. Do not output trailing commas.`

// BuildPrompt returns the user prompt for one matchup. A filter other than
// ALL narrows the prop mining step to that direction.
func BuildPrompt(game core.Game, filter core.PropFilter) string {
	focus := ""
	if filter != core.FilterAll && filter != "" {
		focus = fmt.Sprintf(" (Focus ONLY on %s props)", filter)
	}

	return fmt.Sprintf(`Analyze the upcoming NBA game: %[1]s @ %[2]s.
Date: %[3]s.

STEP 1: GENERAL MARKET SCAN
- Search for "NBA odds %[1]s vs %[2]s spread total".
- Identify the Spread, Total, and any "Sharp Money" trends.

STEP 2: REFEREE INTEL
- Search for "NBA referee assignments %[3]s".
- Note: Assignments are often released the morning of the game. If unknown, state "Assignments pending".

STEP 3: PLAYER PROP MINING%[4]s
- Find 4-6 high probability props.
- FOR EACH PLAYER SELECTED, YOU MUST:
  - SEARCH: "[Player Name] game log last 5 games".
  - EXTRACT: The EXACT numerical values for the stat (e.g., Points) from the last 5 games to populate 'last5Values'.
  - SEARCH: "[Opponent Team] defense vs [Position]".

%[5]s`, game.AwayTeam, game.HomeTeam, game.Date, focus, responseFormat)
}
