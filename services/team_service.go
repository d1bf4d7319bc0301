package services

import (
	"fmt"
	"strings"

	"nfl-pool-go/scoring"
)

// TeamInfo is the public description of one franchise
type TeamInfo struct {
	Abbr       string `json:"abbr"`
	Name       string `json:"name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
	LogoURL    string `json:"logoUrl"`
}

// GetTeamIconURL returns the ESPN logo URL for a given team abbreviation
func GetTeamIconURL(teamAbbr string) string {
	if teamAbbr == "" {
		return ""
	}
	return fmt.Sprintf("https://a.espncdn.com/combiner/i?img=/i/teamlogos/nfl/500/scoreboard/%s.png", strings.ToLower(teamAbbr))
}

// ListTeams returns every franchise ordered by canonical name
func ListTeams() []TeamInfo {
	names := scoring.CanonicalTeams()
	teams := make([]TeamInfo, 0, len(names))
	for _, name := range names {
		team, ok := scoring.TeamByName(name)
		if !ok {
			continue
		}
		teams = append(teams, TeamInfo{
			Abbr:       team.Abbr,
			Name:       team.FullName(),
			Conference: team.Conference,
			Division:   team.Division,
			LogoURL:    GetTeamIconURL(team.Abbr),
		})
	}
	return teams
}
