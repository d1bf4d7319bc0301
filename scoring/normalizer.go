// Package scoring holds the pool decision core: team name normalization,
// survivor elimination and confidence scoring. Everything here is a pure
// function of its inputs; callers own all I/O.
package scoring

import (
	"sort"
	"strings"

	"nfl-pool-go/models"
)

// nflTeams is the canonical identity of every franchise.
// Abbreviations follow ESPN.
var nflTeams = []models.Team{
	// AFC East
	{Abbr: "BUF", City: "Buffalo", Name: "Bills", Conference: "AFC", Division: "East"},
	{Abbr: "MIA", City: "Miami", Name: "Dolphins", Conference: "AFC", Division: "East"},
	{Abbr: "NE", City: "New England", Name: "Patriots", Conference: "AFC", Division: "East"},
	{Abbr: "NYJ", City: "New York", Name: "Jets", Conference: "AFC", Division: "East"},

	// AFC North
	{Abbr: "BAL", City: "Baltimore", Name: "Ravens", Conference: "AFC", Division: "North"},
	{Abbr: "CIN", City: "Cincinnati", Name: "Bengals", Conference: "AFC", Division: "North"},
	{Abbr: "CLE", City: "Cleveland", Name: "Browns", Conference: "AFC", Division: "North"},
	{Abbr: "PIT", City: "Pittsburgh", Name: "Steelers", Conference: "AFC", Division: "North"},

	// AFC South
	{Abbr: "HOU", City: "Houston", Name: "Texans", Conference: "AFC", Division: "South"},
	{Abbr: "IND", City: "Indianapolis", Name: "Colts", Conference: "AFC", Division: "South"},
	{Abbr: "JAX", City: "Jacksonville", Name: "Jaguars", Conference: "AFC", Division: "South"},
	{Abbr: "TEN", City: "Tennessee", Name: "Titans", Conference: "AFC", Division: "South"},

	// AFC West
	{Abbr: "DEN", City: "Denver", Name: "Broncos", Conference: "AFC", Division: "West"},
	{Abbr: "KC", City: "Kansas City", Name: "Chiefs", Conference: "AFC", Division: "West"},
	{Abbr: "LV", City: "Las Vegas", Name: "Raiders", Conference: "AFC", Division: "West"},
	{Abbr: "LAC", City: "Los Angeles", Name: "Chargers", Conference: "AFC", Division: "West"},

	// NFC East
	{Abbr: "DAL", City: "Dallas", Name: "Cowboys", Conference: "NFC", Division: "East"},
	{Abbr: "NYG", City: "New York", Name: "Giants", Conference: "NFC", Division: "East"},
	{Abbr: "PHI", City: "Philadelphia", Name: "Eagles", Conference: "NFC", Division: "East"},
	{Abbr: "WSH", City: "Washington", Name: "Commanders", Conference: "NFC", Division: "East"},

	// NFC North
	{Abbr: "CHI", City: "Chicago", Name: "Bears", Conference: "NFC", Division: "North"},
	{Abbr: "DET", City: "Detroit", Name: "Lions", Conference: "NFC", Division: "North"},
	{Abbr: "GB", City: "Green Bay", Name: "Packers", Conference: "NFC", Division: "North"},
	{Abbr: "MIN", City: "Minnesota", Name: "Vikings", Conference: "NFC", Division: "North"},

	// NFC South
	{Abbr: "ATL", City: "Atlanta", Name: "Falcons", Conference: "NFC", Division: "South"},
	{Abbr: "CAR", City: "Carolina", Name: "Panthers", Conference: "NFC", Division: "South"},
	{Abbr: "NO", City: "New Orleans", Name: "Saints", Conference: "NFC", Division: "South"},
	{Abbr: "TB", City: "Tampa Bay", Name: "Buccaneers", Conference: "NFC", Division: "South"},

	// NFC West
	{Abbr: "ARI", City: "Arizona", Name: "Cardinals", Conference: "NFC", Division: "West"},
	{Abbr: "LAR", City: "Los Angeles", Name: "Rams", Conference: "NFC", Division: "West"},
	{Abbr: "SF", City: "San Francisco", Name: "49ers", Conference: "NFC", Division: "West"},
	{Abbr: "SEA", City: "Seattle", Name: "Seahawks", Conference: "NFC", Division: "West"},
}

// extraAliases covers spellings seen in pick and result data that the
// generated city/nickname/abbreviation forms miss.
var extraAliases = map[string]string{
	"WAS":                         "Washington Commanders",
	"WSH Commanders":              "Washington Commanders",
	"Washington Football Team":    "Washington Commanders",
	"Washington Redskins":         "Washington Commanders",
	"JAC":                         "Jacksonville Jaguars",
	"LA":                          "Los Angeles Rams",
	"LA Rams":                     "Los Angeles Rams",
	"LA Chargers":                 "Los Angeles Chargers",
	"St. Louis Rams":              "Los Angeles Rams",
	"San Diego Chargers":          "Los Angeles Chargers",
	"Oakland Raiders":             "Las Vegas Raiders",
	"OAK":                         "Las Vegas Raiders",
	"NY Giants":                   "New York Giants",
	"NY Jets":                     "New York Jets",
	"Niners":                      "San Francisco 49ers",
	"Bucs":                        "Tampa Bay Buccaneers",
	"Tampa Bay Bucs":              "Tampa Bay Buccaneers",
	"Pats":                        "New England Patriots",
	"GNB":                         "Green Bay Packers",
	"KAN":                         "Kansas City Chiefs",
	"NOR":                         "New Orleans Saints",
	"SFO":                         "San Francisco 49ers",
	"TAM":                         "Tampa Bay Buccaneers",
	"NWE":                         "New England Patriots",
	"LVR":                         "Las Vegas Raiders",
}

// Normalizer resolves raw team strings to canonical full names
type Normalizer struct {
	aliases map[string]string
}

var defaultNormalizer = NewNormalizer(nil)

// NewNormalizer builds the alias table. Entries in extra are applied last and
// override built-in aliases; values in extra should themselves be canonical.
func NewNormalizer(extra map[string]string) *Normalizer {
	n := &Normalizer{aliases: make(map[string]string, len(nflTeams)*6+len(extraAliases)+len(extra))}

	cityCount := make(map[string]int)
	for _, t := range nflTeams {
		cityCount[t.City]++
	}

	for _, t := range nflTeams {
		full := t.FullName()
		n.add(full, full)
		n.add(t.Abbr, full)
		n.add(t.Name, full)
		n.add(t.Abbr+" "+t.Name, full)
		// "New York" and "Los Angeles" are shared, so bare city names only
		// resolve when unique.
		if cityCount[t.City] == 1 {
			n.add(t.City, full)
		}
	}

	for alias, canonical := range extraAliases {
		n.add(alias, canonical)
	}
	// Extra aliases may point at each other, so all of them go in before
	// any target is resolved.
	for alias, canonical := range extra {
		n.add(alias, canonical)
	}
	resolved := make(map[string]string, len(extra))
	for alias, canonical := range extra {
		resolved[alias] = n.resolve(canonical, len(extra)+2)
	}
	for alias, canonical := range resolved {
		n.add(alias, canonical)
	}

	return n
}

func (n *Normalizer) add(alias, canonical string) {
	n.aliases[aliasKey(alias)] = canonical
}

// resolve follows alias targets until it reaches a name that maps to itself,
// an unknown name, or the hop limit
func (n *Normalizer) resolve(name string, hops int) string {
	for i := 0; i < hops; i++ {
		next, ok := n.aliases[aliasKey(name)]
		if !ok || next == name {
			return name
		}
		name = next
	}
	return name
}

// aliasKey lowercases and collapses internal whitespace
func aliasKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// Lookup returns the canonical name and whether raw was recognized
func (n *Normalizer) Lookup(raw string) (string, bool) {
	canonical, ok := n.aliases[aliasKey(raw)]
	return canonical, ok
}

// Normalize returns the canonical name for raw, or raw trimmed of
// surrounding whitespace when it is not recognized.
func (n *Normalizer) Normalize(raw string) string {
	if canonical, ok := n.Lookup(raw); ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// NormalizeTeamName resolves raw with the built-in alias table
func NormalizeTeamName(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// CanonicalTeams returns the 32 canonical team names, sorted
func CanonicalTeams() []string {
	names := make([]string, 0, len(nflTeams))
	for _, t := range nflTeams {
		names = append(names, t.FullName())
	}
	sort.Strings(names)
	return names
}

// TeamByName returns the franchise record for any recognized spelling
func TeamByName(raw string) (models.Team, bool) {
	canonical, ok := defaultNormalizer.Lookup(raw)
	if !ok {
		return models.Team{}, false
	}
	for _, t := range nflTeams {
		if t.FullName() == canonical {
			return t, true
		}
	}
	return models.Team{}, false
}

// SplitPickHistory splits a comma-joined pick history ("Bills, Chiefs,,Lions")
// into one trimmed entry per week. Empty entries are kept so that the slice
// index still lines up with the week.
func SplitPickHistory(history string) []string {
	if strings.TrimSpace(history) == "" {
		return nil
	}
	parts := strings.Split(history, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
