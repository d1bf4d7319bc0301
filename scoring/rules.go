package scoring

// Rules holds the pool policies that have differed between pool seasons.
// DefaultRules enables all of them.
type Rules struct {
	// TieSurvives keeps a survivor participant alive when their team ties.
	TieSurvives bool `koanf:"tie_survives" json:"tieSurvives"`
	// TieCreditsConfidence awards full confidence points to both sides of a tie.
	TieCreditsConfidence bool `koanf:"tie_credits_confidence" json:"tieCreditsConfidence"`
	// UniqueTeams eliminates a survivor participant who reuses a team.
	UniqueTeams bool `koanf:"unique_teams" json:"uniqueTeams"`
	// MissingPickEliminates eliminates a survivor participant with no pick for a week.
	MissingPickEliminates bool `koanf:"missing_pick_eliminates" json:"missingPickEliminates"`
}

// DefaultRules returns terminal elimination with the duplicate-team rule,
// immediate NO_PICK elimination and tie tolerance in both pools.
func DefaultRules() Rules {
	return Rules{
		TieSurvives:           true,
		TieCreditsConfidence:  true,
		UniqueTeams:           true,
		MissingPickEliminates: true,
	}
}
