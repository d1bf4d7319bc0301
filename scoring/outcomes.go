package scoring

import (
	"nfl-pool-go/models"
)

// outcomeIndex groups outcomes by week with team names already normalized,
// since result feeds drift from pick data ("NE Patriots" vs "New England Patriots").
type outcomeIndex struct {
	byWeek map[int][]models.GameOutcome
}

func newOutcomeIndex(outcomes []models.GameOutcome, n *Normalizer) outcomeIndex {
	idx := outcomeIndex{byWeek: make(map[int][]models.GameOutcome)}
	for _, o := range outcomes {
		o.HomeTeam = n.Normalize(o.HomeTeam)
		o.AwayTeam = n.Normalize(o.AwayTeam)
		if o.Winner != "" && o.Winner != models.TieMarker {
			o.Winner = n.Normalize(o.Winner)
		}
		idx.byWeek[o.Week] = append(idx.byWeek[o.Week], o)
	}
	return idx
}

// find returns the game team played in during week. A week of 0 or less
// searches every week, for callers that did not record one on the pick.
func (idx outcomeIndex) find(week int, team string) (models.GameOutcome, bool) {
	if week > 0 {
		for _, o := range idx.byWeek[week] {
			if o.Involves(team) {
				return o, true
			}
		}
		return models.GameOutcome{}, false
	}

	for w := 1; w <= models.MaxWeek; w++ {
		for _, o := range idx.byWeek[w] {
			if o.Involves(team) {
				return o, true
			}
		}
	}
	return models.GameOutcome{}, false
}
