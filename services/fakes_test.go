package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"nfl-pool-go/database"
	"nfl-pool-go/models"
)

type fakePickStore struct {
	mu    sync.Mutex
	picks []models.Pick
}

func (f *fakePickStore) FindSurvivorPicks(ctx context.Context, season int, participantID string) ([]models.Pick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Pick
	for _, p := range f.picks {
		if p.Pool == models.PoolSurvivor && p.Season == season && p.ParticipantID == participantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePickStore) FindAllSurvivorPicks(ctx context.Context, season int) ([]models.ParticipantPicks, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Pick
	for _, p := range f.picks {
		if p.Pool == models.PoolSurvivor && p.Season == season {
			out = append(out, p)
		}
	}
	return database.GroupByParticipant(out), nil
}

func (f *fakePickStore) FindConfidencePicks(ctx context.Context, season, week int) ([]models.ParticipantPicks, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Pick
	for _, p := range f.picks {
		if p.Pool == models.PoolConfidence && p.Season == season && p.Week == week {
			out = append(out, p)
		}
	}
	return database.GroupByParticipant(out), nil
}

func (f *fakePickStore) UpsertPick(ctx context.Context, pick *models.Pick) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.picks {
		if p.Pool == pick.Pool && p.Season == pick.Season && p.Week == pick.Week &&
			p.ParticipantID == pick.ParticipantID && p.GameID == pick.GameID {
			f.picks[i] = *pick
			return nil
		}
	}
	f.picks = append(f.picks, *pick)
	return nil
}

type fakeOutcomeStore struct {
	mu       sync.Mutex
	outcomes []models.GameOutcome
	loads    int
	upserts  [][]models.GameOutcome
}

func (f *fakeOutcomeStore) FindBySeason(ctx context.Context, season int) ([]models.GameOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	var out []models.GameOutcome
	for _, o := range f.outcomes {
		if o.Season == season {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOutcomeStore) FindByWeek(ctx context.Context, season, week int) ([]models.GameOutcome, error) {
	all, _ := f.FindBySeason(ctx, season)
	var out []models.GameOutcome
	for _, o := range all {
		if o.Week == week {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOutcomeStore) BulkUpsert(ctx context.Context, outcomes []models.GameOutcome) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, outcomes)
	for _, o := range outcomes {
		replaced := false
		for i := range f.outcomes {
			if f.outcomes[i].GameID == o.GameID {
				f.outcomes[i] = o
				replaced = true
			}
		}
		if !replaced {
			f.outcomes = append(f.outcomes, o)
		}
	}
	return len(outcomes), nil
}

type fakeVerdictStore struct {
	mu       sync.Mutex
	verdicts map[string]models.SurvivorVerdict
	writes   int
}

func newFakeVerdictStore() *fakeVerdictStore {
	return &fakeVerdictStore{verdicts: make(map[string]models.SurvivorVerdict)}
}

func (f *fakeVerdictStore) Replace(ctx context.Context, v *models.SurvivorVerdict) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.verdicts[v.ParticipantID] = *v
	return nil
}

func (f *fakeVerdictStore) FindBySeason(ctx context.Context, season int) ([]models.SurvivorVerdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SurvivorVerdict
	for _, v := range f.verdicts {
		if v.Season == season {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out, nil
}

func (f *fakeVerdictStore) FindByParticipant(ctx context.Context, season int, participantID string) (*models.SurvivorVerdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.verdicts[participantID]
	if !ok || v.Season != season {
		return nil, database.ErrNotFound
	}
	return &v, nil
}

type fakeScoreStore struct {
	mu     sync.Mutex
	scores map[string]models.WeeklyScore
}

func newFakeScoreStore() *fakeScoreStore {
	return &fakeScoreStore{scores: make(map[string]models.WeeklyScore)}
}

func scoreKey(participantID string, week int) string {
	return fmt.Sprintf("%s/%d", participantID, week)
}

func (f *fakeScoreStore) Replace(ctx context.Context, s *models.WeeklyScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[scoreKey(s.ParticipantID, s.Week)] = *s
	return nil
}

func (f *fakeScoreStore) FindByWeek(ctx context.Context, season, week int) ([]models.WeeklyScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WeeklyScore
	for _, s := range f.scores {
		if s.Season == season && s.Week == week {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out, nil
}

func (f *fakeScoreStore) FindByParticipant(ctx context.Context, season int, participantID string) ([]models.WeeklyScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WeeklyScore
	for _, s := range f.scores {
		if s.Season == season && s.ParticipantID == participantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScoreStore) SeasonStandings(ctx context.Context, season int) ([]models.SeasonStanding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := make(map[string]*models.SeasonStanding)
	for _, s := range f.scores {
		if s.Season != season {
			continue
		}
		st, ok := totals[s.ParticipantID]
		if !ok {
			st = &models.SeasonStanding{ParticipantID: s.ParticipantID, Season: season}
			totals[s.ParticipantID] = st
		}
		st.TotalPoints += s.TotalPoints
		st.CorrectPicks += s.CorrectPicks
		st.WeeksScored++
	}
	var out []models.SeasonStanding
	for _, st := range totals {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })
	return out, nil
}

type fakeUserRepo struct {
	users  []models.User
	nextID int
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUserRepo) GetUserByID(id int) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, *user)
	return nil
}

type fakeSource struct {
	outcomes []models.GameOutcome
	err      error
}

func (f *fakeSource) GetOutcomesForYear(ctx context.Context, season int) ([]models.GameOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.GameOutcome(nil), f.outcomes...), nil
}

func (f *fakeSource) HealthCheck() bool { return f.err == nil }

var errFeedDown = errors.New("feed down")

func final(id string, week int, home, away, winner string) models.GameOutcome {
	return models.GameOutcome{GameID: id, Season: 2025, Week: week, HomeTeam: home, AwayTeam: away, Status: models.GameStatusFinal, Winner: winner}
}

func survivor(pid string, week int, team string) models.Pick {
	return *models.NewSurvivorPick(pid, 2025, week, team)
}

func confidence(pid string, week int, gameID, team string, c int) models.Pick {
	return *models.NewConfidencePick(pid, 2025, week, gameID, team, c)
}
