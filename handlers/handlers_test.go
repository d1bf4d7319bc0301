package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nfl-pool-go/metrics"
	"nfl-pool-go/middleware"
	"nfl-pool-go/models"
	"nfl-pool-go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSurvivor struct {
	verdicts    []models.SurvivorVerdict
	recomputed  []int
	lastThrough int
}

func (s *stubSurvivor) RecomputeSeason(ctx context.Context, season, throughWeek int) ([]models.SurvivorVerdict, error) {
	s.recomputed = append(s.recomputed, season)
	s.lastThrough = throughWeek
	return s.verdicts, nil
}

func (s *stubSurvivor) RecomputeParticipant(ctx context.Context, season int, participantID string, throughWeek int) (*models.SurvivorVerdict, error) {
	return s.EvaluateParticipant(ctx, season, participantID, throughWeek)
}

func (s *stubSurvivor) EvaluateParticipant(ctx context.Context, season int, participantID string, throughWeek int) (*models.SurvivorVerdict, error) {
	if season < 1920 {
		return nil, fmt.Errorf("%w: %d", services.ErrInvalidSeason, season)
	}
	v := models.Alive(participantID, throughWeek)
	v.Season = season
	return &v, nil
}

func (s *stubSurvivor) Verdicts(ctx context.Context, season int) ([]models.SurvivorVerdict, error) {
	if season == 1999 {
		return nil, errors.New("connection reset")
	}
	return s.verdicts, nil
}

type stubConfidence struct {
	scores []models.WeeklyScore
}

func (s *stubConfidence) RecomputeWeek(ctx context.Context, season, week int) ([]models.WeeklyScore, error) {
	if week > models.MaxWeek {
		return nil, fmt.Errorf("%w: %d", services.ErrInvalidWeek, week)
	}
	return s.scores, nil
}

func (s *stubConfidence) WeekScores(ctx context.Context, season, week int) ([]models.WeeklyScore, error) {
	return s.RecomputeWeek(ctx, season, week)
}

func (s *stubConfidence) Standings(ctx context.Context, season int) ([]models.SeasonStanding, error) {
	return []models.SeasonStanding{{ParticipantID: "carol", Season: season, TotalPoints: 42}}, nil
}

type stubPicks struct {
	stored []models.Pick
}

func (s *stubPicks) SubmitSurvivorPick(ctx context.Context, season, week int, participantID, team string) (*models.Pick, error) {
	if team == "Nowhere" {
		return nil, fmt.Errorf("%w: %q", services.ErrUnknownTeam, team)
	}
	p := models.NewSurvivorPick(participantID, season, week, team)
	s.stored = append(s.stored, *p)
	return p, nil
}

func (s *stubPicks) SubmitConfidencePick(ctx context.Context, season, week int, participantID, gameID, team string, confidence int) (*models.Pick, error) {
	p := models.NewConfidencePick(participantID, season, week, gameID, team, confidence)
	s.stored = append(s.stored, *p)
	return p, nil
}

func (s *stubPicks) ImportSurvivorHistory(ctx context.Context, season int, participantID, history string) ([]models.Pick, error) {
	var out []models.Pick
	for i, team := range strings.Split(history, ",") {
		out = append(out, *models.NewSurvivorPick(participantID, season, i+1, team))
	}
	return out, nil
}

type stubAuth struct{}

func (stubAuth) Login(email, password string) (*models.User, string, error) {
	if email == "admin@example.com" && password == "pw" {
		return &models.User{ID: 1, Name: "Admin", Email: email, IsAdmin: true}, "admin-token", nil
	}
	return nil, "", services.ErrInvalidCredentials
}

func (stubAuth) ValidateToken(token string) (*models.User, error) {
	switch token {
	case "admin-token":
		return &models.User{ID: 1, Email: "admin@example.com", IsAdmin: true}, nil
	case "viewer-token":
		return &models.User{ID: 2, Email: "viewer@example.com"}, nil
	}
	return nil, services.ErrInvalidToken
}

func (stubAuth) GenerateToken(user *models.User) (string, error) { return "admin-token", nil }

type fixture struct {
	server     http.Handler
	survivor   *stubSurvivor
	confidence *stubConfidence
	picks      *stubPicks
	dbErr      error
}

func newFixture() *fixture {
	week := 2
	f := &fixture{
		survivor: &stubSurvivor{verdicts: []models.SurvivorVerdict{
			{ParticipantID: "alice", Season: 2025, ThroughWeek: 2, IsAlive: true},
			{ParticipantID: "bob", Season: 2025, ThroughWeek: 2, EliminatedWeek: &week, EliminationReason: models.ReasonDuplicateTeam},
		}},
		confidence: &stubConfidence{scores: []models.WeeklyScore{{ParticipantID: "carol", Season: 2025, Week: 1, TotalPoints: 13}}},
		picks:      &stubPicks{},
	}

	auth := stubAuth{}
	f.server = NewRouter(Router{
		Auth:       NewAuthHandler(auth, true, time.Hour),
		Survivor:   NewSurvivorHandler(f.survivor),
		Confidence: NewConfidenceHandler(f.confidence),
		Evaluate:   NewEvaluateHandler(nil, nil),
		Picks:      NewPickHandler(f.picks),
		Health:     NewHealthHandler(func(ctx context.Context) error { return f.dbErr }, func() bool { return true }),
		AuthMW:     middleware.NewAuthMiddleware(auth),
		Metrics:    metrics.NewManager(),
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestSurvivorRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/seasons/2025/survivor", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary SurvivorSummary
	decode(t, rec, &summary)
	assert.Equal(t, 1, summary.Alive)
	assert.Equal(t, 1, summary.Eliminated)
	assert.Len(t, summary.Verdicts, 2)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = f.do(t, http.MethodGet, "/api/seasons/2025/survivor/alice?through=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var verdict models.SurvivorVerdict
	decode(t, rec, &verdict)
	assert.Equal(t, "alice", verdict.ParticipantID)
	assert.Equal(t, 3, verdict.ThroughWeek)

	rec = f.do(t, http.MethodGet, "/api/seasons/2025/survivor/alice?through=x", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/seasons/1800/survivor/alice", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/seasons/1999/survivor", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestAdminRecomputeRequiresAdmin(t *testing.T) {
	f := newFixture()
	path := "/api/admin/seasons/2025/survivor/recompute?through=4"

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, path, "", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, path, "viewer-token", "").Code)
	assert.Empty(t, f.survivor.recomputed)

	rec := f.do(t, http.MethodPost, path, "admin-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2025}, f.survivor.recomputed)
	assert.Equal(t, 4, f.survivor.lastThrough)
}

func TestConfidenceRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/seasons/2025/weeks/1/confidence", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var week WeekResponse
	decode(t, rec, &week)
	assert.Equal(t, 1, week.Week)
	assert.Equal(t, 13, week.Scores[0].TotalPoints)

	rec = f.do(t, http.MethodPost, "/api/admin/seasons/2025/weeks/19/confidence/recompute", "admin-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/seasons/2025/standings", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPoints":42`)
}

func TestEvaluateRoutes(t *testing.T) {
	f := newFixture()

	body := `{
	  "throughWeek": 1,
	  "picks": [{"participantId": "alice", "season": 2025, "week": 1, "team": "DEN", "pool": "survivor"}],
	  "outcomes": [{"season": 2025, "week": 1, "homeTeam": "Denver Broncos", "awayTeam": "Las Vegas Raiders", "status": "final", "winner": "Las Vegas Raiders"}]
	}`
	rec := f.do(t, http.MethodPost, "/api/evaluate/survivor", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var verdict models.SurvivorVerdict
	decode(t, rec, &verdict)
	assert.False(t, verdict.IsAlive)
	assert.Equal(t, models.ReasonGameLoss, verdict.EliminationReason)

	rec = f.do(t, http.MethodPost, "/api/evaluate/survivor", "", `{"throughWeek": 30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = `{
	  "picks": [{"participantId": "bob", "season": 2025, "week": 5, "team": "KC", "confidence": 10, "pool": "confidence"}],
	  "outcomes": [{"gameId": "g1", "season": 2025, "week": 5, "homeTeam": "Kansas City Chiefs", "awayTeam": "Denver Broncos", "status": "final"}]
	}`
	rec = f.do(t, http.MethodPost, "/api/evaluate/confidence", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var score models.WeeklyScore
	decode(t, rec, &score)
	assert.Equal(t, 10, score.TotalPoints)
	assert.Equal(t, models.PickTie, score.PickResults["g1"].Status)

	rec = f.do(t, http.MethodPost, "/api/evaluate/confidence", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPickRoutes(t *testing.T) {
	f := newFixture()
	path := "/api/admin/seasons/2025/picks"

	rec := f.do(t, http.MethodPut, path, "admin-token", `{"pool":"survivor","participantId":"alice","week":3,"team":"KC"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.picks.stored, 1)
	assert.Equal(t, 3, f.picks.stored[0].Week)

	rec = f.do(t, http.MethodPut, path, "admin-token", `{"pool":"confidence","participantId":"bob","week":1,"gameId":"g1","team":"KC","confidence":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, f.picks.stored[1].ConfidenceValue())

	rec = f.do(t, http.MethodPut, path, "admin-token", `{"pool":"parlay","participantId":"bob","week":1,"team":"KC"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, path, "admin-token", `{"pool":"survivor","participantId":"bob","week":1,"team":"Nowhere"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown team")

	rec = f.do(t, http.MethodPost, path+"/import", "admin-token", `{"participantId":"carl","history":"KC,BUF"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":2`)
}

func TestAuthRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/login", "", `{"email":"admin@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AuthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "admin-token", resp.Token)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "auth_token=admin-token")

	rec = f.do(t, http.MethodPost, "/api/login", "", `{"email":"admin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/login", "", `{"email":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/me", "viewer-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "viewer@example.com")
}

func TestHealthAndTeams(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	f.dbErr = errors.New("no reachable servers")
	rec = f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/teams", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var teams []services.TeamInfo
	decode(t, rec, &teams)
	assert.Len(t, teams, 32)

	rec = f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
