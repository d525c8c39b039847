package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := habits.NewService(st, habits.DefaultConfig())
	srv := NewServer(svc, habits.NewScanner(st, 2, nil), nil)
	srv.EnableMetrics()
	srv.SetVersion("test")

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createUser(t *testing.T, ts *httptest.Server, level int) store.User {
	t.Helper()
	var u store.User
	code := doJSON(t, http.MethodPost, ts.URL+"/api/users", map[string]any{"name": "alice", "level": level}, &u)
	require.Equal(t, http.StatusCreated, code)
	return u
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	code := doJSON(t, http.MethodGet, ts.URL+"/health", nil, &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, http.MethodGet, ts.URL+"/health", nil, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "vow_http_requests_total")
}

func TestTiers(t *testing.T) {
	ts := newTestServer(t)

	var tiers []struct {
		Tier       string   `json:"tier"`
		UpperBound *float64 `json:"upper_bound"`
		Multiplier float64  `json:"multiplier"`
		Rationale  string   `json:"rationale"`
	}
	code := doJSON(t, http.MethodGet, ts.URL+"/api/tiers", nil, &tiers)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, tiers, 6)
	assert.Equal(t, "minimal", tiers[0].Tier)
	assert.Equal(t, 0.3, tiers[0].Multiplier)
	assert.NotEmpty(t, tiers[0].Rationale)
	assert.Equal(t, "over", tiers[5].Tier)
	assert.Nil(t, tiers[5].UpperBound)
}

func TestSuggestLevel(t *testing.T) {
	ts := newTestServer(t)

	var out map[string]int
	code := doJSON(t, http.MethodGet, ts.URL+"/api/levels/suggest?frequency=daily&duration=30&target_count=2", nil, &out)
	require.Equal(t, http.StatusOK, code)
	// 50 base + 30 daily + 25 duration + 10 target.
	assert.Equal(t, 115, out["level"])

	code = doJSON(t, http.MethodGet, ts.URL+"/api/levels/suggest?frequency=hourly", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = doJSON(t, http.MethodGet, ts.URL+"/api/levels/suggest?duration=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUsers(t *testing.T) {
	ts := newTestServer(t)
	u := createUser(t, ts, 40)
	assert.Equal(t, 40, u.OverallLevel)

	var got store.User
	code := doJSON(t, http.MethodGet, ts.URL+"/api/users/"+u.ID, nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, u.ID, got.ID)

	code = doJSON(t, http.MethodPut, ts.URL+"/api/users/"+u.ID+"/level", map[string]int{"level": 120}, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 120, got.OverallLevel)

	code = doJSON(t, http.MethodGet, ts.URL+"/api/users/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = doJSON(t, http.MethodPost, ts.URL+"/api/users", map[string]any{"name": "bob", "level": 500}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCreateUser_RejectsUnknownFields(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/users", "application/json", strings.NewReader(`{"name":"x","lvl":3}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHabitLifecycle(t *testing.T) {
	ts := newTestServer(t)
	u := createUser(t, ts, 10)

	var created habits.CreateResult
	code := doJSON(t, http.MethodPost, ts.URL+"/api/users/"+u.ID+"/habits", map[string]any{
		"name":               "Run",
		"level":              100,
		"frequency":          "daily",
		"workload_per_count": 30,
		"workload_unit":      "min",
		"target_count":       1,
	}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, created.Habit)
	assert.True(t, created.Mismatch.IsMismatch)
	require.NotNil(t, created.Plans)
	assert.Equal(t, 50, created.Plans.Lv50.TargetLevel)
	assert.Equal(t, 10, created.Plans.Lv10.TargetLevel)
	habitID := created.Habit.ID

	var list []store.Habit
	code = doJSON(t, http.MethodGet, ts.URL+"/api/users/"+u.ID+"/habits", nil, &list)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, list, 1)

	var completion habits.CompletionResult
	code = doJSON(t, http.MethodPost, ts.URL+"/api/habits/"+habitID+"/completions", map[string]any{"actual": 1}, &completion)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "optimal", string(completion.XP.Tier))
	assert.Equal(t, 10, completion.AwardedXP)

	code = doJSON(t, http.MethodPost, ts.URL+"/api/habits/"+habitID+"/completions", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var check habits.HabitCheck
	code = doJSON(t, http.MethodGet, ts.URL+"/api/habits/"+habitID+"/check", nil, &check)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, check.Mismatch)
	assert.Equal(t, 90, check.Mismatch.LevelGap)

	var steps struct {
		Plans struct {
			Lv50 struct {
				TargetLevel int `json:"target_level"`
			} `json:"lv50"`
		} `json:"plans"`
		Personalized bool `json:"personalized"`
	}
	code = doJSON(t, http.MethodGet, ts.URL+"/api/habits/"+habitID+"/baby-steps", nil, &steps)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 50, steps.Plans.Lv50.TargetLevel)
	assert.False(t, steps.Personalized)

	var adopted store.Habit
	code = doJSON(t, http.MethodPost, ts.URL+"/api/habits/"+habitID+"/baby-steps", map[string]int{"target_level": 10}, &adopted)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, adopted.Level)
	assert.Equal(t, 10, *adopted.Level)
	assert.Nil(t, adopted.OriginalLevelGap)

	code = doJSON(t, http.MethodGet, ts.URL+"/api/habits/missing/check", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestScanAndNotifications(t *testing.T) {
	ts := newTestServer(t)
	u := createUser(t, ts, 50)

	code := doJSON(t, http.MethodPost, ts.URL+"/api/users/"+u.ID+"/habits", map[string]any{
		"name":         "Journal",
		"level":        60,
		"target_count": 1,
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	code = doJSON(t, http.MethodPut, ts.URL+"/api/users/"+u.ID+"/level", map[string]int{"level": 0}, nil)
	require.Equal(t, http.StatusOK, code)

	var report habits.ScanReport
	code = doJSON(t, http.MethodPost, ts.URL+"/api/users/"+u.ID+"/scan", nil, &report)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, report.Notified)

	var notes []store.Notification
	code = doJSON(t, http.MethodGet, ts.URL+"/api/users/"+u.ID+"/notifications?unread=true", nil, &notes)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, notes, 1)
	assert.Equal(t, store.NotificationLevelMismatch, notes[0].Kind)

	code = doJSON(t, http.MethodPost, ts.URL+"/api/notifications/"+strconv.Itoa(notes[0].ID)+"/read", nil, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code = doJSON(t, http.MethodGet, ts.URL+"/api/users/"+u.ID+"/notifications?unread=true", nil, &notes)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, notes)

	code = doJSON(t, http.MethodPost, ts.URL+"/api/notifications/9999/read", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = doJSON(t, http.MethodPost, ts.URL+"/api/notifications/abc/read", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestConsistency(t *testing.T) {
	ts := newTestServer(t)
	u := createUser(t, ts, 150)

	// Workload estimate: 30 daily + 5 + 5 = 40, far from the assessed 180.
	code := doJSON(t, http.MethodPost, ts.URL+"/api/users/"+u.ID+"/habits", map[string]any{
		"name":               "Stretch",
		"level":              180,
		"frequency":          "daily",
		"workload_per_count": 5,
		"target_count":       1,
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	var report habits.ConsistencyReport
	code = doJSON(t, http.MethodGet, ts.URL+"/api/users/"+u.ID+"/consistency", nil, &report)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].IsConsistent)
	assert.Equal(t, 40, report.Results[0].EstimatedLevelFromWorkload)
	assert.Empty(t, report.Reassessed)
}
