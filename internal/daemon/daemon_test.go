package daemon

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/config"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
)

func openTestDaemon(t *testing.T, cfg config.Config) *Daemon {
	t.Helper()
	d, err := Open(context.Background(), cfg, filepath.Join(t.TempDir(), "daemon.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestServeListener_ScansAndShutsDown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scan.Interval = 50 * time.Millisecond
	d := openTestDaemon(t, cfg)

	ctx := context.Background()
	u, err := d.Service.CreateUser(ctx, "alice", 50, "")
	require.NoError(t, err)
	_, err = d.Service.CreateHabit(ctx, habits.NewHabit{UserID: u.ID, Name: "Read", Level: intp(60), TargetCount: 1})
	require.NoError(t, err)
	require.NoError(t, d.Service.SetUserLevel(ctx, u.ID, 0))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- d.ServeListener(runCtx, ln) }()

	require.Eventually(t, func() bool {
		notes, err := d.Service.Notifications(ctx, u.ID, true, 0)
		return err == nil && len(notes) == 1
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "ok", body["status"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	// Repeated scans must not duplicate the notification.
	notes, err := d.Service.Notifications(ctx, u.ID, false, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestOpen_WithMockCoach(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Coach.Enabled = true
	d := openTestDaemon(t, cfg)

	ctx := context.Background()
	u, err := d.Service.CreateUser(ctx, "bob", 10, "")
	require.NoError(t, err)

	res, err := d.Service.CreateHabit(ctx, habits.NewHabit{UserID: u.ID, Name: "Swim", Level: intp(120), TargetCount: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Plans)
	// The bare mock provider has no canned responses, so the templates stand.
	assert.False(t, res.Personalized)
	assert.Equal(t, 50, res.Plans.Lv50.TargetLevel)
}

func TestOpen_InvalidProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Coach.Enabled = true
	cfg.LLM.Provider = "nope"

	_, err := Open(context.Background(), cfg, filepath.Join(t.TempDir(), "bad.db"), nil)
	assert.Error(t, err)
}

func intp(v int) *int { return &v }
