package job

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	loggedIn bool
	exp      time.Time
	ok       bool
}

func (f *fakeSession) LoggedIn() bool               { return f.loggedIn }
func (f *fakeSession) ExpiresAt() (time.Time, bool) { return f.exp, f.ok }

func runExpiryJob(t *testing.T, s *fakeSession, within time.Duration) string {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	j := NewSessionExpiryJob(s, within, logger)
	require.NoError(t, j.Run(context.Background()))
	return buf.String()
}

func TestSessionExpiryWarnsWhenExpired(t *testing.T) {
	out := runExpiryJob(t, &fakeSession{
		loggedIn: true,
		exp:      time.Now().Add(-time.Hour),
		ok:       true,
	}, time.Hour)
	assert.Contains(t, out, "vendor session expired")
}

func TestSessionExpiryWarnsWhenExpiringSoon(t *testing.T) {
	out := runExpiryJob(t, &fakeSession{
		loggedIn: true,
		exp:      time.Now().Add(30 * time.Minute),
		ok:       true,
	}, time.Hour)
	assert.Contains(t, out, "vendor session expiring soon")
}

func TestSessionExpiryQuietWhenHealthy(t *testing.T) {
	out := runExpiryJob(t, &fakeSession{
		loggedIn: true,
		exp:      time.Now().Add(48 * time.Hour),
		ok:       true,
	}, time.Hour)
	assert.Empty(t, out)
}

func TestSessionExpirySkipsWhenLoggedOut(t *testing.T) {
	out := runExpiryJob(t, &fakeSession{loggedIn: false}, time.Hour)
	assert.Empty(t, out)
}

func TestSessionExpirySkipsOpaqueToken(t *testing.T) {
	out := runExpiryJob(t, &fakeSession{loggedIn: true, ok: false}, time.Hour)
	assert.Empty(t, out)
}

func TestSessionExpiryMissingDeps(t *testing.T) {
	j := &SessionExpiryJob{}
	assert.Error(t, j.Run(context.Background()))
}
