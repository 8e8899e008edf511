package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/config"
	"github.com/noon-labs/namecycler/telegram"
)

const testToken = "42:app-test-token"

// fakeBotAPI answers getMe, hands out one enabled business connection and
// accepts every rename.
type fakeBotAPI struct {
	mu      sync.Mutex
	polls   int
	renames []map[string]any
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/bot"+testToken+"/")
	raw, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")

	switch method {
	case "getMe":
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Cycler","username":"cycler_bot"}}`)
	case "getUpdates":
		f.mu.Lock()
		f.polls++
		first := f.polls == 1
		f.mu.Unlock()
		if first {
			_, _ = io.WriteString(w, `{"ok":true,"result":[{"update_id":7,"business_connection":{"id":"conn-1","is_enabled":true,"user":{"id":1,"first_name":"Noon"}}}]}`)
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(20 * time.Millisecond):
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":[]}`)
	case "setBusinessAccountName":
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		f.mu.Lock()
		f.renames = append(f.renames, body)
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
	}
}

func (f *fakeBotAPI) renameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renames)
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Bot: config.BotConfig{
			Token:       testToken,
			APIURL:      apiURL,
			PollTimeout: time.Second,
		},
		Names:   config.NamesConfig{Base: "noon"},
		Logging: config.LoggingConfig{Level: "debug"},
	}
}

func TestAppRenamesAfterBusinessConnection(t *testing.T) {
	api := &fakeBotAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, testConfig(srv.URL), nil)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- a.run(ctx) }()

	require.Eventually(t, func() bool { return api.renameCount() > 0 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, "conn-1", a.rotator.ConnectionID())
	assert.True(t, a.rotator.Running())
	// a successful rename also slows the loop down
	assert.Eventually(t, func() bool { return a.rotator.Interval() > common.MinInterval }, 2*time.Second, 10*time.Millisecond)

	api.mu.Lock()
	first := api.renames[0]
	api.mu.Unlock()
	assert.Equal(t, "conn-1", first["business_connection_id"])
	assert.NotEmpty(t, first["first_name"])

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.False(t, a.rotator.Running())

	// second drain is a no-op
	a.shutdown()
}

func TestAppGetMeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	a, err := newApp(context.Background(), testConfig(srv.URL), nil)
	require.NoError(t, err)

	err = a.run(context.Background())
	require.Error(t, err)
	assert.True(t, common.IsErrType(err, common.ErrTypeAPI))

	var apiErr *telegram.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Code)
}

func TestNewAppRejectsBadURL(t *testing.T) {
	cfg := testConfig("not a url")
	_, err := newApp(context.Background(), cfg, nil)
	assert.True(t, common.IsErrType(err, common.ErrTypeValidation))
}

func TestRootCmdMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	assert.ErrorIs(t, err, common.ErrMissingToken)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"", "info"},
		{"bogus", "info"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in).String(), tt.in)
	}
}
