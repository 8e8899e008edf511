package telegram

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const testToken = "123456789:TEST-token-value"

type recordedCall struct {
	Method string
	Body   map[string]any
}

// mockBotAPI is an in-process stand-in for the Bot API. Replies are keyed
// by method name; each entry is consumed in order, the last one repeats.
type mockBotAPI struct {
	mu      sync.Mutex
	replies map[string][]mockReply
	calls   []recordedCall
}

type mockReply struct {
	status int
	body   string
}

func (m *mockBotAPI) reply(method string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replies == nil {
		m.replies = make(map[string][]mockReply)
	}
	m.replies[method] = append(m.replies[method], mockReply{status: status, body: body})
}

func (m *mockBotAPI) recorded() []recordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedCall(nil), m.calls...)
}

func (m *mockBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	prefix := "/bot" + testToken + "/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.Error(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	method := strings.TrimPrefix(r.URL.Path, prefix)

	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	m.mu.Lock()
	m.calls = append(m.calls, recordedCall{Method: method, Body: body})
	queue := m.replies[method]
	var rep mockReply
	switch len(queue) {
	case 0:
		rep = mockReply{status: http.StatusNotFound, body: `{"ok":false,"error_code":404,"description":"Not Found"}`}
	case 1:
		rep = queue[0]
	default:
		rep = queue[0]
		m.replies[method] = queue[1:]
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

func startMockBotAPI(t *testing.T) (*mockBotAPI, *Client) {
	t.Helper()

	mock := &mockBotAPI{}
	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)

	client, err := NewClient(testToken, WithBaseURL(srv.URL), WithPollTimeout(1))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(client.Close)

	return mock, client
}
