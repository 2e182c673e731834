package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairhub-backend/internal/config"
	"repairhub-backend/internal/types"
)

func newDeviceStub(t *testing.T, status string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"analysis":{"overallStatus":"` + status + `"},"summary":"No records found"}`))
	}))
}

func newOpenAIStub(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + reply + `"}}]}`))
	}))
}

func newTestConfig(deviceURL, llmBaseURL string) config.Config {
	return config.Config{
		Port:           "0",
		Env:            "test",
		LLMProvider:    "openai",
		LLMAPIKey:      "test-key",
		LLMBaseURL:     llmBaseURL,
		DeviceCheckURL: deviceURL,
		DataDir:        "../../data",
		AllowedOrigins: []string{"https://app.repairhub.io", "http://localhost:5173"},
		DefaultOrigin:  "https://app.repairhub.io",
	}
}

func postChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatIMEIRoundTrip(t *testing.T) {
	deviceSrv := newDeviceStub(t, "clean")
	defer deviceSrv.Close()
	llmSrv := newOpenAIStub(t, "Good news, that IMEI is clean.")
	defer llmSrv.Close()

	srv, err := NewServer(newTestConfig(deviceSrv.URL, llmSrv.URL+"/v1"))
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"messages":[{"role":"user","content":"is my phone stolen, IMEI 356938035643809"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-Id"))

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "imei_check", resp.Intent)
	assert.Equal(t, "Good news, that IMEI is clean.", resp.Reply)
	require.NotNil(t, resp.Meta.IMEI)
	assert.True(t, resp.Meta.IMEI.Checked)
	assert.Equal(t, "clean", resp.Meta.IMEI.Status)
	assert.Equal(t, []string{"Proceed with the trade-in quote", "Run a full diagnostic"}, resp.Meta.SuggestedActions)
}

func TestChatEchoesSessionID(t *testing.T) {
	deviceSrv := newDeviceStub(t, "clean")
	defer deviceSrv.Close()
	llmSrv := newOpenAIStub(t, "hello")
	defer llmSrv.Close()

	srv, err := NewServer(newTestConfig(deviceSrv.URL, llmSrv.URL+"/v1"))
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"sessionId":"sess-42","messages":[{"role":"user","content":"hi there"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-42", rec.Header().Get("X-Session-Id"))
}

func TestChatEmptyMessages(t *testing.T) {
	srv, err := NewServer(newTestConfig("http://device.invalid", ""))
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"messages":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "messages must be a non-empty array", resp.Error)
}

func TestChatNoUserTurn(t *testing.T) {
	srv, err := NewServer(newTestConfig("http://device.invalid", ""))
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"messages":[{"role":"assistant","content":"how can I help?"}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "messages must contain at least one user turn", resp.Error)
}

func TestChatMalformedJSON(t *testing.T) {
	srv, err := NewServer(newTestConfig("http://device.invalid", ""))
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"messages": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatProviderFailure(t *testing.T) {
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer llmSrv.Close()

	srv, err := NewServer(newTestConfig("http://device.invalid", llmSrv.URL+"/v1"))
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "failed to generate a reply", resp.Error)
	assert.Contains(t, resp.Debug, "500", "non-production responses carry debug detail")
}

func TestChatMissingAPIKey(t *testing.T) {
	cfg := newTestConfig("http://device.invalid", "")
	cfg.LLMAPIKey = ""
	srv, err := NewServer(cfg)
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Debug, "missing API key")
}

func TestChatDebugHiddenInProduction(t *testing.T) {
	cfg := newTestConfig("http://device.invalid", "")
	cfg.LLMAPIKey = ""
	cfg.Env = "production"
	srv, err := NewServer(cfg)
	require.NoError(t, err)

	rec := postChat(t, srv.Router(), `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Debug)
}

func TestPreflightAllowedOrigin(t *testing.T) {
	srv, err := NewServer(newTestConfig("http://device.invalid", ""))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestPreflightUnknownOriginFallsBack(t *testing.T) {
	srv, err := NewServer(newTestConfig("http://device.invalid", ""))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.repairhub.io", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestChatRejectsGet(t *testing.T) {
	srv, err := NewServer(newTestConfig("http://device.invalid", ""))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	srv, err := NewServer(newTestConfig("http://device.invalid", ""))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
