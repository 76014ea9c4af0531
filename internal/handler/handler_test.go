package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	mrand "math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/i18n"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/realtime"
	"github.com/vaultpass/passgen/internal/repository"
	"github.com/vaultpass/passgen/internal/service"
)

const testSecret = "handler-test-secret"

type testAPI struct {
	srv *httptest.Server
	hub *realtime.Hub
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := repository.NewMemoryStore()
	hub := realtime.NewHub()
	history := service.NewHistoryService(store, hub)
	locales := service.NewLocaleService(store, i18n.Default)
	rng := crypto.Locked(mrand.New(mrand.NewPCG(7, 8)))

	r := NewRouter(ctx, RouterConfig{
		Generator:      service.NewGeneratorService(rng, crypto.DefaultOptions(), history, locales),
		History:        history,
		Locales:        locales,
		Sessions:       service.NewSessionService(testSecret, time.Hour),
		Hub:            hub,
		SessionSecret:  testSecret,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &testAPI{srv: srv, hub: hub}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testAPI) session(t *testing.T) model.SessionResponse {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[model.SessionResponse](t, resp)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateAnonymous(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/v1/generate", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[model.GenerateResponse](t, resp)
	assert.Len(t, body.Password, 16)
	assert.Equal(t, 16, body.Length)
	assert.NotEqual(t, string(crypto.TierUnknown), body.Strength.Tier)
	assert.Nil(t, body.History)
}

func TestGenerateValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "too long", body: map[string]any{"length": 129}, status: http.StatusBadRequest},
		{name: "negative", body: map[string]any{"length": -1}, status: http.StatusBadRequest},
		{name: "malformed", body: "{", status: http.StatusBadRequest},
		{name: "max length", body: map[string]any{"length": 128}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.do(t, http.MethodPost, "/api/v1/generate", "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestGenerateNoCharset(t *testing.T) {
	api := newTestAPI(t)
	sess := api.session(t)

	resp := api.do(t, http.MethodPost, "/api/v1/generate", sess.Token, map[string]any{
		"uppercase": false, "lowercase": false, "numbers": false, "symbols": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[model.GenerateResponse](t, resp)
	assert.Empty(t, body.Password)
	assert.Equal(t, string(crypto.TierUnknown), body.Strength.Tier)

	hist := decode[model.HistoryResponse](t, api.do(t, http.MethodGet, "/api/v1/history", sess.Token, nil))
	assert.Empty(t, hist.Entries)
}

func TestGenerateRejectsBadToken(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/v1/generate", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHistoryFlow(t *testing.T) {
	api := newTestAPI(t)
	sess := api.session(t)

	var passwords []string
	for i := 0; i < 6; i++ {
		resp := api.do(t, http.MethodPost, "/api/v1/generate", sess.Token, map[string]any{"length": 20})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		passwords = append(passwords, decode[model.GenerateResponse](t, resp).Password)
	}

	resp := api.do(t, http.MethodGet, "/api/v1/history", sess.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[model.HistoryResponse](t, resp)

	require.Len(t, hist.Entries, service.HistoryLimit)
	for i, e := range hist.Entries {
		assert.Equal(t, passwords[len(passwords)-1-i], e.Value)
	}

	resp = api.do(t, http.MethodDelete, "/api/v1/history", sess.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	hist = decode[model.HistoryResponse](t, api.do(t, http.MethodGet, "/api/v1/history", sess.Token, nil))
	assert.NotNil(t, hist.Entries)
	assert.Empty(t, hist.Entries)
}

func TestSessionRequiredRoutes(t *testing.T) {
	api := newTestAPI(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/history"},
		{http.MethodDelete, "/api/v1/history"},
		{http.MethodGet, "/api/v1/locale"},
		{http.MethodPut, "/api/v1/locale"},
	} {
		resp := api.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestLocaleFlow(t *testing.T) {
	api := newTestAPI(t)
	sess := api.session(t)

	got := decode[model.LocaleResponse](t, api.do(t, http.MethodGet, "/api/v1/locale", sess.Token, nil))
	assert.Equal(t, "zh", got.Locale)
	assert.Equal(t, "密码生成器", got.Labels["title"])

	resp := api.do(t, http.MethodPut, "/api/v1/locale", sess.Token, model.LocaleRequest{Locale: "en"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got = decode[model.LocaleResponse](t, resp)
	assert.Equal(t, "en", got.Locale)

	// the strength label follows the session locale
	gen := decode[model.GenerateResponse](t, api.do(t, http.MethodPost, "/api/v1/generate", sess.Token, map[string]any{"length": 64}))
	assert.Equal(t, "Strong", gen.Strength.Label)

	resp = api.do(t, http.MethodPut, "/api/v1/locale", sess.Token, model.LocaleRequest{Locale: "fr"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "zh", decode[model.LocaleResponse](t, resp).Locale)

	got = decode[model.LocaleResponse](t, api.do(t, http.MethodGet, "/api/v1/locale", sess.Token, nil))
	assert.Equal(t, "zh", got.Locale)
}

func TestLabels(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		query  string
		locale string
	}{
		{query: "?locale=en", locale: "en"},
		{query: "?locale=zh", locale: "zh"},
		{query: "?locale=xx", locale: "zh"},
		{query: "", locale: "zh"},
	}

	for _, tt := range tests {
		resp := api.do(t, http.MethodGet, "/api/v1/labels"+tt.query, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[model.LocaleResponse](t, resp)
		assert.Equal(t, tt.locale, body.Locale)
		assert.Len(t, body.Labels, len(i18n.Keys()))
	}
}

func TestStrengthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/v1/strength", "", model.StrengthRequest{Password: "aA1b"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[model.StrengthResponse](t, resp)
	assert.Equal(t, string(crypto.TierStrong), body.Tier)
	assert.Equal(t, "强", body.Label)
	require.NotNil(t, body.Estimate)

	resp = api.do(t, http.MethodPost, "/api/v1/strength", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStrengthLabelFollowsSessionLocale(t *testing.T) {
	api := newTestAPI(t)
	sess := api.session(t)

	resp := api.do(t, http.MethodPut, "/api/v1/locale", sess.Token, model.LocaleRequest{Locale: "en"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[model.StrengthResponse](t, api.do(t, http.MethodPost, "/api/v1/strength", sess.Token, model.StrengthRequest{Password: "abc"}))
	assert.Equal(t, string(crypto.TierWeak), body.Tier)
	assert.Equal(t, "Weak", body.Label)

	gen := decode[model.GenerateResponse](t, api.do(t, http.MethodPost, "/api/v1/generate", sess.Token, map[string]any{"length": 3, "uppercase": false, "numbers": false, "symbols": false}))
	assert.Equal(t, body.Label, gen.Strength.Label)

	// anonymous requests keep the default locale, bad tokens are rejected
	anon := decode[model.StrengthResponse](t, api.do(t, http.MethodPost, "/api/v1/strength", "", model.StrengthRequest{Password: "abc"}))
	assert.Equal(t, "弱", anon.Label)

	resp = api.do(t, http.MethodPost, "/api/v1/strength", "bogus", model.StrengthRequest{Password: "abc"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebsocketReceivesHistory(t *testing.T) {
	api := newTestAPI(t)
	sess := api.session(t)

	url := "ws" + strings.TrimPrefix(api.srv.URL, "http") + "/api/v1/ws?token=" + sess.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev model.HistoryEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, realtime.EventHistory, ev.Type)
	assert.Empty(t, ev.Entries)

	gen := decode[model.GenerateResponse](t, api.do(t, http.MethodPost, "/api/v1/generate", sess.Token, nil))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&ev))
	require.Len(t, ev.Entries, 1)
	assert.Equal(t, gen.Password, ev.Entries[0].Value)
}

func TestWebsocketRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	for _, query := range []string{"", "?token=bogus"} {
		url := "ws" + strings.TrimPrefix(api.srv.URL, "http") + "/api/v1/ws" + query
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
